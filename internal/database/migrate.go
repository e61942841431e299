package database

import (
	"fmt"
	"time"

	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	start := time.Now()
	err := db.AutoMigrate(models.AllModels()...)
	logger.DBLog("automigrate", "all", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// Reset удаляет все таблицы в обратном порядке зависимостей
func Reset(db *gorm.DB) error {
	all := models.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		start := time.Now()
		err := db.Migrator().DropTable(all[i])
		logger.DBLog("drop_table", fmt.Sprintf("%T", all[i]), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("drop %T: %w", all[i], err)
		}
	}
	return nil
}

// TableStatus - строка отчета -status
type TableStatus struct {
	Table  string
	Exists bool
	Rows   int64
}

// Status возвращает наличие таблиц и количество строк
func Status(db *gorm.DB) ([]TableStatus, error) {
	var out []TableStatus
	for _, m := range models.AllModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse %T: %w", m, err)
		}

		st := TableStatus{Table: stmt.Schema.Table, Exists: db.Migrator().HasTable(m)}
		if st.Exists {
			if err := db.Model(m).Count(&st.Rows).Error; err != nil {
				return nil, fmt.Errorf("count %s: %w", st.Table, err)
			}
		}
		out = append(out, st)
	}
	return out, nil
}
