package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel - uuid генерируется в Go, чтобы схема одинаково работала на postgres, mysql и sqlite
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// AllModels - порядок важен для AutoMigrate и для reset (обратный порядок)
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Company{},
		&Profile{},
		&JobPreference{},
		&Education{},
		&Project{},
		&Job{},
		&JobApplication{},
		&JobAlert{},
		&Notification{},
	}
}
