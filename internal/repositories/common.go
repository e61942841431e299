package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Pagination - номер страницы с 1 и размер страницы
type Pagination struct {
	Page int
	Size int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize подставляет значения по умолчанию и ограничивает размер
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Size
}

// paginate - gorm scope для offset/limit
func paginate(p Pagination) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p = p.Normalize()
		return db.Offset(p.Offset()).Limit(p.Size)
	}
}

// likePattern экранирует спецсимволы LIKE и оборачивает в %...%
func likePattern(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return "%" + r.Replace(s) + "%"
}

// ilike - регистронезависимое сравнение, одинаковое для postgres, mysql и sqlite.
// Обратный слеш как escape в mysql ломает литерал, поэтому '!'.
func ilike(column string) string {
	return "LOWER(" + column + ") LIKE LOWER(?) ESCAPE '!'"
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// isDuplicateKey распознает нарушение уникального индекса у всех трех драйверов
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// newGroup - чистый *gorm.DB для группировки условий в скобки
func newGroup(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true})
}
