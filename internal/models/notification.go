package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID       string           `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Type         NotificationType `gorm:"column:notification_type;type:varchar(30);not null" json:"notification_type"`
	Title        string           `gorm:"not null" json:"title"`
	Message      string           `gorm:"type:text" json:"message"`
	RelatedJobID *string          `gorm:"type:varchar(36);index" json:"related_job_id,omitempty"`
	Data         datatypes.JSON   `json:"data,omitempty"` // {"job_id": "...", "status": "..."}
	IsRead       bool             `gorm:"not null;index" json:"is_read"`
	ReadAt       *time.Time       `json:"read_at,omitempty"`
}
