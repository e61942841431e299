package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type JobAlert struct {
	BaseModel
	UserID          string         `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name"`
	Keywords        datatypes.JSON `json:"keywords"` // ["golang", "backend"]
	Location        string         `json:"location"`
	JobType         EmploymentType `gorm:"type:varchar(20)" json:"job_type"`
	ExperienceLevel string         `json:"experience_level"`
	SalaryMin       *float64       `json:"salary_min"`
	SalaryMax       *float64       `json:"salary_max"`
	IsRemote        bool           `gorm:"not null" json:"is_remote"`
	IsActive        bool           `gorm:"not null" json:"is_active"`
	Frequency       AlertFrequency `gorm:"type:varchar(20)" json:"frequency"`
	LastSent        *time.Time     `json:"last_sent"`
}

func (a *JobAlert) GetKeywords() []string {
	var keywords []string
	if len(a.Keywords) > 0 {
		_ = json.Unmarshal(a.Keywords, &keywords)
	}
	return keywords
}

type Company struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	IsActive    bool   `gorm:"not null" json:"is_active"`
}
