package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Profile - расширение пользователя 1:1. Одобрение - три независимых флага,
// подавать заявки можно только при IsApproved && !IsRejected && !IsDeactivated.
type Profile struct {
	BaseModel
	UserID          string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	FullName        string         `gorm:"type:varchar(200)" json:"full_name"`
	Email           string         `gorm:"type:varchar(255)" json:"email"`
	MobileNumber    string         `gorm:"type:varchar(20)" json:"mobile_number"`
	Headline        string         `json:"headline"`
	CurrentJobTitle string         `json:"current_job_title"`
	Company         string         `json:"company"`
	Country         string         `json:"country"`
	State           string         `json:"state"`
	City            string         `json:"city"`
	Bio             string         `gorm:"type:text" json:"bio"`
	ExperienceYears *int           `json:"experience_years"`
	Skills          datatypes.JSON `json:"skills"` // ["go", "sql"]
	ResumeURL       string         `json:"resume_url"`
	CoverLetterURL  string         `json:"cover_letter_url"`
	IsActive        bool           `gorm:"not null" json:"is_active"`
	IsApproved      bool           `gorm:"not null" json:"is_approved"`
	IsRejected      bool           `gorm:"not null" json:"is_rejected"`
	IsDeactivated   bool           `gorm:"not null" json:"is_deactivated"`

	JobPreferences []JobPreference `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"job_preferences"`
	Educations     []Education     `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"education"`
	Projects       []Project       `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"projects"`
}

// CanApply - профиль одобрен и не отклонен/деактивирован
func (p *Profile) CanApply() bool {
	return p.IsApproved && !p.IsRejected && !p.IsDeactivated
}

// GetSkills возвращает навыки как slice строк
func (p *Profile) GetSkills() []string {
	var skills []string
	if len(p.Skills) > 0 {
		_ = json.Unmarshal(p.Skills, &skills)
	}
	return skills
}

type JobPreference struct {
	BaseModel
	ProfileID              string   `gorm:"type:varchar(36);index;not null" json:"-"`
	PreferredJobTitle      string   `json:"preferred_job_title"`
	JobLocationPreferences string   `json:"job_location_preferences"`
	EmploymentType         string   `json:"employment_type"`
	ExpectedSalaryCTC      *float64 `json:"expected_salary_ctc"`
	NoticePeriod           string   `json:"notice_period"`
}

type Education struct {
	BaseModel
	ProfileID           string `gorm:"type:varchar(36);index;not null" json:"-"`
	DegreeQualification string `json:"degree_qualification"`
	Institution         string `json:"institution"`
	FieldOfStudy        string `json:"field_of_study"`
	StartYear           *int   `json:"start_year"`
	EndYear             *int   `json:"end_year"`
}

type Project struct {
	BaseModel
	ProfileID      string `gorm:"type:varchar(36);index;not null" json:"-"`
	ProjectTitle   string `json:"project_title"`
	LiveGithubLink string `json:"live_github_link"`
	Description    string `gorm:"type:text" json:"description"`
}
