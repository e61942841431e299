package models

import "time"

// Job удаляется мягко: IsActive=false
type Job struct {
	BaseModel
	PostedBy              string         `gorm:"type:varchar(36);index;not null" json:"posted_by"`
	CompanyID             *string        `gorm:"type:varchar(36);index" json:"company_id,omitempty"`
	JobTitle              string         `gorm:"type:varchar(255);not null" json:"job_title"`
	CompanyName           string         `gorm:"type:varchar(255);not null" json:"company_name"`
	Industry              string         `json:"industry"`
	EmploymentType        EmploymentType `gorm:"type:varchar(20)" json:"employment_type"`
	WorkMode              WorkMode       `gorm:"type:varchar(20)" json:"work_mode"`
	City                  string         `json:"city"`
	State                 string         `json:"state"`
	Country               string         `json:"country"`
	ExperienceRequired    string         `json:"experience_required"`
	EducationRequired     string         `json:"education_required"`
	SkillsRequired        string         `gorm:"type:text" json:"skills_required"`
	SalaryType            string         `json:"salary_type"`
	SalaryMin             *float64       `json:"salary_min"`
	SalaryMax             *float64       `json:"salary_max"`
	JobSummary            string         `gorm:"type:text" json:"job_summary"`
	RolesResponsibilities string         `gorm:"type:text" json:"roles_responsibilities"`
	KeyRequirements       string         `gorm:"type:text" json:"key_requirements"`
	ApplicationDeadline   *time.Time     `json:"application_deadline"`
	HowToApply            string         `json:"how_to_apply"`
	NumberOfOpenings      int            `json:"number_of_openings"`
	HiringManager         string         `json:"hiring_manager"`
	RecruiterContact      string         `json:"recruiter_contact"`
	JobStatus             JobStatus      `gorm:"type:varchar(20)" json:"job_status"`
	Visibility            JobVisibility  `gorm:"type:varchar(20)" json:"visibility"`
	Tags                  string         `json:"tags"`
	IsActive              bool           `gorm:"index;not null" json:"is_active"`
}

// JobApplication - не более одной заявки на пару (job, candidate)
type JobApplication struct {
	BaseModel
	JobID       string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_application_job_candidate" json:"job_id"`
	CandidateID string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_application_job_candidate;index" json:"candidate_id"`
	ProfileID   string            `gorm:"type:varchar(36);index" json:"profile_id"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null" json:"application_status"`
	CoverLetter string            `gorm:"type:text" json:"cover_letter"`
	ResumeURL   string            `json:"resume_url"`
	Notes       string            `gorm:"type:text" json:"notes"`
	AppliedAt   time.Time         `json:"applied_at"`

	Job *Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}
