package dto

import (
	"time"

	"jobalert_backend/internal/models"
)

type CreateJobRequest struct {
	JobTitle              string     `json:"job_title" validate:"required,max=255"`
	CompanyName           string     `json:"company_name" validate:"required,max=255"`
	CompanyID             *string    `json:"company_id" validate:"omitempty,uuid"`
	Industry              string     `json:"industry"`
	EmploymentType        string     `json:"employment_type" validate:"employment-type"`
	WorkMode              string     `json:"work_mode" validate:"work-mode"`
	City                  string     `json:"city"`
	State                 string     `json:"state"`
	Country               string     `json:"country"`
	ExperienceRequired    string     `json:"experience_required"`
	EducationRequired     string     `json:"education_required"`
	SkillsRequired        string     `json:"skills_required"`
	SalaryType            string     `json:"salary_type"`
	SalaryMin             *float64   `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax             *float64   `json:"salary_max" validate:"omitempty,gte=0"`
	JobSummary            string     `json:"job_summary"`
	RolesResponsibilities string     `json:"roles_responsibilities"`
	KeyRequirements       string     `json:"key_requirements"`
	ApplicationDeadline   *time.Time `json:"application_deadline"`
	HowToApply            string     `json:"how_to_apply"`
	NumberOfOpenings      int        `json:"number_of_openings" validate:"omitempty,gte=1"`
	HiringManager         string     `json:"hiring_manager"`
	RecruiterContact      string     `json:"recruiter_contact"`
	JobStatus             string     `json:"job_status" validate:"omitempty,oneof=active inactive draft closed"`
	Visibility            string     `json:"visibility" validate:"omitempty,oneof=public private company_only"`
	Tags                  string     `json:"tags"`
}

// ToModel - статус и видимость по умолчанию active/public
func (r *CreateJobRequest) ToModel(postedBy string) *models.Job {
	job := &models.Job{
		PostedBy:              postedBy,
		CompanyID:             r.CompanyID,
		JobTitle:              r.JobTitle,
		CompanyName:           r.CompanyName,
		Industry:              r.Industry,
		EmploymentType:        models.EmploymentType(r.EmploymentType),
		WorkMode:              models.WorkMode(r.WorkMode),
		City:                  r.City,
		State:                 r.State,
		Country:               r.Country,
		ExperienceRequired:    r.ExperienceRequired,
		EducationRequired:     r.EducationRequired,
		SkillsRequired:        r.SkillsRequired,
		SalaryType:            r.SalaryType,
		SalaryMin:             r.SalaryMin,
		SalaryMax:             r.SalaryMax,
		JobSummary:            r.JobSummary,
		RolesResponsibilities: r.RolesResponsibilities,
		KeyRequirements:       r.KeyRequirements,
		ApplicationDeadline:   r.ApplicationDeadline,
		HowToApply:            r.HowToApply,
		NumberOfOpenings:      r.NumberOfOpenings,
		HiringManager:         r.HiringManager,
		RecruiterContact:      r.RecruiterContact,
		JobStatus:             models.JobStatus(r.JobStatus),
		Visibility:            models.JobVisibility(r.Visibility),
		Tags:                  r.Tags,
		IsActive:              true,
	}
	if job.JobStatus == "" {
		job.JobStatus = models.JobStatusActive
	}
	if job.Visibility == "" {
		job.Visibility = models.JobVisibilityPublic
	}
	if job.NumberOfOpenings == 0 {
		job.NumberOfOpenings = 1
	}
	return job
}

// UpdateJobRequest - nil означает "не менять"
type UpdateJobRequest struct {
	JobTitle              *string    `json:"job_title" validate:"omitempty,min=1,max=255"`
	CompanyName           *string    `json:"company_name" validate:"omitempty,min=1,max=255"`
	Industry              *string    `json:"industry"`
	EmploymentType        *string    `json:"employment_type" validate:"omitempty,employment-type"`
	WorkMode              *string    `json:"work_mode" validate:"omitempty,work-mode"`
	City                  *string    `json:"city"`
	State                 *string    `json:"state"`
	Country               *string    `json:"country"`
	ExperienceRequired    *string    `json:"experience_required"`
	EducationRequired     *string    `json:"education_required"`
	SkillsRequired        *string    `json:"skills_required"`
	SalaryType            *string    `json:"salary_type"`
	SalaryMin             *float64   `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax             *float64   `json:"salary_max" validate:"omitempty,gte=0"`
	JobSummary            *string    `json:"job_summary"`
	RolesResponsibilities *string    `json:"roles_responsibilities"`
	KeyRequirements       *string    `json:"key_requirements"`
	ApplicationDeadline   *time.Time `json:"application_deadline"`
	HowToApply            *string    `json:"how_to_apply"`
	NumberOfOpenings      *int       `json:"number_of_openings" validate:"omitempty,gte=1"`
	HiringManager         *string    `json:"hiring_manager"`
	RecruiterContact      *string    `json:"recruiter_contact"`
	JobStatus             *string    `json:"job_status" validate:"omitempty,oneof=active inactive draft closed"`
	Visibility            *string    `json:"visibility" validate:"omitempty,oneof=public private company_only"`
	Tags                  *string    `json:"tags"`
	IsActive              *bool      `json:"is_active"`
}

// ToFields собирает только переданные поля
func (r *UpdateJobRequest) ToFields() map[string]interface{} {
	fields := make(map[string]interface{})
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	setString("job_title", r.JobTitle)
	setString("company_name", r.CompanyName)
	setString("industry", r.Industry)
	setString("employment_type", r.EmploymentType)
	setString("work_mode", r.WorkMode)
	setString("city", r.City)
	setString("state", r.State)
	setString("country", r.Country)
	setString("experience_required", r.ExperienceRequired)
	setString("education_required", r.EducationRequired)
	setString("skills_required", r.SkillsRequired)
	setString("salary_type", r.SalaryType)
	setString("job_summary", r.JobSummary)
	setString("roles_responsibilities", r.RolesResponsibilities)
	setString("key_requirements", r.KeyRequirements)
	setString("how_to_apply", r.HowToApply)
	setString("hiring_manager", r.HiringManager)
	setString("recruiter_contact", r.RecruiterContact)
	setString("job_status", r.JobStatus)
	setString("visibility", r.Visibility)
	setString("tags", r.Tags)
	if r.SalaryMin != nil {
		fields["salary_min"] = *r.SalaryMin
	}
	if r.SalaryMax != nil {
		fields["salary_max"] = *r.SalaryMax
	}
	if r.ApplicationDeadline != nil {
		fields["application_deadline"] = *r.ApplicationDeadline
	}
	if r.NumberOfOpenings != nil {
		fields["number_of_openings"] = *r.NumberOfOpenings
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	return fields
}

// JobListQuery - параметры GET /jobs
type JobListQuery struct {
	PageQuery
	Search     string   `form:"search" json:"search"`
	Location   string   `form:"location" json:"location"`
	Experience string   `form:"experience" json:"experience"`
	JobType    string   `form:"job_type" json:"job_type" validate:"employment-type"`
	WorkMode   string   `form:"work_mode" json:"work_mode" validate:"work-mode"`
	Industry   string   `form:"industry" json:"industry"`
	SalaryMin  *float64 `form:"salary_min" json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax  *float64 `form:"salary_max" json:"salary_max" validate:"omitempty,gte=0"`
}

type AdminDashboardResponse struct {
	Message       string             `json:"message"`
	User          DashboardUser      `json:"user"`
	DashboardData DashboardJobCounts `json:"dashboard_data"`
}

type DashboardUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
}

type DashboardJobCounts struct {
	TotalJobs    int64 `json:"total_jobs"`
	ActiveJobs   int64 `json:"active_jobs"`
	InactiveJobs int64 `json:"inactive_jobs"`
}
