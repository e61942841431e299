package dto

import (
	"encoding/json"

	"jobalert_backend/internal/models"

	"gorm.io/datatypes"
)

type JobPreferenceInput struct {
	PreferredJobTitle      string   `json:"preferred_job_title"`
	JobLocationPreferences string   `json:"job_location_preferences"`
	EmploymentType         string   `json:"employment_type"`
	ExpectedSalaryCTC      *float64 `json:"expected_salary_ctc" validate:"omitempty,gte=0"`
	NoticePeriod           string   `json:"notice_period"`
}

type EducationInput struct {
	DegreeQualification string `json:"degree_qualification"`
	Institution         string `json:"institution"`
	FieldOfStudy        string `json:"field_of_study"`
	StartYear           *int   `json:"start_year" validate:"omitempty,gte=1900,lte=2100"`
	EndYear             *int   `json:"end_year" validate:"omitempty,gte=1900,lte=2100"`
}

type ProjectInput struct {
	ProjectTitle   string `json:"project_title"`
	LiveGithubLink string `json:"live_github_link" validate:"omitempty,url"`
	Description    string `json:"description"`
}

// ProfileRequest - POST /profile. Дочерние коллекции заменяются целиком.
type ProfileRequest struct {
	FullName        string               `json:"full_name" validate:"omitempty,max=200"`
	Email           string               `json:"email" validate:"omitempty,email"`
	MobileNumber    string               `json:"mobile_number" validate:"omitempty,max=20"`
	Headline        string               `json:"headline"`
	CurrentJobTitle string               `json:"current_job_title"`
	Company         string               `json:"company"`
	Country         string               `json:"country"`
	State           string               `json:"state"`
	City            string               `json:"city"`
	Bio             string               `json:"bio"`
	ExperienceYears *int                 `json:"experience_years" validate:"omitempty,gte=0,lte=80"`
	Skills          []string             `json:"skills"`
	ResumeURL       string               `json:"resume_url" validate:"omitempty,url"`
	CoverLetterURL  string               `json:"cover_letter_url" validate:"omitempty,url"`
	JobPreferences  []JobPreferenceInput `json:"job_preferences" validate:"dive"`
	Education       []EducationInput     `json:"education" validate:"dive"`
	Projects        []ProjectInput       `json:"projects" validate:"dive"`
}

// ToModel не трогает флаги одобрения, их меняет только админ
func (r *ProfileRequest) ToModel(userID string) *models.Profile {
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	raw, _ := json.Marshal(skills)

	p := &models.Profile{
		UserID:          userID,
		FullName:        r.FullName,
		Email:           r.Email,
		MobileNumber:    r.MobileNumber,
		Headline:        r.Headline,
		CurrentJobTitle: r.CurrentJobTitle,
		Company:         r.Company,
		Country:         r.Country,
		State:           r.State,
		City:            r.City,
		Bio:             r.Bio,
		ExperienceYears: r.ExperienceYears,
		Skills:          datatypes.JSON(raw),
		ResumeURL:       r.ResumeURL,
		CoverLetterURL:  r.CoverLetterURL,
	}
	for _, jp := range r.JobPreferences {
		p.JobPreferences = append(p.JobPreferences, models.JobPreference{
			PreferredJobTitle:      jp.PreferredJobTitle,
			JobLocationPreferences: jp.JobLocationPreferences,
			EmploymentType:         jp.EmploymentType,
			ExpectedSalaryCTC:      jp.ExpectedSalaryCTC,
			NoticePeriod:           jp.NoticePeriod,
		})
	}
	for _, e := range r.Education {
		p.Educations = append(p.Educations, models.Education{
			DegreeQualification: e.DegreeQualification,
			Institution:         e.Institution,
			FieldOfStudy:        e.FieldOfStudy,
			StartYear:           e.StartYear,
			EndYear:             e.EndYear,
		})
	}
	for _, pr := range r.Projects {
		p.Projects = append(p.Projects, models.Project{
			ProjectTitle:   pr.ProjectTitle,
			LiveGithubLink: pr.LiveGithubLink,
			Description:    pr.Description,
		})
	}
	return p
}

// ProfileStatusRequest - админское одобрение/отклонение/деактивация
type ProfileStatusRequest struct {
	IsApproved    *bool `json:"is_approved"`
	IsRejected    *bool `json:"is_rejected"`
	IsDeactivated *bool `json:"is_deactivated"`
}

func (r *ProfileStatusRequest) ToFields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.IsApproved != nil {
		fields["is_approved"] = *r.IsApproved
	}
	if r.IsRejected != nil {
		fields["is_rejected"] = *r.IsRejected
	}
	if r.IsDeactivated != nil {
		fields["is_deactivated"] = *r.IsDeactivated
	}
	return fields
}

// MyProfileResponse - GET /profile
type MyProfileResponse struct {
	User    *UserResponse   `json:"user"`
	Profile *models.Profile `json:"profile"`
}

type ProfileResponse struct {
	Message string          `json:"message"`
	Profile *models.Profile `json:"profile"`
}
