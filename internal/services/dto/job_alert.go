package dto

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type CreateJobAlertRequest struct {
	Name            string   `json:"name" validate:"required,max=255"`
	Keywords        []string `json:"keywords" validate:"omitempty,max=20,dive,min=1,max=100"`
	Location        string   `json:"location"`
	JobType         string   `json:"job_type" validate:"employment-type"`
	ExperienceLevel string   `json:"experience_level"`
	SalaryMin       *float64 `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax       *float64 `json:"salary_max" validate:"omitempty,gte=0"`
	IsRemote        bool     `json:"is_remote"`
	Frequency       string   `json:"frequency" validate:"omitempty,oneof=daily weekly"`
}

type UpdateJobAlertRequest struct {
	Name            *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Keywords        *[]string `json:"keywords" validate:"omitempty,max=20,dive,min=1,max=100"`
	Location        *string   `json:"location"`
	JobType         *string   `json:"job_type" validate:"omitempty,employment-type"`
	ExperienceLevel *string   `json:"experience_level"`
	SalaryMin       *float64  `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax       *float64  `json:"salary_max" validate:"omitempty,gte=0"`
	IsRemote        *bool     `json:"is_remote"`
	IsActive        *bool     `json:"is_active"`
	Frequency       *string   `json:"frequency" validate:"omitempty,oneof=daily weekly"`
}

func (r *UpdateJobAlertRequest) ToFields() map[string]interface{} {
	fields := make(map[string]interface{})
	for col, v := range map[string]*string{
		"name":             r.Name,
		"location":         r.Location,
		"job_type":         r.JobType,
		"experience_level": r.ExperienceLevel,
		"frequency":        r.Frequency,
	} {
		if v != nil {
			fields[col] = *v
		}
	}
	if r.Keywords != nil {
		fields["keywords"] = KeywordsJSON(*r.Keywords)
	}
	if r.SalaryMin != nil {
		fields["salary_min"] = *r.SalaryMin
	}
	if r.SalaryMax != nil {
		fields["salary_max"] = *r.SalaryMax
	}
	if r.IsRemote != nil {
		fields["is_remote"] = *r.IsRemote
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	return fields
}

// KeywordsJSON - nil превращается в пустой список
func KeywordsJSON(keywords []string) datatypes.JSON {
	if keywords == nil {
		keywords = []string{}
	}
	raw, _ := json.Marshal(keywords)
	return datatypes.JSON(raw)
}
