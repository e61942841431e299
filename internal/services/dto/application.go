package dto

type ApplyRequest struct {
	JobID       string `json:"job_id" validate:"required,uuid"`
	CoverLetter string `json:"cover_letter" validate:"omitempty,max=10000"`
	ResumeURL   string `json:"resume_url" validate:"omitempty,url"`
}

type UpdateApplicationStatusRequest struct {
	Status string  `json:"application_status" validate:"required,application-status"`
	Notes  *string `json:"notes"`
}
