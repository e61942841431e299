package dto

type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Website     string `json:"website" validate:"omitempty,url"`
	Location    string `json:"location"`
	Industry    string `json:"industry"`
	Size        string `json:"size" validate:"omitempty,max=50"`
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Location    *string `json:"location"`
	Industry    *string `json:"industry"`
	Size        *string `json:"size" validate:"omitempty,max=50"`
	IsActive    *bool   `json:"is_active"`
}

func (r *UpdateCompanyRequest) ToFields() map[string]interface{} {
	fields := make(map[string]interface{})
	for col, v := range map[string]*string{
		"name":        r.Name,
		"description": r.Description,
		"website":     r.Website,
		"location":    r.Location,
		"industry":    r.Industry,
		"size":        r.Size,
	} {
		if v != nil {
			fields[col] = *v
		}
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	return fields
}

type CompanyListQuery struct {
	PageQuery
	Search string `form:"search" json:"search"`
}
