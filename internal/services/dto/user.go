package dto

import "jobalert_backend/internal/models"

// UpdateMeRequest - пользователь меняет только свои имя и фамилию
type UpdateMeRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

func (r *UpdateMeRequest) ToFields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.FirstName != nil {
		fields["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		fields["last_name"] = *r.LastName
	}
	return fields
}

// AdminUpdateUserRequest - PUT /users/:id
type AdminUpdateUserRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=1,max=100"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	Role        *string `json:"role" validate:"omitempty,is-user-role"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

func (r *AdminUpdateUserRequest) ToFields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Username != nil {
		fields["username"] = *r.Username
	}
	if r.FirstName != nil {
		fields["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		fields["last_name"] = *r.LastName
	}
	if r.Role != nil {
		fields["role"] = models.UserRole(*r.Role)
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	if r.IsSuperuser != nil {
		fields["is_superuser"] = *r.IsSuperuser
	}
	return fields
}

type UserSearchQuery struct {
	PageQuery
	Search string `form:"search" json:"search"`
}

// NewUserResponse убирает хэш пароля и OTP
func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		MobileNumber: u.MobileNumber,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		IsSuperuser:  u.IsSuperuser,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *NewUserResponse(&users[i]))
	}
	return out
}
