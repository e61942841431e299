package dto

import "time"

// RegisterRequest - ровно один из email / mobile_number
type RegisterRequest struct {
	Username     string `json:"username" form:"username" validate:"required,max=100"`
	Email        string `json:"email" form:"email" validate:"omitempty,email"`
	MobileNumber string `json:"mobile_number" form:"mobile_number" validate:"omitempty,min=7,max=20"`
	Password     string `json:"password" form:"password" validate:"required,min=8,max=128"`
	FullName     string `json:"full_name" form:"full_name" validate:"omitempty,max=200"`
	// Публичная регистрация не выдает роль admin
	Role string `json:"role" form:"role" validate:"omitempty,oneof=candidate employer"`
}

type RegisterResponse struct {
	Message            string  `json:"message"`
	UserID             string  `json:"user_id"`
	Email              *string `json:"email,omitempty"`
	MobileNumber       *string `json:"mobile_number,omitempty"`
	VerificationMethod string  `json:"verification_method"`
	OTP                string  `json:"otp,omitempty"`
	Warning            string  `json:"warning,omitempty"`
}

// LoginRequest - JSON {email, password} или форма OAuth2 username/password
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type MobileLoginRequest struct {
	MobileNumber string `json:"mobile_number" form:"mobile_number" validate:"required"`
	OTP          string `json:"otp" form:"otp" validate:"required"`
}

// VerifyRequest - единая верификация, канал выбирается по заполненному полю
type VerifyRequest struct {
	Email        string `json:"email" validate:"omitempty,email"`
	MobileNumber string `json:"mobile_number"`
	OTP          string `json:"otp"`
}

type EmailVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type MobileVerifyRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required"`
	OTP          string `json:"otp" validate:"required"`
}

type VerificationResponse struct {
	Message            string `json:"message"`
	Verified           bool   `json:"verified"`
	VerificationMethod string `json:"verification_method,omitempty"`
}

type ResendRequest struct {
	Email        string `json:"email" validate:"omitempty,email"`
	MobileNumber string `json:"mobile_number"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type MobileRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required"`
}

// OTPSentResponse - otp/warning заполняются только при недоступном SMS
type OTPSentResponse struct {
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// Длина нового пароля проверяется в сервисе после сравнения с подтверждением
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type ResetPasswordOTPRequest struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type MobileResetPasswordRequest struct {
	MobileNumber    string `json:"mobile_number" validate:"required"`
	OTP             string `json:"otp" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type TokenValidResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type EmailCheckResponse struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

type UserRoleResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
}

type RoleCheckResponse struct {
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	CurrentRole     string `json:"current_role"`
	RequiredRole    string `json:"required_role"`
	HasRequiredRole bool   `json:"has_required_role"`
	IsSuperuser     bool   `json:"is_superuser"`
	AccessGranted   bool   `json:"access_granted"`
}

// UserResponse - пользователь без секретов
type UserResponse struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        *string    `json:"email"`
	MobileNumber *string    `json:"mobile_number"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	IsSuperuser  bool       `json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
