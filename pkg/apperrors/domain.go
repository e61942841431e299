package apperrors

import (
	"net/http"
)

// =========================================================================
// Фабрики
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrDuplicateRegistration - при регистрации существование идентификатора раскрывается намеренно.
func ErrDuplicateRegistration(field string) *AppError {
	return New(CodeAlreadyExists, "auth",
		"The user with this "+field+" already exists in the system.", http.StatusBadRequest)
}

// ErrChannelAlreadyVerified - channel: "Email" или "Mobile number"
func ErrChannelAlreadyVerified(channel string) *AppError {
	return New(CodeInvalidStatus, "auth", channel+" is already verified.", http.StatusBadRequest)
}

// ErrChannelNotActive - channel: "email" или "mobile number"
func ErrChannelNotActive(channel string) *AppError {
	return New(CodeInactiveUser, "auth",
		"Account is not active. Please verify your "+channel+" first.", http.StatusBadRequest)
}

// =========================================================================
// Auth
// =========================================================================

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Incorrect email or password",
	http.StatusUnauthorized,
)

var ErrInvalidMobileCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Incorrect mobile number or OTP",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный access-токен
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Could not validate credentials",
	http.StatusUnauthorized,
)

// ErrInvalidResetToken - токен сброса пароля не прошел проверку (400, а не 401)
var ErrInvalidResetToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired reset token.",
	http.StatusBadRequest,
)

var ErrInactiveUser = New(
	CodeInactiveUser,
	"auth",
	"Inactive user",
	http.StatusBadRequest,
)

var ErrUserNotVerified = New(
	CodeInactiveUser,
	"auth",
	"Account not verified. Please check your email and verify your account.",
	http.StatusBadRequest,
)

var ErrMobileNotVerified = New(
	CodeInactiveUser,
	"auth",
	"Account not verified. Please verify your mobile number.",
	http.StatusBadRequest,
)

var ErrAccountNotActive = New(
	CodeInactiveUser,
	"auth",
	"Account is not active. Please verify your account first.",
	http.StatusBadRequest,
)

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found.",
	http.StatusNotFound,
)

var ErrAdminRequired = New(
	CodeForbidden,
	"auth",
	"Access denied. Admin role required.",
	http.StatusForbidden,
)

var ErrEmployerRequired = New(
	CodeForbidden,
	"auth",
	"Access denied. Employer or admin role required.",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// =========================================================================
// Регистрация, OTP, пароли
// =========================================================================

var ErrChannelRequired = New(
	CodeValidationFailed,
	"auth",
	"Either email or mobile_number is required.",
	http.StatusBadRequest,
)

var ErrChannelConflict = New(
	CodeValidationFailed,
	"auth",
	"Please provide either email or mobile_number, not both.",
	http.StatusBadRequest,
)

var ErrOTPRequired = New(
	CodeValidationFailed,
	"otp",
	"OTP is required.",
	http.StatusBadRequest,
)

var ErrOTPMissing = New(
	CodeOTPMissing,
	"otp",
	"No OTP found. Please request a new OTP.",
	http.StatusBadRequest,
)

var ErrOTPExpired = New(
	CodeOTPExpired,
	"otp",
	"OTP has expired. Please request a new OTP.",
	http.StatusBadRequest,
)

var ErrOTPMismatch = New(
	CodeOTPMismatch,
	"otp",
	"Invalid OTP. Please check and try again.",
	http.StatusBadRequest,
)

var ErrAlreadyVerified = New(
	CodeInvalidStatus,
	"auth",
	"Account is already verified.",
	http.StatusBadRequest,
)

var ErrPasswordMismatch = New(
	CodeValidationFailed,
	"auth",
	"Passwords do not match.",
	http.StatusBadRequest,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long.",
	http.StatusBadRequest,
)

// =========================================================================
// Jobs, applications, profiles
// =========================================================================

var ErrJobNotFound = New(CodeNotFound, "job", "Job not found", http.StatusNotFound)

var ErrApplicationNotFound = New(CodeNotFound, "application", "Application not found", http.StatusNotFound)

var ErrAlreadyApplied = New(
	CodeAlreadyExists,
	"application",
	"You have already applied for this job",
	http.StatusConflict,
)

var ErrProfileNotFound = New(CodeNotFound, "profile", "Profile not found", http.StatusNotFound)

var ErrProfileNotApproved = New(
	CodeInvalidStatus,
	"application",
	"User profile is not approved or is deactivated/rejected, cannot apply for jobs",
	http.StatusBadRequest,
)

var ErrNotificationNotFound = New(CodeNotFound, "notification", "Notification not found", http.StatusNotFound)

var ErrCompanyNotFound = New(CodeNotFound, "company", "Company not found", http.StatusNotFound)

var ErrCompanyExists = New(
	CodeAlreadyExists,
	"company",
	"Company with this name already exists",
	http.StatusConflict,
)

var ErrJobAlertNotFound = New(CodeNotFound, "job_alert", "Job alert not found", http.StatusNotFound)
