package validator

import (
	"log"
	"regexp"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var otpPattern = regexp.MustCompile(`^[0-9]+$`)

// registerCustomRules регистрирует кастомные правила валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правила приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("otp-code", validateOTPCode)
	mustRegister("employment-type", validateEmploymentType)
	mustRegister("work-mode", validateWorkMode)
	mustRegister("application-status", validateApplicationStatus)
}

// Пустые значения пропускаем, для них есть 'required'

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).Valid()
}

func validateOTPCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return len(value) == auth.OTPLength && otpPattern.MatchString(value)
}

func validateEmploymentType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.EmploymentType(value).Valid()
}

func validateWorkMode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.WorkMode(value).Valid()
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.ApplicationStatus(value).Valid()
}
