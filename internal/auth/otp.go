package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"jobalert_backend/internal/models"
)

const (
	OTPLength = 6
	OTPTTL    = 10 * time.Minute
)

var (
	ErrOTPNotFound = errors.New("no pending otp")
	ErrOTPExpired  = errors.New("otp expired")
	ErrOTPMismatch = errors.New("otp mismatch")
)

// OTPGenerator выдает коды; в тестах подменяется детерминированной реализацией
type OTPGenerator interface {
	Generate() (string, error)
}

// RandomOTP - 6 цифр из crypto/rand
type RandomOTP struct{}

func (RandomOTP) Generate() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}

// NewOTPCode возвращает pending-пару с истечением через OTPTTL
func NewOTPCode(code string, now time.Time) models.OTPCode {
	expires := now.Add(OTPTTL)
	return models.OTPCode{Code: &code, ExpiresAt: &expires}
}

// CheckOTP проверяет код без изменения состояния.
// Порядок проверок: нет кода -> истек -> не совпал.
func CheckOTP(stored models.OTPCode, code string, now time.Time) error {
	if !stored.Pending() {
		return ErrOTPNotFound
	}
	if now.After(*stored.ExpiresAt) {
		return ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(*stored.Code), []byte(code)) != 1 {
		return ErrOTPMismatch
	}
	return nil
}
