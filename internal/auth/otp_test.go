package auth

import (
	"regexp"
	"testing"
	"time"

	"jobalert_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomOTP_SixDigits(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := RandomOTP{}.Generate()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestCheckOTP(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	pending := NewOTPCode("123456", now)

	tests := []struct {
		name   string
		stored models.OTPCode
		code   string
		at     time.Time
		want   error
	}{
		{"none", models.OTPCode{}, "123456", now, ErrOTPNotFound},
		{"match", pending, "123456", now.Add(5 * time.Minute), nil},
		{"match at expiry boundary", pending, "123456", now.Add(OTPTTL), nil},
		{"expired", pending, "123456", now.Add(OTPTTL + time.Second), ErrOTPExpired},
		{"expired wins over mismatch", pending, "000000", now.Add(time.Hour), ErrOTPExpired},
		{"mismatch", pending, "000000", now, ErrOTPMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOTP(tt.stored, tt.code, tt.at)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestValidateNewPassword(t *testing.T) {
	assert.ErrorIs(t, ValidateNewPassword("password1", "password2"), ErrPasswordMismatch)
	assert.ErrorIs(t, ValidateNewPassword("short", "short"), ErrPasswordTooShort)
	assert.NoError(t, ValidateNewPassword("longenough", "longenough"))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cretpass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
