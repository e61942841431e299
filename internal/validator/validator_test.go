package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"omitempty,is-user-role"`
	OTP    string `json:"otp" validate:"omitempty,otp-code"`
	Type   string `json:"employment_type" validate:"omitempty,employment-type"`
	Mode   string `json:"work_mode" validate:"omitempty,work-mode"`
	Status string `json:"status" validate:"omitempty,application-status"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		in        sample
		badFields []string
	}{
		{"valid", sample{Email: "a@b.co", Role: "employer", OTP: "123456", Type: "full-time", Mode: "remote", Status: "hired"}, nil},
		{"missing email", sample{}, []string{"email"}},
		{"unknown role", sample{Email: "a@b.co", Role: "root"}, []string{"role"}},
		{"short otp", sample{Email: "a@b.co", OTP: "123"}, []string{"otp"}},
		{"letters in otp", sample{Email: "a@b.co", OTP: "12a456"}, []string{"otp"}},
		{"bad enums", sample{Email: "a@b.co", Type: "gig", Mode: "moon", Status: "lost"}, []string{"employment_type", "work_mode", "status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.badFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Len(t, verr.Errors, len(tt.badFields))
			for _, f := range tt.badFields {
				assert.Contains(t, verr.Errors, f)
			}
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	err := New().Validate(sample{Email: "nope", Role: "root"})
	require.Error(t, err)
	verr := err.(*ValidationError)
	assert.Equal(t, "Must be a valid email address", verr.Errors["email"])
	assert.Equal(t, "Must be one of: candidate, employer, admin", verr.Errors["role"])
}
