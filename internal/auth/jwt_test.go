package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", 30*time.Minute)

	token, err := m.GenerateAccessToken("user-1", "a@b.com", "candidate")
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "candidate", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestPasswordResetToken(t *testing.T) {
	m := NewTokenManager("secret", 30*time.Minute)

	token, err := m.GeneratePasswordResetToken("a@b.com")
	require.NoError(t, err)

	email, err := m.VerifyPasswordResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)

	t.Run("type tag mismatch", func(t *testing.T) {
		_, err := m.VerifyEmailVerificationToken(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)

		_, err = m.ParseAccessToken(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("other", 30*time.Minute)
		_, err := other.VerifyPasswordResetToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired after one hour", func(t *testing.T) {
		later := NewTokenManager("secret", 30*time.Minute)
		later.now = func() time.Time { return time.Now().Add(PasswordResetTTL + time.Minute) }
		_, err := later.VerifyPasswordResetToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestEmailVerificationToken_ValidForADay(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	token, err := m.GenerateEmailVerificationToken("a@b.com")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(23 * time.Hour) }
	email, err := m.VerifyEmailVerificationToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)
}

func TestParse_Garbage(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	_, err := m.ParseAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
