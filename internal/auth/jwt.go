package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Типы токенов, проверяются при разборе
const (
	TokenTypeAccess            = "access"
	TokenTypeEmailVerification = "email_verification"
	TokenTypePasswordReset     = "password_reset"
)

const (
	EmailVerificationTTL = 24 * time.Hour
	PasswordResetTTL     = time.Hour
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("unexpected token type")
)

// Claims - subject для access-токена это ID пользователя, для verification/reset - email
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Type  string `json:"type"`
}

// TokenManager подписывает и проверяет HS256 токены
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

func NewTokenManager(secret string, accessTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// GenerateAccessToken выдает access-токен для пользователя
func (m *TokenManager) GenerateAccessToken(userID, email, role string) (string, error) {
	return m.sign(userID, email, role, TokenTypeAccess, m.accessTTL)
}

// GenerateEmailVerificationToken - токен на 24 часа для подтверждения по ссылке
func (m *TokenManager) GenerateEmailVerificationToken(email string) (string, error) {
	return m.sign(email, email, "", TokenTypeEmailVerification, EmailVerificationTTL)
}

// GeneratePasswordResetToken - токен на 1 час для сброса пароля
func (m *TokenManager) GeneratePasswordResetToken(email string) (string, error) {
	return m.sign(email, email, "", TokenTypePasswordReset, PasswordResetTTL)
}

// ParseAccessToken возвращает claims access-токена
func (m *TokenManager) ParseAccessToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, TokenTypeAccess)
}

// VerifyEmailVerificationToken возвращает email из токена подтверждения
func (m *TokenManager) VerifyEmailVerificationToken(tokenString string) (string, error) {
	claims, err := m.parse(tokenString, TokenTypeEmailVerification)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// VerifyPasswordResetToken возвращает email из токена сброса пароля
func (m *TokenManager) VerifyPasswordResetToken(tokenString string) (string, error) {
	claims, err := m.parse(tokenString, TokenTypePasswordReset)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (m *TokenManager) sign(subject, email, role, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  role,
		Type:  tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) parse(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Type != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
