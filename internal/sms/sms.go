package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/logger"
)

// ErrDisabled - SMS не настроены (нет учетных данных Twilio)
var ErrDisabled = errors.New("sms service is not configured")

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

// Sender отправляет OTP по SMS
type Sender interface {
	Enabled() bool
	SendVerificationOTP(ctx context.Context, to, username, code string) error
	SendPasswordResetOTP(ctx context.Context, to, username, code string) error
}

// Config - учетные данные Twilio
type Config struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
	// BaseURL переопределяется в тестах
	BaseURL string
}

func (c Config) complete() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.PhoneNumber != ""
}

// New возвращает Twilio-клиент или Disabled, если конфиг неполный
func New(cfg Config) Sender {
	if !cfg.complete() {
		logger.Warn("Twilio credentials not configured, SMS delivery disabled")
		return Disabled{}
	}
	return NewTwilio(cfg, &http.Client{Timeout: 10 * time.Second})
}

// Disabled - заглушка, когда SMS не настроены
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) SendVerificationOTP(context.Context, string, string, string) error {
	return ErrDisabled
}

func (Disabled) SendPasswordResetOTP(context.Context, string, string, string) error {
	return ErrDisabled
}

// Twilio отправляет сообщения через Twilio Messages API
type Twilio struct {
	cfg    Config
	client *http.Client
}

func NewTwilio(cfg Config, client *http.Client) *Twilio {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Twilio{cfg: cfg, client: client}
}

func (t *Twilio) Enabled() bool { return true }

func (t *Twilio) SendVerificationOTP(ctx context.Context, to, username, code string) error {
	err := t.send(ctx, to, VerificationText(username, code))
	logger.TransportLog("sms", "verification_otp", to, err)
	return err
}

func (t *Twilio) SendPasswordResetOTP(ctx context.Context, to, username, code string) error {
	err := t.send(ctx, to, PasswordResetText(username, code))
	logger.TransportLog("sms", "password_reset_otp", to, err)
	return err
}

func (t *Twilio) send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.cfg.PhoneNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.cfg.BaseURL, url.PathEscape(t.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio responded %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func minutes() int { return int(auth.OTPTTL.Minutes()) }

// VerificationText - текст SMS с кодом подтверждения номера
func VerificationText(username, code string) string {
	if username == "" {
		return fmt.Sprintf("Your Job Alert verification code is: %s. This code will expire in %d minutes.", code, minutes())
	}
	return fmt.Sprintf("Hi %s! Your Job Alert verification code is: %s. This code will expire in %d minutes.", username, code, minutes())
}

// PasswordResetText - текст SMS с кодом сброса пароля
func PasswordResetText(username, code string) string {
	if username == "" {
		return fmt.Sprintf("Your Job Alert password reset code is: %s. This code will expire in %d minutes.", code, minutes())
	}
	return fmt.Sprintf("Hi %s! Your Job Alert password reset code is: %s. This code will expire in %d minutes.", username, code, minutes())
}
