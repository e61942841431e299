package email

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/logger"

	"gopkg.in/gomail.v2"
)

// ErrMailNotConfigured возвращается транспортом, когда SMTP не настроен
var ErrMailNotConfigured = errors.New("mail transport is not configured")

const (
	subjectVerificationOTP   = "Email Verification OTP - Job Alert System"
	subjectPasswordResetLink = "Password Reset - Job Alert System"
	subjectPasswordResetOTP  = "Password Reset OTP - Job Alert System"
)

// Sender - почтовые уведомления сервиса аутентификации
type Sender interface {
	SendVerificationOTP(ctx context.Context, to, username, code string) error
	SendPasswordResetLink(ctx context.Context, to, username, token string) error
	SendPasswordResetOTP(ctx context.Context, to, username, code string) error
}

// Transport доставляет готовое письмо
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// SMTPConfig - параметры подключения к SMTP
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	SSL      bool
}

// GomailTransport отправляет письма через gomail
type GomailTransport struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewGomailTransport(cfg SMTPConfig) *GomailTransport {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	return &GomailTransport{cfg: cfg, dialer: d}
}

func (t *GomailTransport) Deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", t.cfg.From, t.cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	m.AddAlternative("text/html", msg.HTMLBody)

	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogTransport ничего не отправляет, только пишет в лог.
// Используется в development, когда SMTP не настроен.
type LogTransport struct{}

func (LogTransport) Deliver(ctx context.Context, msg Message) error {
	logger.CtxInfo(ctx, "mail delivery skipped (no smtp configured)",
		"to", logger.Mask(msg.To),
		"subject", msg.Subject,
	)
	return nil
}

// FailingTransport всегда возвращает ErrMailNotConfigured
type FailingTransport struct{}

func (FailingTransport) Deliver(context.Context, Message) error {
	return ErrMailNotConfigured
}

// Mailer рендерит шаблоны и передает письма транспорту
type Mailer struct {
	transport   Transport
	templates   *TemplateManager
	frontendURL string
}

func NewMailer(transport Transport, templates *TemplateManager, frontendURL string) *Mailer {
	return &Mailer{
		transport:   transport,
		templates:   templates,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (m *Mailer) SendVerificationOTP(ctx context.Context, to, username, code string) error {
	return m.send(ctx, to, subjectVerificationOTP, TemplateVerificationOTP, TemplateData{
		"Username":       username,
		"Code":           code,
		"ExpiresMinutes": int(auth.OTPTTL.Minutes()),
	})
}

func (m *Mailer) SendPasswordResetLink(ctx context.Context, to, username, token string) error {
	return m.send(ctx, to, subjectPasswordResetLink, TemplatePasswordResetLink, TemplateData{
		"Username": username,
		"ResetURL": m.ResetURL(to, token),
	})
}

func (m *Mailer) SendPasswordResetOTP(ctx context.Context, to, username, code string) error {
	return m.send(ctx, to, subjectPasswordResetOTP, TemplatePasswordResetOTP, TemplateData{
		"Username":       username,
		"Code":           code,
		"ExpiresMinutes": int(auth.OTPTTL.Minutes()),
	})
}

// ResetURL - ссылка на страницу сброса пароля во фронтенде
func (m *Mailer) ResetURL(email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return m.frontendURL + "/auth/reset-password?" + q.Encode()
}

func (m *Mailer) send(ctx context.Context, to, subject, template string, data TemplateData) error {
	text, html, err := m.templates.Render(template, data)
	if err != nil {
		return err
	}

	err = m.transport.Deliver(ctx, Message{
		To:       to,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	})
	logger.TransportLog("email", template, to, err)
	return err
}
