package app

import (
	"fmt"

	"jobalert_backend/internal/config"
	"jobalert_backend/internal/email"
	"jobalert_backend/internal/logger"
)

// newMailer выбирает транспорт: SMTP, если заданы учетные данные,
// лог в development, иначе транспорт, который всегда возвращает ошибку.
func newMailer(cfg *config.Config) (email.Sender, error) {
	templates, err := email.NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	var transport email.Transport
	switch {
	case cfg.MailEnabled():
		from := cfg.Mail.From
		if from == "" {
			from = cfg.Mail.Username
		}
		transport = email.NewGomailTransport(email.SMTPConfig{
			Host:     cfg.Mail.Server,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     from,
			FromName: cfg.Mail.FromName,
			SSL:      cfg.Mail.SSLTLS,
		})
		logger.Info("SMTP mailer configured", "server", cfg.Mail.Server, "port", cfg.Mail.Port)
	case cfg.IsDevelopment():
		logger.Warn("SMTP credentials not set, emails will only be logged")
		transport = email.LogTransport{}
	default:
		logger.Warn("SMTP credentials not set, email delivery will fail")
		transport = email.FailingTransport{}
	}

	return email.NewMailer(transport, templates, cfg.Server.FrontendURL), nil
}

func mustTemplates() *email.TemplateManager {
	templates, err := email.NewTemplateManager()
	if err != nil {
		panic(fmt.Sprintf("email templates: %v", err))
	}
	return templates
}
