package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrDeliveryFailed - ошибка, которую возвращают дублеры с Fail=true
var ErrDeliveryFailed = errors.New("delivery failed")

// SentMessage - перехваченное сообщение
type SentMessage struct {
	To       string
	Template string
	Code     string
	Token    string
}

// Outbox - тестовый дублер для email.Sender и sms.Sender
type Outbox struct {
	mu       sync.Mutex
	Fail     bool
	Disabled bool
	Messages []SentMessage
}

func (o *Outbox) record(msg SentMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Fail {
		return ErrDeliveryFailed
	}
	o.Messages = append(o.Messages, msg)
	return nil
}

// Last возвращает последнее сообщение для получателя
func (o *Outbox) Last(to string) (SentMessage, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.Messages) - 1; i >= 0; i-- {
		if o.Messages[i].To == to {
			return o.Messages[i], true
		}
	}
	return SentMessage{}, false
}

// Count - количество сообщений
func (o *Outbox) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Messages)
}

// EmailOutbox реализует email.Sender
type EmailOutbox struct{ Outbox }

func (o *EmailOutbox) SendVerificationOTP(_ context.Context, to, username, code string) error {
	return o.record(SentMessage{To: to, Template: "verification_otp", Code: code})
}

func (o *EmailOutbox) SendPasswordResetLink(_ context.Context, to, username, token string) error {
	return o.record(SentMessage{To: to, Template: "password_reset_link", Token: token})
}

func (o *EmailOutbox) SendPasswordResetOTP(_ context.Context, to, username, code string) error {
	return o.record(SentMessage{To: to, Template: "password_reset_otp", Code: code})
}

// SMSOutbox реализует sms.Sender
type SMSOutbox struct{ Outbox }

func (o *SMSOutbox) Enabled() bool { return !o.Disabled }

func (o *SMSOutbox) SendVerificationOTP(_ context.Context, to, username, code string) error {
	if o.Disabled {
		return errors.New("sms disabled")
	}
	return o.record(SentMessage{To: to, Template: "verification_otp", Code: code})
}

func (o *SMSOutbox) SendPasswordResetOTP(_ context.Context, to, username, code string) error {
	if o.Disabled {
		return errors.New("sms disabled")
	}
	return o.record(SentMessage{To: to, Template: "password_reset_otp", Code: code})
}

// FixedOTP - генератор, всегда возвращающий один и тот же код
type FixedOTP string

func (f FixedOTP) Generate() (string, error) { return string(f), nil }

// SequenceOTP выдает коды по очереди, последний повторяется
type SequenceOTP struct {
	mu    sync.Mutex
	Codes []string
	i     int
}

func (s *SequenceOTP) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Codes) == 0 {
		return "", errors.New("no codes")
	}
	code := s.Codes[min(s.i, len(s.Codes)-1)]
	s.i++
	return code, nil
}
