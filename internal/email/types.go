package email

// Message - готовое к отправке письмо (multipart: text + html)
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// Имена шаблонов
const (
	TemplateVerificationOTP   = "verification_otp"
	TemplatePasswordResetLink = "password_reset_link"
	TemplatePasswordResetOTP  = "password_reset_otp"
)
