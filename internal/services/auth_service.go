package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/email"
	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/metrics"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/internal/sms"
	"jobalert_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const tokenTypeBearer = "bearer"

// Назначение OTP для метрик
const (
	purposeVerification  = "verification"
	purposePasswordReset = "password_reset"
	purposeLogin         = "login"
)

const (
	msgForgotPasswordLink   = "If the email exists, a password reset link has been sent."
	msgForgotPasswordOTP    = "If the email exists, a password reset OTP has been sent."
	msgForgotPasswordMobile = "If the mobile number exists, a password reset OTP has been sent."
	msgMobileLoginOTP       = "If the mobile number exists, a login OTP has been sent."
	msgPasswordReset        = "Password reset successfully."
	msgSMSUnavailable       = "SMS service not available"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	RegisterMobile(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RequestMobileLoginOTP(ctx context.Context, db *gorm.DB, mobile string) (*dto.OTPSentResponse, error)
	MobileLogin(ctx context.Context, db *gorm.DB, req *dto.MobileLoginRequest) (*dto.TokenResponse, error)
	Authenticate(db *gorm.DB, token string) (*models.User, error)

	Verify(ctx context.Context, db *gorm.DB, req *dto.VerifyRequest) (*dto.VerificationResponse, error)
	VerifyEmail(ctx context.Context, db *gorm.DB, req *dto.EmailVerifyRequest) (*dto.VerificationResponse, error)
	VerifyMobile(ctx context.Context, db *gorm.DB, req *dto.MobileVerifyRequest) (*dto.VerificationResponse, error)
	ResendOTP(ctx context.Context, db *gorm.DB, req *dto.ResendRequest) (*dto.OTPSentResponse, error)
	ResendEmailOTP(ctx context.Context, db *gorm.DB, email string) (*dto.OTPSentResponse, error)
	ResendMobileOTP(ctx context.Context, db *gorm.DB, mobile string) (*dto.OTPSentResponse, error)

	ForgotPassword(ctx context.Context, db *gorm.DB, email string) (*dto.MessageResponse, error)
	ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error)
	VerifyResetToken(token string) (*dto.TokenValidResponse, error)
	ForgotPasswordOTP(ctx context.Context, db *gorm.DB, email string) (*dto.MessageResponse, error)
	ResetPasswordOTP(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordOTPRequest) (*dto.MessageResponse, error)
	ForgotPasswordMobile(ctx context.Context, db *gorm.DB, mobile string) (*dto.MessageResponse, error)
	ResetPasswordMobile(ctx context.Context, db *gorm.DB, req *dto.MobileResetPasswordRequest) (*dto.MessageResponse, error)

	CheckEmail(db *gorm.DB, email string) (*dto.EmailCheckResponse, error)
	MyRole(user *models.User) *dto.UserRoleResponse
	CheckRole(user *models.User, requiredRole string) *dto.RoleCheckResponse
}

// AuthOptions - зависимости, которые подменяются в тестах
type AuthOptions struct {
	OTP auth.OTPGenerator
	Now func() time.Time
	// ExposeOTPInline - вернуть код в ответе, если SMS не доставлено (только development/test)
	ExposeOTPInline bool
}

type AuthServiceImpl struct {
	userRepo  repositories.UserRepository
	tokens    *auth.TokenManager
	mailer    email.Sender
	sms       sms.Sender
	metrics   *metrics.Metrics
	otp       auth.OTPGenerator
	now       func() time.Time
	exposeOTP bool
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenManager,
	mailer email.Sender,
	smsSender sms.Sender,
	m *metrics.Metrics,
	opts AuthOptions,
) AuthService {
	if opts.OTP == nil {
		opts.OTP = auth.RandomOTP{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AuthServiceImpl{
		userRepo:  userRepo,
		tokens:    tokens,
		mailer:    mailer,
		sms:       smsSender,
		metrics:   m,
		otp:       opts.OTP,
		now:       opts.Now,
		exposeOTP: opts.ExposeOTPInline,
	}
}

// otpChannel - канал подтверждения: колонка пары и способ достать ее из пользователя
type otpChannel struct {
	method string
	column string
	stored func(u *models.User) models.OTPCode
}

var (
	emailChannel = otpChannel{
		method: "email",
		column: repositories.OTPColumnEmail,
		stored: func(u *models.User) models.OTPCode { return u.EmailOTP },
	}
	mobileChannel = otpChannel{
		method: "mobile",
		column: repositories.OTPColumnMobile,
		stored: func(u *models.User) models.OTPCode { return u.MobileOTP },
	}
)

// =======================
// Регистрация и вход
// =======================

// Register - ровно один канал: email или mobile_number
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	emailAddr := strings.TrimSpace(req.Email)
	mobile := strings.TrimSpace(req.MobileNumber)

	switch {
	case emailAddr == "" && mobile == "":
		return nil, apperrors.ErrChannelRequired
	case emailAddr != "" && mobile != "":
		return nil, apperrors.ErrChannelConflict
	}
	return s.register(ctx, db, req, emailAddr, mobile)
}

func (s *AuthServiceImpl) RegisterMobile(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	mobile := strings.TrimSpace(req.MobileNumber)
	if mobile == "" {
		return nil, apperrors.NewBadRequestError("Mobile number is required for mobile registration.")
	}
	return s.register(ctx, db, req, "", mobile)
}

func (s *AuthServiceImpl) register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest, emailAddr, mobile string) (*dto.RegisterResponse, error) {
	role := models.UserRoleCandidate
	if req.Role != "" {
		parsed, ok := auth.ParseRole(req.Role)
		if !ok || parsed == models.UserRoleAdmin {
			return nil, apperrors.ValidationError(map[string]string{"role": "Must be one of: candidate, employer"})
		}
		role = parsed
	}

	if err := s.checkDuplicates(db, emailAddr, mobile, req.Username); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	code, err := s.otp.Generate()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	first, last := splitFullName(req.FullName)
	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Role:         role,
		IsActive:     false,
	}
	pending := auth.NewOTPCode(code, s.now())
	if emailAddr != "" {
		user.Email = &emailAddr
		user.EmailOTP = pending
	} else {
		user.MobileNumber = &mobile
		user.MobileOTP = pending
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrDuplicateRegistration("identifier")
		}
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", user.Role)

	if emailAddr != "" {
		err := s.mailer.SendVerificationOTP(ctx, emailAddr, user.Username, code)
		s.metrics.RecordOTPDelivery("email", purposeVerification, err)
		if err != nil {
			// Без письма пользователь не сможет подтвердить аккаунт, откатываем регистрацию
			if delErr := s.userRepo.Delete(db, user.ID); delErr != nil {
				logger.CtxWithError(ctx, "Failed to remove user after email failure", delErr, "user_id", user.ID)
			}
			return nil, apperrors.TransportError(err, "email", "Failed to send verification email. Please try again.")
		}
		return &dto.RegisterResponse{
			Message:            "User registered successfully. Please check your email to verify your account.",
			UserID:             user.ID,
			Email:              user.Email,
			VerificationMethod: emailChannel.method,
		}, nil
	}

	resp := &dto.RegisterResponse{
		Message:            "User registered successfully. Please check your mobile for verification OTP.",
		UserID:             user.ID,
		MobileNumber:       user.MobileNumber,
		VerificationMethod: mobileChannel.method,
	}
	err = s.sms.SendVerificationOTP(ctx, mobile, user.Username, code)
	s.metrics.RecordOTPDelivery("sms", purposeVerification, err)
	if err != nil {
		logger.CtxWarn(ctx, "SMS not delivered, registration kept", "user_id", user.ID, "error", err.Error())
		resp.Message = "User registered successfully. SMS service not configured. Please contact support or try email verification."
		resp.Warning = msgSMSUnavailable
		if s.exposeOTP {
			resp.OTP = code
		}
	}
	return resp, nil
}

// checkDuplicates - порядок проверок: email, mobile, username
func (s *AuthServiceImpl) checkDuplicates(db *gorm.DB, emailAddr, mobile, username string) error {
	checks := []struct {
		field string
		value string
		find  func(*gorm.DB, string) (*models.User, error)
	}{
		{"email", emailAddr, s.userRepo.FindByEmail},
		{"mobile number", mobile, s.userRepo.FindByMobile},
		{"username", username, s.userRepo.FindByUsername},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		_, err := c.find(db, c.value)
		switch {
		case err == nil:
			return apperrors.ErrDuplicateRegistration(c.field)
		case !errors.Is(err, repositories.ErrUserNotFound):
			return apperrors.InternalError(err)
		}
	}
	return nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserNotVerified
	}
	return s.issueAccessToken(ctx, db, user, nil)
}

// RequestMobileLoginOTP выдает одноразовый код для входа активному пользователю
func (s *AuthServiceImpl) RequestMobileLoginOTP(ctx context.Context, db *gorm.DB, mobile string) (*dto.OTPSentResponse, error) {
	user, err := s.userRepo.FindByMobile(db, strings.TrimSpace(mobile))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return &dto.OTPSentResponse{Message: msgMobileLoginOTP}, nil
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.IsActive {
		return &dto.OTPSentResponse{Message: msgMobileLoginOTP}, nil
	}

	code, err := s.issueOTP(db, user.ID, repositories.OTPColumnMobile)
	if err != nil {
		return nil, err
	}
	err = s.sms.SendVerificationOTP(ctx, user.MobileValue(), user.Username, code)
	s.metrics.RecordOTPDelivery("sms", purposeLogin, err)
	if err != nil {
		return nil, apperrors.TransportError(err, "sms", "Failed to send login OTP SMS. Please try again.")
	}
	return &dto.OTPSentResponse{Message: msgMobileLoginOTP}, nil
}

// MobileLogin - вход по номеру и действующему мобильному OTP; код одноразовый
func (s *AuthServiceImpl) MobileLogin(ctx context.Context, db *gorm.DB, req *dto.MobileLoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByMobile(db, strings.TrimSpace(req.MobileNumber))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidMobileCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if err := auth.CheckOTP(user.MobileOTP, req.OTP, s.now()); err != nil {
		return nil, apperrors.ErrInvalidMobileCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrMobileNotVerified
	}
	return s.issueAccessToken(ctx, db, user, clearOTP(repositories.OTPColumnMobile))
}

func (s *AuthServiceImpl) issueAccessToken(ctx context.Context, db *gorm.DB, user *models.User, extra map[string]interface{}) (*dto.TokenResponse, error) {
	fields := map[string]interface{}{"last_login": s.now()}
	for k, v := range extra {
		fields[k] = v
	}
	if err := s.userRepo.Update(db, user.ID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.EmailValue(), string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)
	return &dto.TokenResponse{AccessToken: token, TokenType: tokenTypeBearer}, nil
}

// Authenticate разбирает access-токен и загружает пользователя
func (s *AuthServiceImpl) Authenticate(db *gorm.DB, token string) (*models.User, error) {
	claims, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken.WithError(err)
	}
	user, err := s.userRepo.FindByID(db, claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// =======================
// Верификация
// =======================

func (s *AuthServiceImpl) Verify(ctx context.Context, db *gorm.DB, req *dto.VerifyRequest) (*dto.VerificationResponse, error) {
	if strings.TrimSpace(req.OTP) == "" {
		return nil, apperrors.ErrOTPRequired
	}
	ch, user, err := s.resolveChannel(db, req.Email, req.MobileNumber)
	if err != nil {
		return nil, err
	}
	return s.verify(ctx, db, ch, user, req.OTP, capitalize(ch.method))
}

func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, db *gorm.DB, req *dto.EmailVerifyRequest) (*dto.VerificationResponse, error) {
	user, err := s.findUser(db, s.userRepo.FindByEmail, req.Email)
	if err != nil {
		return nil, err
	}
	return s.verify(ctx, db, emailChannel, user, req.OTP, "Email")
}

func (s *AuthServiceImpl) VerifyMobile(ctx context.Context, db *gorm.DB, req *dto.MobileVerifyRequest) (*dto.VerificationResponse, error) {
	user, err := s.findUser(db, s.userRepo.FindByMobile, req.MobileNumber)
	if err != nil {
		return nil, err
	}
	return s.verify(ctx, db, mobileChannel, user, req.OTP, "Mobile number")
}

// verify: активный пользователь проходит без проверки кода; неудача ничего не меняет
func (s *AuthServiceImpl) verify(ctx context.Context, db *gorm.DB, ch otpChannel, user *models.User, code, label string) (*dto.VerificationResponse, error) {
	if user.IsActive {
		return &dto.VerificationResponse{
			Message:            label + " already verified.",
			Verified:           true,
			VerificationMethod: ch.method,
		}, nil
	}

	if err := auth.CheckOTP(ch.stored(user), code, s.now()); err != nil {
		logger.CtxWarn(ctx, "OTP verification failed", "user_id", user.ID, "channel", ch.method, "reason", err.Error())
		return nil, mapOTPError(err)
	}

	fields := clearOTP(ch.column)
	fields["is_active"] = true
	if err := s.userRepo.Update(db, user.ID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "User verified", "user_id", user.ID, "channel", ch.method)

	return &dto.VerificationResponse{
		Message:            label + " verified successfully. You can now log in.",
		Verified:           true,
		VerificationMethod: ch.method,
	}, nil
}

func (s *AuthServiceImpl) ResendOTP(ctx context.Context, db *gorm.DB, req *dto.ResendRequest) (*dto.OTPSentResponse, error) {
	ch, user, err := s.resolveChannel(db, req.Email, req.MobileNumber)
	if err != nil {
		return nil, err
	}
	return s.resend(ctx, db, ch, user, capitalize(ch.method))
}

func (s *AuthServiceImpl) ResendEmailOTP(ctx context.Context, db *gorm.DB, emailAddr string) (*dto.OTPSentResponse, error) {
	user, err := s.findUser(db, s.userRepo.FindByEmail, emailAddr)
	if err != nil {
		return nil, err
	}
	return s.resend(ctx, db, emailChannel, user, "Email")
}

func (s *AuthServiceImpl) ResendMobileOTP(ctx context.Context, db *gorm.DB, mobile string) (*dto.OTPSentResponse, error) {
	user, err := s.findUser(db, s.userRepo.FindByMobile, mobile)
	if err != nil {
		return nil, err
	}
	return s.resend(ctx, db, mobileChannel, user, "Mobile number")
}

// resend заменяет ожидающий код новым, старый перестает подходить
func (s *AuthServiceImpl) resend(ctx context.Context, db *gorm.DB, ch otpChannel, user *models.User, label string) (*dto.OTPSentResponse, error) {
	if user.IsActive {
		return nil, apperrors.ErrChannelAlreadyVerified(label)
	}

	code, err := s.issueOTP(db, user.ID, ch.column)
	if err != nil {
		return nil, err
	}

	if ch.method == emailChannel.method {
		err := s.mailer.SendVerificationOTP(ctx, user.EmailValue(), user.Username, code)
		s.metrics.RecordOTPDelivery("email", purposeVerification, err)
		if err != nil {
			return nil, apperrors.TransportError(err, "email", "Failed to send OTP email. Please try again.")
		}
		return &dto.OTPSentResponse{Message: "OTP sent successfully. Please check your email."}, nil
	}

	err = s.sms.SendVerificationOTP(ctx, user.MobileValue(), user.Username, code)
	s.metrics.RecordOTPDelivery("sms", purposeVerification, err)
	if err != nil {
		logger.CtxWarn(ctx, "SMS not delivered on resend", "user_id", user.ID, "error", err.Error())
		resp := &dto.OTPSentResponse{
			Message: "OTP generated successfully. SMS service not configured. Please contact support or try email verification.",
			Warning: msgSMSUnavailable,
		}
		if s.exposeOTP {
			resp.OTP = code
		}
		return resp, nil
	}
	return &dto.OTPSentResponse{Message: "OTP sent successfully. Please check your mobile."}, nil
}

// resolveChannel выбирает канал по заполненному полю и находит пользователя
func (s *AuthServiceImpl) resolveChannel(db *gorm.DB, emailAddr, mobile string) (otpChannel, *models.User, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	mobile = strings.TrimSpace(mobile)

	switch {
	case emailAddr == "" && mobile == "":
		return otpChannel{}, nil, apperrors.ErrChannelRequired
	case emailAddr != "" && mobile != "":
		return otpChannel{}, nil, apperrors.ErrChannelConflict
	case emailAddr != "":
		user, err := s.findUser(db, s.userRepo.FindByEmail, emailAddr)
		return emailChannel, user, err
	default:
		user, err := s.findUser(db, s.userRepo.FindByMobile, mobile)
		return mobileChannel, user, err
	}
}

// =======================
// Сброс пароля
// =======================

func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, db *gorm.DB, emailAddr string) (*dto.MessageResponse, error) {
	generic := &dto.MessageResponse{Message: msgForgotPasswordLink}

	user, ok, err := s.findResettable(db, s.userRepo.FindByEmail, emailAddr)
	if err != nil || !ok {
		return generic, err
	}

	token, err := s.tokens.GeneratePasswordResetToken(user.EmailValue())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	err = s.mailer.SendPasswordResetLink(ctx, user.EmailValue(), user.Username, token)
	s.metrics.RecordOTPDelivery("email", purposePasswordReset, err)
	if err != nil {
		return nil, apperrors.TransportError(err, "email", "Failed to send password reset email. Please try again.")
	}
	return generic, nil
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	if err := validateNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return nil, err
	}

	emailAddr, err := s.tokens.VerifyPasswordResetToken(req.Token)
	if err != nil {
		return nil, apperrors.ErrInvalidResetToken.WithError(err)
	}
	user, err := s.findUser(db, s.userRepo.FindByEmail, emailAddr)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrChannelNotActive("email")
	}

	if err := s.replacePassword(db, user.ID, req.NewPassword, nil); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "Password reset by token", "user_id", user.ID)
	return &dto.MessageResponse{Message: msgPasswordReset}, nil
}

func (s *AuthServiceImpl) VerifyResetToken(token string) (*dto.TokenValidResponse, error) {
	emailAddr, err := s.tokens.VerifyPasswordResetToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidResetToken.WithError(err)
	}
	return &dto.TokenValidResponse{Message: "Token is valid", Email: emailAddr}, nil
}

func (s *AuthServiceImpl) ForgotPasswordOTP(ctx context.Context, db *gorm.DB, emailAddr string) (*dto.MessageResponse, error) {
	generic := &dto.MessageResponse{Message: msgForgotPasswordOTP}

	user, ok, err := s.findResettable(db, s.userRepo.FindByEmail, emailAddr)
	if err != nil || !ok {
		return generic, err
	}

	code, err := s.issueOTP(db, user.ID, repositories.OTPColumnReset)
	if err != nil {
		return nil, err
	}
	err = s.mailer.SendPasswordResetOTP(ctx, user.EmailValue(), user.Username, code)
	s.metrics.RecordOTPDelivery("email", purposePasswordReset, err)
	if err != nil {
		return nil, apperrors.TransportError(err, "email", "Failed to send OTP email. Please try again.")
	}
	return generic, nil
}

func (s *AuthServiceImpl) ResetPasswordOTP(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordOTPRequest) (*dto.MessageResponse, error) {
	if err := validateNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return nil, err
	}
	user, err := s.findUser(db, s.userRepo.FindByEmail, req.Email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrChannelNotActive("email")
	}
	if err := auth.CheckOTP(user.ResetOTP, req.OTP, s.now()); err != nil {
		return nil, mapOTPError(err)
	}

	if err := s.replacePassword(db, user.ID, req.NewPassword, clearOTP(repositories.OTPColumnReset)); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "Password reset by email OTP", "user_id", user.ID)
	return &dto.MessageResponse{Message: msgPasswordReset}, nil
}

// ForgotPasswordMobile - код сброса не возвращается в ответе даже при недоступном SMS
func (s *AuthServiceImpl) ForgotPasswordMobile(ctx context.Context, db *gorm.DB, mobile string) (*dto.MessageResponse, error) {
	generic := &dto.MessageResponse{Message: msgForgotPasswordMobile}

	user, ok, err := s.findResettable(db, s.userRepo.FindByMobile, mobile)
	if err != nil || !ok {
		return generic, err
	}

	code, err := s.issueOTP(db, user.ID, repositories.OTPColumnMobileReset)
	if err != nil {
		return nil, err
	}
	err = s.sms.SendPasswordResetOTP(ctx, user.MobileValue(), user.Username, code)
	s.metrics.RecordOTPDelivery("sms", purposePasswordReset, err)
	if err != nil {
		return nil, apperrors.TransportError(err, "sms", "Failed to send password reset OTP SMS. Please try again.")
	}
	return generic, nil
}

func (s *AuthServiceImpl) ResetPasswordMobile(ctx context.Context, db *gorm.DB, req *dto.MobileResetPasswordRequest) (*dto.MessageResponse, error) {
	if err := validateNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return nil, err
	}
	user, err := s.findUser(db, s.userRepo.FindByMobile, req.MobileNumber)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrChannelNotActive("mobile number")
	}
	if err := auth.CheckOTP(user.MobileResetOTP, req.OTP, s.now()); err != nil {
		return nil, mapOTPError(err)
	}

	if err := s.replacePassword(db, user.ID, req.NewPassword, clearOTP(repositories.OTPColumnMobileReset)); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "Password reset by mobile OTP", "user_id", user.ID)
	return &dto.MessageResponse{Message: msgPasswordReset}, nil
}

// =======================
// Справочные методы
// =======================

func (s *AuthServiceImpl) CheckEmail(db *gorm.DB, emailAddr string) (*dto.EmailCheckResponse, error) {
	_, err := s.userRepo.FindByEmail(db, strings.TrimSpace(emailAddr))
	switch {
	case err == nil:
		return &dto.EmailCheckResponse{Exists: true, Message: "Email is already registered."}, nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return &dto.EmailCheckResponse{Exists: false, Message: "Email is available."}, nil
	default:
		return nil, apperrors.InternalError(err)
	}
}

func (s *AuthServiceImpl) MyRole(user *models.User) *dto.UserRoleResponse {
	return &dto.UserRoleResponse{
		UserID:      user.ID,
		Email:       user.EmailValue(),
		Username:    user.Username,
		Role:        string(user.Role),
		IsSuperuser: user.IsSuperuser,
		IsActive:    user.IsActive,
	}
}

// CheckRole - суперпользователь проходит любую проверку
func (s *AuthServiceImpl) CheckRole(user *models.User, requiredRole string) *dto.RoleCheckResponse {
	has := auth.HasRole(user, models.UserRole(requiredRole))
	return &dto.RoleCheckResponse{
		UserID:          user.ID,
		Email:           user.EmailValue(),
		Username:        user.Username,
		CurrentRole:     string(user.Role),
		RequiredRole:    requiredRole,
		HasRequiredRole: has,
		IsSuperuser:     user.IsSuperuser,
		AccessGranted:   has,
	}
}

// =======================
// Вспомогательные методы
// =======================

func (s *AuthServiceImpl) issueOTP(db *gorm.DB, userID, column string) (string, error) {
	code, err := s.otp.Generate()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	if err := s.userRepo.SetOTP(db, userID, column, auth.NewOTPCode(code, s.now())); err != nil {
		return "", apperrors.InternalError(err)
	}
	return code, nil
}

func (s *AuthServiceImpl) findUser(db *gorm.DB, find func(*gorm.DB, string) (*models.User, error), value string) (*models.User, error) {
	user, err := find(db, strings.TrimSpace(value))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// findResettable - ok=false для неизвестного или неактивного пользователя, наружу это не раскрывается
func (s *AuthServiceImpl) findResettable(db *gorm.DB, find func(*gorm.DB, string) (*models.User, error), value string) (*models.User, bool, error) {
	user, err := find(db, strings.TrimSpace(value))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.InternalError(err)
	}
	return user, user.IsActive, nil
}

func (s *AuthServiceImpl) replacePassword(db *gorm.DB, userID, password string, extra map[string]interface{}) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperrors.InternalError(err)
	}
	fields := map[string]interface{}{"password_hash": hash}
	for k, v := range extra {
		fields[k] = v
	}
	if err := s.userRepo.Update(db, userID, fields); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func validateNewPassword(password, confirm string) error {
	switch err := auth.ValidateNewPassword(password, confirm); {
	case errors.Is(err, auth.ErrPasswordMismatch):
		return apperrors.ErrPasswordMismatch
	case errors.Is(err, auth.ErrPasswordTooShort):
		return apperrors.ErrWeakPassword
	default:
		return err
	}
}

func mapOTPError(err error) error {
	switch {
	case errors.Is(err, auth.ErrOTPNotFound):
		return apperrors.ErrOTPMissing
	case errors.Is(err, auth.ErrOTPExpired):
		return apperrors.ErrOTPExpired
	case errors.Is(err, auth.ErrOTPMismatch):
		return apperrors.ErrOTPMismatch
	default:
		return apperrors.InternalError(err)
	}
}

// clearOTP - поля для перевода пары в состояние none
func clearOTP(column string) map[string]interface{} {
	return map[string]interface{}{
		column + "code":       nil,
		column + "expires_at": nil,
	}
}

func splitFullName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
