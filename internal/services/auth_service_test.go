package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/internal/testutil"
	"jobalert_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type authFixture struct {
	db     *gorm.DB
	svc    AuthService
	tokens *auth.TokenManager
	mail   *testutil.EmailOutbox
	sms    *testutil.SMSOutbox
	clock  *fakeClock
	users  repositories.UserRepository
}

func newAuthFixture(t *testing.T, expose bool, codes ...string) *authFixture {
	t.Helper()
	if len(codes) == 0 {
		codes = []string{"123456"}
	}
	f := &authFixture{
		db:     testutil.NewTestDB(t),
		tokens: auth.NewTokenManager("test-secret", 30*time.Minute),
		mail:   &testutil.EmailOutbox{},
		sms:    &testutil.SMSOutbox{},
		clock:  &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
		users:  repositories.NewUserRepository(),
	}
	f.svc = NewAuthService(f.users, f.tokens, f.mail, f.sms, nil, AuthOptions{
		OTP:             &testutil.SequenceOTP{Codes: codes},
		Now:             f.clock.Now,
		ExposeOTPInline: expose,
	})
	return f
}

func (f *authFixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.FindByEmail(f.db, email)
	require.NoError(t, err)
	return u
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "ожидалась AppError, получено %v", err)
	return appErr.HTTPCode
}

func registerEmail(t *testing.T, f *authFixture, email string) *dto.RegisterResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), f.db, &dto.RegisterRequest{
		Username: "user_" + email[:1],
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return resp
}

// Сценарий: регистрация a@b.com, код 123456, неверный 000000 ничего не меняет
func TestAuth_EmailRegistrationAndVerification(t *testing.T) {
	f := newAuthFixture(t, false, "123456")
	ctx := context.Background()

	// 1. Регистрация
	resp := registerEmail(t, f, "a@b.com")
	assert.Equal(t, "email", resp.VerificationMethod)
	assert.Empty(t, resp.OTP)

	sent, ok := f.mail.Last("a@b.com")
	require.True(t, ok)
	assert.Equal(t, "123456", sent.Code)

	u := f.user(t, "a@b.com")
	assert.False(t, u.IsActive, "до подтверждения пользователь неактивен")
	assert.Equal(t, models.UserRoleCandidate, u.Role)

	// 2. Вход до подтверждения запрещен
	_, err := f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "a@b.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotVerified)

	// 3. Неверный код
	_, err = f.svc.VerifyEmail(ctx, f.db, &dto.EmailVerifyRequest{Email: "a@b.com", OTP: "000000"})
	assert.ErrorIs(t, err, apperrors.ErrOTPMismatch)
	u = f.user(t, "a@b.com")
	assert.False(t, u.IsActive)
	require.True(t, u.EmailOTP.Pending(), "неудачная проверка не трогает код")

	// 4. Верный код
	vr, err := f.svc.VerifyEmail(ctx, f.db, &dto.EmailVerifyRequest{Email: "a@b.com", OTP: "123456"})
	require.NoError(t, err)
	assert.True(t, vr.Verified)
	assert.Equal(t, "Email verified successfully. You can now log in.", vr.Message)

	u = f.user(t, "a@b.com")
	assert.True(t, u.IsActive)
	assert.False(t, u.EmailOTP.Pending(), "код очищается после подтверждения")

	// 5. Повторная проверка - короткий путь без кода
	vr, err = f.svc.VerifyEmail(ctx, f.db, &dto.EmailVerifyRequest{Email: "a@b.com", OTP: "999999"})
	require.NoError(t, err)
	assert.Equal(t, "Email already verified.", vr.Message)

	// 6. Вход
	tok, err := f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	claims, err := f.tokens.ParseAccessToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)

	authed, err := f.svc.Authenticate(f.db, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, authed.ID)
}

func TestAuth_VerifyExpiredCode(t *testing.T) {
	f := newAuthFixture(t, false, "123456")
	registerEmail(t, f, "a@b.com")

	f.clock.Advance(auth.OTPTTL + time.Second)

	_, err := f.svc.Verify(context.Background(), f.db, &dto.VerifyRequest{Email: "a@b.com", OTP: "123456"})
	assert.ErrorIs(t, err, apperrors.ErrOTPExpired)

	u := f.user(t, "a@b.com")
	assert.False(t, u.IsActive)
	assert.True(t, u.EmailOTP.Pending())
}

func TestAuth_ResendInvalidatesOldCode(t *testing.T) {
	f := newAuthFixture(t, false, "111111", "222222")
	ctx := context.Background()
	registerEmail(t, f, "a@b.com")

	resp, err := f.svc.ResendEmailOTP(ctx, f.db, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent successfully. Please check your email.", resp.Message)
	assert.Equal(t, 2, f.mail.Count())

	_, err = f.svc.Verify(ctx, f.db, &dto.VerifyRequest{Email: "a@b.com", OTP: "111111"})
	assert.ErrorIs(t, err, apperrors.ErrOTPMismatch, "старый код больше не подходит")

	_, err = f.svc.Verify(ctx, f.db, &dto.VerifyRequest{Email: "a@b.com", OTP: "222222"})
	require.NoError(t, err)

	// После подтверждения resend возвращает 400
	_, err = f.svc.ResendEmailOTP(ctx, f.db, "a@b.com")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	assert.ErrorIs(t, err, apperrors.ErrChannelAlreadyVerified("Email"))

	_, err = f.svc.ResendEmailOTP(ctx, f.db, "ghost@b.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuth_RegisterChannelRules(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.RegisterRequest
		want *apperrors.AppError
	}{
		{
			name: "both channels",
			req:  dto.RegisterRequest{Username: "both", Email: "x@y.com", MobileNumber: "+15550001", Password: "password123"},
			want: apperrors.ErrChannelConflict,
		},
		{
			name: "no channel",
			req:  dto.RegisterRequest{Username: "none", Password: "password123"},
			want: apperrors.ErrChannelRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, f.db, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count, "отклоненный запрос не создает пользователя")
	assert.Zero(t, f.mail.Count())
	assert.Zero(t, f.sms.Count())
}

func TestAuth_RegisterAdminRoleRejected(t *testing.T) {
	f := newAuthFixture(t, false)

	_, err := f.svc.Register(context.Background(), f.db, &dto.RegisterRequest{
		Username: "boss", Email: "boss@b.com", Password: "password123", Role: "admin",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestAuth_RegisterDuplicates(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, testutil.UserOpts{Username: "taken", Email: "a@b.com", Mobile: "+15550001"})

	tests := []struct {
		name  string
		req   dto.RegisterRequest
		field string
	}{
		{"email", dto.RegisterRequest{Username: "other", Email: "a@b.com", Password: "password123"}, "email"},
		{"mobile", dto.RegisterRequest{Username: "other", MobileNumber: "+15550001", Password: "password123"}, "mobile number"},
		{"username", dto.RegisterRequest{Username: "taken", Email: "new@b.com", Password: "password123"}, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, f.db, &tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrDuplicateRegistration(tt.field))
			assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
		})
	}
}

func TestAuth_EmailFailureRollsBackRegistration(t *testing.T) {
	f := newAuthFixture(t, false)
	f.mail.Fail = true

	_, err := f.svc.Register(context.Background(), f.db, &dto.RegisterRequest{
		Username: "unlucky", Email: "a@b.com", Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, httpCode(t, err))

	_, err = f.users.FindByEmail(f.db, "a@b.com")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound, "пользователь удален после сбоя письма")
}

func TestAuth_MobileRegistrationDegradesWithoutSMS(t *testing.T) {
	tests := []struct {
		name    string
		expose  bool
		wantOTP string
	}{
		{"development exposes code", true, "123456"},
		{"production hides code", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, tt.expose, "123456")
			f.sms.Disabled = true

			resp, err := f.svc.RegisterMobile(context.Background(), f.db, &dto.RegisterRequest{
				Username: "mobile_user", MobileNumber: "+15550001", Password: "password123",
			})
			require.NoError(t, err, "сбой SMS не ломает регистрацию")
			assert.Equal(t, "mobile", resp.VerificationMethod)
			assert.Equal(t, "SMS service not available", resp.Warning)
			assert.Equal(t, tt.wantOTP, resp.OTP)

			u, err := f.users.FindByMobile(f.db, "+15550001")
			require.NoError(t, err)
			assert.False(t, u.IsActive)
			assert.True(t, u.MobileOTP.Pending())
		})
	}
}

func TestAuth_MobileVerifyAndLogin(t *testing.T) {
	f := newAuthFixture(t, false, "123456", "654321")
	ctx := context.Background()

	_, err := f.svc.Register(ctx, f.db, &dto.RegisterRequest{
		Username: "mobile_user", MobileNumber: "+15550001", Password: "password123",
	})
	require.NoError(t, err)
	sent, ok := f.sms.Last("+15550001")
	require.True(t, ok)

	vr, err := f.svc.VerifyMobile(ctx, f.db, &dto.MobileVerifyRequest{MobileNumber: "+15550001", OTP: sent.Code})
	require.NoError(t, err)
	assert.Equal(t, "Mobile number verified successfully. You can now log in.", vr.Message)

	// Код подтверждения израсходован, для входа нужен новый
	_, err = f.svc.MobileLogin(ctx, f.db, &dto.MobileLoginRequest{MobileNumber: "+15550001", OTP: sent.Code})
	assert.ErrorIs(t, err, apperrors.ErrInvalidMobileCredentials)

	_, err = f.svc.RequestMobileLoginOTP(ctx, f.db, "+15550001")
	require.NoError(t, err)
	login, ok := f.sms.Last("+15550001")
	require.True(t, ok)
	assert.Equal(t, "654321", login.Code)

	tok, err := f.svc.MobileLogin(ctx, f.db, &dto.MobileLoginRequest{MobileNumber: "+15550001", OTP: "654321"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)

	_, err = f.svc.MobileLogin(ctx, f.db, &dto.MobileLoginRequest{MobileNumber: "+15550001", OTP: "654321"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidMobileCredentials, "код входа одноразовый")
}

func TestAuth_UnifiedVerifyValidation(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Verify(ctx, f.db, &dto.VerifyRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, apperrors.ErrOTPRequired)

	_, err = f.svc.Verify(ctx, f.db, &dto.VerifyRequest{OTP: "123456"})
	assert.ErrorIs(t, err, apperrors.ErrChannelRequired)

	_, err = f.svc.Verify(ctx, f.db, &dto.VerifyRequest{Email: "a@b.com", MobileNumber: "+1555", OTP: "123456"})
	assert.ErrorIs(t, err, apperrors.ErrChannelConflict)

	_, err = f.svc.Verify(ctx, f.db, &dto.VerifyRequest{Email: "ghost@b.com", OTP: "123456"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuth_PasswordResetWithToken(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, testutil.UserOpts{Email: "a@b.com", Password: "oldpassword"})
	testutil.CreateUser(t, f.db, testutil.UserOpts{Email: "idle@b.com", Inactive: true})

	// Неизвестный и неактивный адрес - тот же ответ, письма нет
	for _, addr := range []string{"ghost@b.com", "idle@b.com"} {
		resp, err := f.svc.ForgotPassword(ctx, f.db, addr)
		require.NoError(t, err)
		assert.Equal(t, "If the email exists, a password reset link has been sent.", resp.Message)
	}
	assert.Zero(t, f.mail.Count())

	_, err := f.svc.ForgotPassword(ctx, f.db, "a@b.com")
	require.NoError(t, err)
	sent, ok := f.mail.Last("a@b.com")
	require.True(t, ok)
	require.NotEmpty(t, sent.Token)

	valid, err := f.svc.VerifyResetToken(sent.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", valid.Email)

	_, err = f.svc.ResetPassword(ctx, f.db, &dto.ResetPasswordRequest{Token: sent.Token, NewPassword: "newpassword", ConfirmPassword: "different"})
	assert.ErrorIs(t, err, apperrors.ErrPasswordMismatch)

	_, err = f.svc.ResetPassword(ctx, f.db, &dto.ResetPasswordRequest{Token: sent.Token, NewPassword: "short", ConfirmPassword: "short"})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	_, err = f.svc.ResetPassword(ctx, f.db, &dto.ResetPasswordRequest{Token: "garbage", NewPassword: "newpassword", ConfirmPassword: "newpassword"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	// Access-токен не подходит как токен сброса
	access, err := f.tokens.GenerateAccessToken("id", "a@b.com", "candidate")
	require.NoError(t, err)
	_, err = f.svc.ResetPassword(ctx, f.db, &dto.ResetPasswordRequest{Token: access, NewPassword: "newpassword", ConfirmPassword: "newpassword"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	resp, err := f.svc.ResetPassword(ctx, f.db, &dto.ResetPasswordRequest{Token: sent.Token, NewPassword: "newpassword", ConfirmPassword: "newpassword"})
	require.NoError(t, err)
	assert.Equal(t, "Password reset successfully.", resp.Message)

	_, err = f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "a@b.com", Password: "newpassword"})
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, f.db, &dto.LoginRequest{Email: "a@b.com", Password: "oldpassword"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuth_PasswordResetWithEmailOTP(t *testing.T) {
	f := newAuthFixture(t, false, "123456")
	ctx := context.Background()
	testutil.CreateUser(t, f.db, testutil.UserOpts{Email: "a@b.com", Password: "oldpassword"})

	_, err := f.svc.ResetPasswordOTP(ctx, f.db, &dto.ResetPasswordOTPRequest{
		Email: "a@b.com", OTP: "123456", NewPassword: "newpassword", ConfirmPassword: "newpassword",
	})
	assert.ErrorIs(t, err, apperrors.ErrOTPMissing, "без запроса кода сброс невозможен")

	_, err = f.svc.ForgotPasswordOTP(ctx, f.db, "a@b.com")
	require.NoError(t, err)
	sent, ok := f.mail.Last("a@b.com")
	require.True(t, ok)
	assert.Equal(t, "password_reset_otp", sent.Template)

	_, err = f.svc.ResetPasswordOTP(ctx, f.db, &dto.ResetPasswordOTPRequest{
		Email: "a@b.com", OTP: "000000", NewPassword: "newpassword", ConfirmPassword: "newpassword",
	})
	assert.ErrorIs(t, err, apperrors.ErrOTPMismatch)

	_, err = f.svc.ResetPasswordOTP(ctx, f.db, &dto.ResetPasswordOTPRequest{
		Email: "a@b.com", OTP: "123456", NewPassword: "newpassword", ConfirmPassword: "newpassword",
	})
	require.NoError(t, err)

	u := f.user(t, "a@b.com")
	assert.False(t, u.ResetOTP.Pending(), "код сброса очищен")
	assert.True(t, auth.CheckPasswordHash("newpassword", u.PasswordHash))
}

func TestAuth_PasswordResetWithMobileOTP(t *testing.T) {
	f := newAuthFixture(t, false, "123456")
	ctx := context.Background()
	testutil.CreateUser(t, f.db, testutil.UserOpts{Mobile: "+15550001", Inactive: true})

	_, err := f.svc.ResetPasswordMobile(ctx, f.db, &dto.MobileResetPasswordRequest{
		MobileNumber: "+15550001", OTP: "123456", NewPassword: "newpassword", ConfirmPassword: "newpassword",
	})
	assert.ErrorIs(t, err, apperrors.ErrChannelNotActive("mobile number"))

	active := testutil.CreateUser(t, f.db, testutil.UserOpts{Mobile: "+15550002"})
	_, err = f.svc.ForgotPasswordMobile(ctx, f.db, "+15550002")
	require.NoError(t, err)

	f.clock.Advance(auth.OTPTTL + time.Minute)
	_, err = f.svc.ResetPasswordMobile(ctx, f.db, &dto.MobileResetPasswordRequest{
		MobileNumber: "+15550002", OTP: "123456", NewPassword: "newpassword", ConfirmPassword: "newpassword",
	})
	assert.ErrorIs(t, err, apperrors.ErrOTPExpired)

	// Сбой SMS при сбросе - 500, код в ответ не попадает
	f.sms.Fail = true
	_, err = f.svc.ForgotPasswordMobile(ctx, f.db, "+15550002")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, httpCode(t, err))

	u, err := f.users.FindByID(f.db, active.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("password123", u.PasswordHash), "пароль не изменился")
}

func TestAuth_CheckEmailAndRoles(t *testing.T) {
	f := newAuthFixture(t, false)
	employer := testutil.CreateUser(t, f.db, testutil.UserOpts{Email: "boss@b.com", Role: models.UserRoleEmployer})
	root := testutil.CreateUser(t, f.db, testutil.UserOpts{Email: "root@b.com", IsSuperuser: true})

	resp, err := f.svc.CheckEmail(f.db, "boss@b.com")
	require.NoError(t, err)
	assert.True(t, resp.Exists)

	resp, err = f.svc.CheckEmail(f.db, "free@b.com")
	require.NoError(t, err)
	assert.False(t, resp.Exists)
	assert.Equal(t, "Email is available.", resp.Message)

	my := f.svc.MyRole(employer)
	assert.Equal(t, "employer", my.Role)
	assert.True(t, my.IsActive)

	assert.True(t, f.svc.CheckRole(employer, "employer").AccessGranted)
	assert.False(t, f.svc.CheckRole(employer, "admin").AccessGranted)
	assert.True(t, f.svc.CheckRole(root, "admin").HasRequiredRole, "суперпользователь проходит любую роль")
}
