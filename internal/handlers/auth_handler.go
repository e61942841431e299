package handlers

import (
	"net/http"
	"strings"

	"jobalert_backend/internal/middleware"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/services"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты /auth
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/mobile-register", h.RegisterMobile)
		auth.POST("/login", h.Login)
		auth.POST("/mobile-login", h.MobileLogin)
		auth.POST("/mobile-login-otp", h.RequestMobileLoginOTP)

		auth.POST("/verify", h.Verify)
		auth.POST("/verify-email", h.VerifyEmail)
		auth.POST("/verify-mobile", h.VerifyMobile)
		auth.POST("/resend-otp", h.ResendOTP)
		auth.POST("/resend-otp-email", h.ResendEmailOTP)
		auth.POST("/resend-mobile-otp", h.ResendMobileOTP)

		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.GET("/verify-reset-token/:token", h.VerifyResetToken)
		auth.POST("/forgot-password-otp", h.ForgotPasswordOTP)
		auth.POST("/reset-password-otp", h.ResetPasswordOTP)
		auth.POST("/forgot-password-mobile", h.ForgotPasswordMobile)
		auth.POST("/reset-password-mobile", h.ResetPasswordMobile)

		auth.POST("/check-email", h.CheckEmail)
	}

	// Требуют токен
	authed := auth.Group("", guard.Active()...)
	{
		authed.GET("/me", h.Me)
		authed.GET("/my-role", h.MyRole)
		authed.GET("/check-role/:role", h.CheckRole)
	}
}

// Register godoc
// @Summary Регистрация по email или номеру телефона
// @Description Ровно один канал: email или mobile_number. Пользователь неактивен до подтверждения OTP.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 500 {object} apperrors.ErrorResponse "Письмо не отправлено"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegisterMobile godoc
// @Summary Регистрация по номеру телефона
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /auth/mobile-register [post]
func (h *AuthHandler) RegisterMobile(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.RegisterMobile(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Вход по email и паролю
// @Description Принимает JSON {email, password} или форму OAuth2 username/password
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.LoginRequest true "Учетные данные"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") || strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		// OAuth2 password flow: логином служит email
		req.Email = c.PostForm("username")
		req.Password = c.PostForm("password")
		if !h.validate(c, &req) {
			return
		}
	} else if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MobileLogin godoc
// @Summary Вход по номеру телефона и OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MobileLoginRequest true "Номер и код"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/mobile-login [post]
func (h *AuthHandler) MobileLogin(c *gin.Context) {
	var req dto.MobileLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.MobileLogin(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RequestMobileLoginOTP godoc
// @Summary Запросить одноразовый код для входа по телефону
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MobileRequest true "Номер телефона"
// @Success 200 {object} dto.OTPSentResponse
// @Router /auth/mobile-login-otp [post]
func (h *AuthHandler) RequestMobileLoginOTP(c *gin.Context) {
	var req dto.MobileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.RequestMobileLoginOTP(c.Request.Context(), h.GetDB(c), req.MobileNumber)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Verify godoc
// @Summary Подтверждение аккаунта кодом
// @Description Канал выбирается по заполненному полю: email или mobile_number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyRequest true "Канал и код"
// @Success 200 {object} dto.VerificationResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Verify(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.EmailVerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyEmail(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) VerifyMobile(c *gin.Context) {
	var req dto.MobileVerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.VerifyMobile(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResendOTP godoc
// @Summary Повторная отправка кода подтверждения
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResendRequest true "email или mobile_number"
// @Success 200 {object} dto.OTPSentResponse
// @Failure 400 {object} apperrors.ErrorResponse "Уже подтвержден"
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req dto.ResendRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ResendOTP(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResendEmailOTP(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ResendEmailOTP(c.Request.Context(), h.GetDB(c), req.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResendMobileOTP(c *gin.Context) {
	var req dto.MobileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ResendMobileOTP(c.Request.Context(), h.GetDB(c), req.MobileNumber)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ForgotPassword godoc
// @Summary Ссылка для сброса пароля на email
// @Description Ответ одинаковый для известных и неизвестных адресов
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 500 {object} apperrors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ForgotPassword(c.Request.Context(), h.GetDB(c), req.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResetPassword godoc
// @Summary Сброс пароля по токену из письма
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Токен и новый пароль"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ResetPassword(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	resp, err := h.authService.VerifyResetToken(c.Param("token"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPasswordOTP(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ForgotPasswordOTP(c.Request.Context(), h.GetDB(c), req.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResetPasswordOTP(c *gin.Context) {
	var req dto.ResetPasswordOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ResetPasswordOTP(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPasswordMobile(c *gin.Context) {
	var req dto.MobileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ForgotPasswordMobile(c.Request.Context(), h.GetDB(c), req.MobileNumber)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResetPasswordMobile(c *gin.Context) {
	var req dto.MobileResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ResetPasswordMobile(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckEmail godoc
// @Summary Проверка, занят ли email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.EmailCheckResponse
// @Router /auth/check-email [post]
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.CheckEmail(h.GetDB(c), req.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) MyRole(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.authService.MyRole(user))
}

// CheckRole - роль вне закрытого множества считается ошибкой запроса
func (h *AuthHandler) CheckRole(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	role := c.Param("role")
	if !models.UserRole(role).Valid() {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{
			"role": "Must be one of: candidate, employer, admin",
		}))
		return
	}
	c.JSON(http.StatusOK, h.authService.CheckRole(user, role))
}
