package middleware

import (
	"strings"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/services"
	"jobalert_backend/pkg/apperrors"
	"jobalert_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Guard собирает middleware аутентификации и проверки ролей
type Guard struct {
	authService services.AuthService
}

func NewGuard(authService services.AuthService) *Guard {
	return &Guard{authService: authService}
}

// Authenticated - проверка Bearer-токена. Пользователь кладется в контекст по UserContextKey.
func (g *Guard) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		db, _ := c.Get(contextkeys.DBContextKey.String())
		gdb, _ := db.(*gorm.DB)
		if gdb == nil {
			apperrors.HandleError(c, apperrors.InternalError(nil))
			return
		}

		user, err := g.authService.Authenticate(gdb, strings.TrimSpace(token))
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Authentication failed", "path", c.Request.URL.Path)
			apperrors.HandleError(c, err)
			return
		}

		c.Set(contextkeys.UserContextKey.String(), user)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// Require пропускает активного пользователя, прошедшего gate. Неактивный получает 400, чужая роль - 403.
func (g *Guard) Require(gate auth.Gate, denied *apperrors.AppError) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}
		if !user.IsActive {
			apperrors.HandleError(c, apperrors.ErrInactiveUser)
			return
		}
		if !gate(user) {
			logger.CtxWarn(c.Request.Context(), "Access denied", "role", user.Role, "path", c.FullPath())
			apperrors.HandleError(c, denied)
			return
		}
		c.Next()
	}
}

// Active - любой активный пользователь
func (g *Guard) Active() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Authenticated(), g.Require(auth.AnyActive, apperrors.ErrInactiveUser)}
}

func (g *Guard) Admin() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Authenticated(), g.Require(auth.AdminOrSuperuser, apperrors.ErrAdminRequired)}
}

// Employer - публикация вакансий и работа с заявками на них, admin тоже проходит
func (g *Guard) Employer() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Authenticated(), g.Require(auth.EmployerOrAdmin, apperrors.ErrEmployerRequired)}
}

// CurrentUser возвращает пользователя, установленного Authenticated
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, ok := c.Get(contextkeys.UserContextKey.String())
	if !ok {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok && user != nil
}
