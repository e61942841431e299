package handlers

import (
	"jobalert_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	SystemHandler       *SystemHandler
	AuthHandler         *AuthHandler
	JobHandler          *JobHandler
	ApplicationHandler  *ApplicationHandler
	NotificationHandler *NotificationHandler
	UserHandler         *UserHandler
	ProfileHandler      *ProfileHandler
	CompanyHandler      *CompanyHandler
	JobAlertHandler     *JobAlertHandler
}

// RouteRegistrar - хэндлер, который сам вешает свои маршруты на группу API
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard)
}

// APIHandlers - все хэндлеры под префиксом API, в порядке регистрации
func (a *AppHandlers) APIHandlers() []RouteRegistrar {
	return []RouteRegistrar{
		a.AuthHandler,
		a.JobHandler,
		a.ApplicationHandler,
		a.NotificationHandler,
		a.UserHandler,
		a.ProfileHandler,
		a.CompanyHandler,
		a.JobAlertHandler,
	}
}
