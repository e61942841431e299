package routes

import (
	"jobalert_backend/internal/handlers"
	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/metrics"
	"jobalert_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует корневые служебные маршруты и API под apiPrefix.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	guard *middleware.Guard,
	m *metrics.Metrics,
	apiPrefix string,
) {
	appHandlers.SystemHandler.RegisterRoutes(ginRouter)
	ginRouter.GET("/metrics", gin.WrapH(m.Handler()))
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := ginRouter.Group(apiPrefix)
	for _, h := range appHandlers.APIHandlers() {
		h.RegisterRoutes(api, guard)
	}

	logger.Info("HTTP routes registered", "api_prefix", apiPrefix, "routes", len(ginRouter.Routes()))
}
