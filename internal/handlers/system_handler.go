package handlers

import (
	"context"
	"net/http"
	"time"

	"jobalert_backend/internal/cache"
	"jobalert_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// SystemHandler - корневые служебные маршруты
type SystemHandler struct {
	*BaseHandler
	cache *cache.Cache
}

func NewSystemHandler(base *BaseHandler, c *cache.Cache) *SystemHandler {
	return &SystemHandler{BaseHandler: base, cache: c}
}

func (h *SystemHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Welcome)
	r.GET("/health", h.Health)
}

func (h *SystemHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Job Alert API"})
}

// Health godoc
// @Summary Проверка состояния
// @Description База обязательна; недоступный кэш только помечается как degraded
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok", "cache": "disabled"}

	sqlDB, err := h.GetDB(c).DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.CtxWithError(ctx, "Health check: database unavailable", err)
		status["status"] = "unavailable"
		status["database"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}

	if h.cache.Enabled() {
		if err := h.cache.Ping(ctx); err != nil {
			logger.CtxWarn(ctx, "Health check: cache unavailable", "error", err.Error())
			status["status"] = "degraded"
			status["cache"] = "unavailable"
		} else {
			status["cache"] = "ok"
		}
	}
	c.JSON(http.StatusOK, status)
}
