package handlers

import (
	"net/http"

	"jobalert_backend/internal/middleware"
	"jobalert_backend/internal/services"
	"jobalert_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobAlertHandler struct {
	*BaseHandler
	alertService services.JobAlertService
}

func NewJobAlertHandler(base *BaseHandler, alertService services.JobAlertService) *JobAlertHandler {
	return &JobAlertHandler{
		BaseHandler:  base,
		alertService: alertService,
	}
}

func (h *JobAlertHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	alerts := rg.Group("/job-alerts", guard.Active()...)
	{
		alerts.GET("", h.ListAlerts)
		alerts.POST("", h.CreateAlert)
		alerts.PUT("/:id", h.UpdateAlert)
		alerts.DELETE("/:id", h.DeleteAlert)
		alerts.GET("/:id/matches", h.FindMatches)
	}
}

func (h *JobAlertHandler) ListAlerts(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	alerts, err := h.alertService.ListAlerts(h.GetDB(c), user.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

// CreateAlert godoc
// @Summary Создать подписку на вакансии
// @Tags job-alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobAlertRequest true "Критерии"
// @Success 201 {object} models.JobAlert
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /job-alerts [post]
func (h *JobAlertHandler) CreateAlert(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateJobAlertRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	alert, err := h.alertService.CreateAlert(c.Request.Context(), h.GetDB(c), user.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

func (h *JobAlertHandler) UpdateAlert(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateJobAlertRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	alert, err := h.alertService.UpdateAlert(c.Request.Context(), h.GetDB(c), user.ID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *JobAlertHandler) DeleteAlert(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	if err := h.alertService.DeleteAlert(c.Request.Context(), h.GetDB(c), user.ID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Job alert deleted successfully"})
}

// FindMatches godoc
// @Summary Вакансии, подходящие под подписку
// @Tags job-alerts
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID подписки"
// @Param page query int false "Страница" default(1)
// @Param size query int false "Размер страницы" default(10)
// @Success 200 {object} dto.PaginatedResponse[models.Job]
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /job-alerts/{id}/matches [get]
func (h *JobAlertHandler) FindMatches(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var page dto.PageQuery
	if !h.BindAndValidate_Query(c, &page) {
		return
	}

	resp, err := h.alertService.FindMatches(h.GetDB(c), user.ID, c.Param("id"), page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
