package handlers

import (
	"net/http"

	"jobalert_backend/internal/middleware"
	"jobalert_backend/internal/services"
	"jobalert_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	applications := rg.Group("/applications")

	employer := applications.Group("", guard.Employer()...)
	{
		employer.GET("/jobs/:job_id", h.GetJobApplications)
		employer.PUT("/:id/status", h.UpdateStatus)
	}

	active := applications.Group("", guard.Active()...)
	{
		active.POST("", h.Apply)
		active.GET("/me", h.GetMyApplications)
		active.GET("/:id", h.GetApplication)
		active.DELETE("/:id", h.Withdraw)
	}
}

// Apply godoc
// @Summary Откликнуться на вакансию
// @Description Нужен одобренный профиль; повторный отклик на ту же вакансию дает 409
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ApplyRequest true "Отклик"
// @Success 201 {object} models.JobApplication
// @Failure 403 {object} apperrors.ErrorResponse "Профиль не одобрен"
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), h.GetDB(c), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var page dto.PageQuery
	if !h.BindAndValidate_Query(c, &page) {
		return
	}

	resp, err := h.applicationService.GetMyApplications(h.GetDB(c), user.ID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetApplication godoc
// @Summary Отклик по ID
// @Description Доступен автору отклика, автору вакансии и администратору
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID отклика"
// @Success 200 {object} models.JobApplication
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	app, err := h.applicationService.GetApplication(h.GetDB(c), user, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	if err := h.applicationService.Withdraw(c.Request.Context(), h.GetDB(c), user, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Application withdrawn successfully"})
}

func (h *ApplicationHandler) GetJobApplications(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var page dto.PageQuery
	if !h.BindAndValidate_Query(c, &page) {
		return
	}

	resp, err := h.applicationService.GetJobApplications(h.GetDB(c), user, c.Param("job_id"), page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary Сменить статус отклика
// @Description Кандидат получает уведомление о новом статусе
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID отклика"
// @Param request body dto.UpdateApplicationStatusRequest true "Статус"
// @Success 200 {object} models.JobApplication
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateStatus(c.Request.Context(), h.GetDB(c), user, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
