package handlers

import (
	"net/http"

	"jobalert_backend/internal/middleware"
	"jobalert_backend/internal/services"
	"jobalert_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	jobs := rg.Group("/jobs")

	// Статичные пути регистрируются до /:id
	employer := jobs.Group("", guard.Employer()...)
	{
		employer.POST("", h.CreateJob)
		employer.GET("/my-jobs", h.GetMyJobs)
		employer.PUT("/:id", h.UpdateJob)
		employer.DELETE("/:id", h.DeleteJob)
	}

	admin := jobs.Group("/admin", guard.Admin()...)
	{
		admin.GET("/dashboard", h.GetDashboard)
	}

	jobs.GET("", h.ListJobs)
	jobs.GET("/:id", h.GetJob)
}

// ListJobs godoc
// @Summary Список вакансий
// @Description Активные публичные вакансии, свежие сверху. size от 1 до 100.
// @Tags jobs
// @Produce json
// @Param page query int false "Страница" default(1)
// @Param size query int false "Размер страницы" default(10)
// @Param search query string false "Поиск по названию, описанию, компании"
// @Param location query string false "Город"
// @Param experience query string false "Опыт"
// @Param job_type query string false "full-time, part-time, contract, internship"
// @Param work_mode query string false "on-site, remote, hybrid"
// @Param industry query string false "Отрасль"
// @Param salary_min query number false "Минимальная зарплата"
// @Param salary_max query number false "Максимальная зарплата"
// @Success 200 {object} dto.PaginatedResponse[models.Job]
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.jobService.ListJobs(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetJob godoc
// @Summary Вакансия по ID
// @Tags jobs
// @Produce json
// @Param id path string true "ID вакансии"
// @Success 200 {object} models.Job
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob godoc
// @Summary Создать вакансию
// @Description После сохранения всем активным пользователям (кроме админов) уходит уведомление
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Вакансия"
// @Success 201 {object} models.Job
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), h.GetDB(c), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob godoc
// @Summary Частичное обновление вакансии
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Param request body dto.UpdateJobRequest true "Изменяемые поля"
// @Success 200 {object} models.Job
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), h.GetDB(c), user, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob godoc
// @Summary Удалить вакансию (мягкое удаление)
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), h.GetDB(c), user, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Job deleted successfully"})
}

func (h *JobHandler) GetMyJobs(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var page dto.PageQuery
	if !h.BindAndValidate_Query(c, &page) {
		return
	}

	resp, err := h.jobService.GetMyJobs(h.GetDB(c), user.ID, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetDashboard godoc
// @Summary Сводка по вакансиям для администратора
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AdminDashboardResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /jobs/admin/dashboard [get]
func (h *JobHandler) GetDashboard(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	resp, err := h.jobService.GetDashboard(h.GetDB(c), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
