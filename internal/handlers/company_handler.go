package handlers

import (
	"net/http"

	"jobalert_backend/internal/middleware"
	"jobalert_backend/internal/services"
	"jobalert_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	*BaseHandler
	companyService services.CompanyService
}

func NewCompanyHandler(base *BaseHandler, companyService services.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler:    base,
		companyService: companyService,
	}
}

func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	companies := rg.Group("/companies")
	companies.GET("", h.ListCompanies)
	companies.GET("/:id", h.GetCompany)

	admin := companies.Group("", guard.Admin()...)
	{
		admin.POST("", h.CreateCompany)
		admin.PUT("/:id", h.UpdateCompany)
		admin.DELETE("/:id", h.DeleteCompany)
	}
}

// ListCompanies godoc
// @Summary Активные компании
// @Tags companies
// @Produce json
// @Param search query string false "Поиск по названию"
// @Param page query int false "Страница" default(1)
// @Param size query int false "Размер страницы" default(10)
// @Success 200 {object} dto.PaginatedResponse[models.Company]
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var query dto.CompanyListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.companyService.ListCompanies(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompany(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// CreateCompany godoc
// @Summary Создать компанию
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCompanyRequest true "Компания"
// @Success 201 {object} models.Company
// @Failure 400 {object} apperrors.ErrorResponse "Название занято"
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// DeleteCompany - вакансии компании остаются, ссылка на нее обнуляется
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	if err := h.companyService.DeleteCompany(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Company deleted successfully"})
}
