package handlers

import (
	"net/http"

	"jobalert_backend/internal/middleware"
	"jobalert_backend/internal/services"
	"jobalert_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// UserHandler - админское управление пользователями
type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	users := rg.Group("/users", guard.Admin()...)
	{
		users.GET("", h.SearchUsers)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// SearchUsers godoc
// @Summary Поиск пользователей
// @Description Подстрока ищется в email, username, имени, фамилии и роли
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Строка поиска"
// @Param page query int false "Страница" default(1)
// @Param size query int false "Размер страницы" default(10)
// @Success 200 {object} dto.PaginatedResponse[dto.UserResponse]
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	var query dto.UserSearchQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.userService.SearchUsers(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateUser godoc
// @Summary Изменить пользователя
// @Description is_superuser может менять только суперпользователь
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Param request body dto.AdminUpdateUserRequest true "Изменяемые поля"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	admin, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.AdminUpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.userService.UpdateUser(c.Request.Context(), h.GetDB(c), admin, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	admin, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	resp, err := h.userService.DeleteUser(c.Request.Context(), h.GetDB(c), admin, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
