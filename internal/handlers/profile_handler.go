package handlers

import (
	"net/http"

	"jobalert_backend/internal/middleware"
	"jobalert_backend/internal/services"
	"jobalert_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
	userService    services.UserService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService, userService services.UserService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
		userService:    userService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	profile := rg.Group("/profile", guard.Active()...)
	{
		profile.GET("", h.GetMyProfile)
		profile.PUT("", h.UpdateMe)
		profile.POST("", h.SaveProfile)
	}

	admin := rg.Group("/admin/profile", guard.Admin()...)
	{
		admin.PUT("/:user_id/status", h.UpdateStatus)
	}
}

// GetMyProfile godoc
// @Summary Пользователь и его профиль
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MyProfileResponse
// @Router /profile [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	resp, err := h.profileService.GetMyProfile(h.GetDB(c), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateMe - только имя и фамилия
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateMeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.userService.UpdateMe(h.GetDB(c), user.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveProfile godoc
// @Summary Создать или заменить профиль
// @Description Вложенные коллекции (предпочтения, образование, проекты) заменяются целиком. Флаги модерации не меняются.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProfileRequest true "Профиль"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /profile [post]
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.SaveProfile(c.Request.Context(), h.GetDB(c), user.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary Одобрить, отклонить или деактивировать профиль
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "ID владельца профиля"
// @Param request body dto.ProfileStatusRequest true "Флаги"
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/profile/{user_id}/status [put]
func (h *ProfileHandler) UpdateStatus(c *gin.Context) {
	var req dto.ProfileStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateStatus(c.Request.Context(), h.GetDB(c), c.Param("user_id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
