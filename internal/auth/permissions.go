package auth

import "jobalert_backend/internal/models"

// Gate - проверка доступа к группе операций. Суперпользователь проходит все роль-гейты.
type Gate func(u *models.User) bool

// AnyActive - любой аутентифицированный активный пользователь
func AnyActive(u *models.User) bool {
	return u != nil && u.IsActive
}

// AdminOrSuperuser - роль admin или суперпользователь
func AdminOrSuperuser(u *models.User) bool {
	return HasRole(u, models.UserRoleAdmin)
}

// EmployerOrAdmin - публикует вакансии: employer, admin или суперпользователь
func EmployerOrAdmin(u *models.User) bool {
	return HasRole(u, models.UserRoleEmployer) || HasRole(u, models.UserRoleAdmin)
}

// HasRole сравнивает роль с учетом суперпользователя
func HasRole(u *models.User, role models.UserRole) bool {
	if u == nil {
		return false
	}
	return u.IsSuperuser || u.Role == role
}

// ParseRole превращает строку в роль из закрытого множества
func ParseRole(s string) (models.UserRole, bool) {
	r := models.UserRole(s)
	return r, r.Valid()
}
