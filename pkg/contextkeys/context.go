package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому в gin.Context лежит *gorm.DB
	DBContextKey = contextKey("db")

	// UserContextKey - ключ для *models.User, установленного AuthMiddleware
	UserContextKey = contextKey("current_user")
)

// String нужен, потому что gin.Context хранит значения по строковому ключу
func (k contextKey) String() string {
	return string(k)
}
