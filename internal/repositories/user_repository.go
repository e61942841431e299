package repositories

import (
	"errors"

	"jobalert_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// OTP-колонки пользователя, по одному префиксу на канал
const (
	OTPColumnEmail       = "email_otp_"
	OTPColumnMobile      = "mobile_otp_"
	OTPColumnReset       = "reset_otp_"
	OTPColumnMobileReset = "mobile_reset_otp_"
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByUsername(db *gorm.DB, username string) (*models.User, error)
	FindByMobile(db *gorm.DB, mobile string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	SetOTP(db *gorm.DB, id, columnPrefix string, otp models.OTPCode) error
	Delete(db *gorm.DB, id string) error
	Search(db *gorm.DB, filter UserFilter) ([]models.User, int64, error)
	ListNotificationRecipients(db *gorm.DB) ([]string, error)
}

// UserFilter - фильтр админского поиска
type UserFilter struct {
	Search string
	Pagination
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	return r.findOne(db, "id = ?", id)
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return r.findOne(db, "email = ?", email)
}

func (r *UserRepositoryImpl) FindByUsername(db *gorm.DB, username string) (*models.User, error) {
	return r.findOne(db, "username = ?", username)
}

func (r *UserRepositoryImpl) FindByMobile(db *gorm.DB, mobile string) (*models.User, error) {
	return r.findOne(db, "mobile_number = ?", mobile)
}

func (r *UserRepositoryImpl) findOne(db *gorm.DB, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := db.Where(query, arg).First(&user).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// Update пишет только переданные колонки
func (r *UserRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetOTP записывает или очищает (nil-поля) пару кода одного канала
func (r *UserRepositoryImpl) SetOTP(db *gorm.DB, id, columnPrefix string, otp models.OTPCode) error {
	return r.Update(db, id, map[string]interface{}{
		columnPrefix + "code":       otp.Code,
		columnPrefix + "expires_at": otp.ExpiresAt,
	})
}

// Delete удаляет пользователя вместе с профилем, заявками, подписками и уведомлениями.
// Каскад делаем явно: на mysql/sqlite внешние ключи могут быть выключены.
func (r *UserRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").Where("id = ?", id).First(&user).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}

		var profileIDs []string
		if err := tx.Model(&models.Profile{}).Where("user_id = ?", id).Pluck("id", &profileIDs).Error; err != nil {
			return err
		}
		if len(profileIDs) > 0 {
			if err := deleteProfileChildren(tx, profileIDs...); err != nil {
				return err
			}
		}

		steps := []struct {
			model interface{}
			where string
		}{
			{&models.JobApplication{}, "candidate_id = ?"},
			{&models.Notification{}, "user_id = ?"},
			{&models.JobAlert{}, "user_id = ?"},
			{&models.Profile{}, "user_id = ?"},
			{&models.User{}, "id = ?"},
		}
		for _, s := range steps {
			if err := tx.Where(s.where, id).Delete(s.model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Search ищет по email, username, имени и роли
func (r *UserRepositoryImpl) Search(db *gorm.DB, filter UserFilter) ([]models.User, int64, error) {
	query := db.Model(&models.User{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			newGroup(db).Where(ilike("email"), pattern).
				Or(ilike("username"), pattern).
				Or(ilike("first_name"), pattern).
				Or(ilike("last_name"), pattern).
				Or(ilike("role"), pattern),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.Scopes(paginate(filter.Pagination)).Order("created_at DESC").Find(&users).Error
	return users, total, err
}

// ListNotificationRecipients - id активных пользователей, кроме админов
func (r *UserRepositoryImpl) ListNotificationRecipients(db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.Model(&models.User{}).
		Where("is_active = ? AND role <> ?", true, models.UserRoleAdmin).
		Pluck("id", &ids).Error
	return ids, err
}
