package repositories

import (
	"errors"
	"time"

	"jobalert_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationFilter - IsRead=nil означает все уведомления
type NotificationFilter struct {
	IsRead *bool
	Pagination
}

type NotificationRepository interface {
	Create(db *gorm.DB, n *models.Notification) error
	CreateBatch(db *gorm.DB, notifications []models.Notification) error
	FindByUser(db *gorm.DB, userID string, filter NotificationFilter) ([]models.Notification, int64, error)
	CountUnread(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, id, userID string, now time.Time) (*models.Notification, error)
	MarkAllAsRead(db *gorm.DB, userID string, now time.Time) (int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, n *models.Notification) error {
	return db.Create(n).Error
}

// CreateBatch вставляет пачками, чтобы не упереться в лимит параметров
func (r *NotificationRepositoryImpl) CreateBatch(db *gorm.DB, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return db.CreateInBatches(notifications, 100).Error
}

func (r *NotificationRepositoryImpl) FindByUser(db *gorm.DB, userID string, filter NotificationFilter) ([]models.Notification, int64, error) {
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Notification
	err := query.Scopes(paginate(filter.Pagination)).Order("created_at DESC").Find(&items).Error
	return items, total, err
}

func (r *NotificationRepositoryImpl) CountUnread(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead видит только уведомления владельца, чужие - ErrNotificationNotFound
func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, id, userID string, now time.Time) (*models.Notification, error) {
	var n models.Notification
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return nil, notFound(err, ErrNotificationNotFound)
	}
	if n.IsRead {
		return &n, nil
	}

	if err := db.Model(&n).Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, err
	}
	n.IsRead = true
	n.ReadAt = &now
	return &n, nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string, now time.Time) (int64, error) {
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}
