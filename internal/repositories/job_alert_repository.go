package repositories

import (
	"errors"

	"jobalert_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobAlertNotFound = errors.New("job alert not found")

type JobAlertRepository interface {
	FindForUser(db *gorm.DB, id, userID string) (*models.JobAlert, error)
	FindByUser(db *gorm.DB, userID string) ([]models.JobAlert, error)
	Create(db *gorm.DB, alert *models.JobAlert) error
	Update(db *gorm.DB, id, userID string, fields map[string]interface{}) error
	Delete(db *gorm.DB, id, userID string) error
}

type JobAlertRepositoryImpl struct{}

func NewJobAlertRepository() JobAlertRepository {
	return &JobAlertRepositoryImpl{}
}

// FindForUser - подписка видна только владельцу
func (r *JobAlertRepositoryImpl) FindForUser(db *gorm.DB, id, userID string) (*models.JobAlert, error) {
	var alert models.JobAlert
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&alert).Error; err != nil {
		return nil, notFound(err, ErrJobAlertNotFound)
	}
	return &alert, nil
}

func (r *JobAlertRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.JobAlert, error) {
	var alerts []models.JobAlert
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *JobAlertRepositoryImpl) Create(db *gorm.DB, alert *models.JobAlert) error {
	return db.Create(alert).Error
}

func (r *JobAlertRepositoryImpl) Update(db *gorm.DB, id, userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.JobAlert{}).Where("id = ? AND user_id = ?", id, userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobAlertNotFound
	}
	return nil
}

func (r *JobAlertRepositoryImpl) Delete(db *gorm.DB, id, userID string) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.JobAlert{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobAlertNotFound
	}
	return nil
}
