package repositories

import (
	"errors"

	"jobalert_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	FindByUserID(db *gorm.DB, userID string) (*models.Profile, error)
	// Save создает или обновляет профиль и заменяет дочерние коллекции
	Save(db *gorm.DB, profile *models.Profile) error
	UpdateStatus(db *gorm.DB, userID string, fields map[string]interface{}) (*models.Profile, error)
	List(db *gorm.DB, filter ProfileFilter) ([]models.Profile, int64, error)
}

// ProfileFilter - фильтр для админского списка профилей
type ProfileFilter struct {
	IsApproved *bool
	Search     string
	Pagination
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.Preload("JobPreferences").Preload("Educations").Preload("Projects")
}

func (r *ProfileRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := withChildren(db).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound(err, ErrProfileNotFound)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Save(db *gorm.DB, profile *models.Profile) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.Profile
		err := tx.Select("id", "created_at").Where("user_id = ?", profile.UserID).First(&existing).Error
		switch {
		case err == nil:
			profile.ID = existing.ID
			profile.CreatedAt = existing.CreatedAt
			if err := deleteProfileChildren(tx, existing.ID); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		for i := range profile.JobPreferences {
			profile.JobPreferences[i].ID = ""
			profile.JobPreferences[i].ProfileID = profile.ID
		}
		for i := range profile.Educations {
			profile.Educations[i].ID = ""
			profile.Educations[i].ProfileID = profile.ID
		}
		for i := range profile.Projects {
			profile.Projects[i].ID = ""
			profile.Projects[i].ProfileID = profile.ID
		}

		// Save с ассоциациями вставит детей с новыми id
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(profile).Error
	})
}

// UpdateStatus меняет флаги одобрения и возвращает свежий профиль
func (r *ProfileRepositoryImpl) UpdateStatus(db *gorm.DB, userID string, fields map[string]interface{}) (*models.Profile, error) {
	if len(fields) > 0 {
		result := db.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(fields)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrProfileNotFound
		}
	}
	return r.FindByUserID(db, userID)
}

func (r *ProfileRepositoryImpl) List(db *gorm.DB, filter ProfileFilter) ([]models.Profile, int64, error) {
	query := db.Model(&models.Profile{})
	if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			newGroup(db).Where(ilike("full_name"), pattern).
				Or(ilike("email"), pattern).
				Or(ilike("headline"), pattern),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := query.Scopes(paginate(filter.Pagination)).Order("created_at DESC").Find(&profiles).Error
	return profiles, total, err
}

func deleteProfileChildren(tx *gorm.DB, profileIDs ...string) error {
	for _, model := range []interface{}{&models.JobPreference{}, &models.Education{}, &models.Project{}} {
		if err := tx.Where("profile_id IN ?", profileIDs).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
