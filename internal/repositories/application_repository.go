package repositories

import (
	"errors"

	"jobalert_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("application for this job already exists")
)

type ApplicationRepository interface {
	FindByID(db *gorm.DB, id string) (*models.JobApplication, error)
	FindByJobAndCandidate(db *gorm.DB, jobID, candidateID string) (*models.JobApplication, error)
	FindByCandidate(db *gorm.DB, candidateID string, p Pagination) ([]models.JobApplication, int64, error)
	FindByJob(db *gorm.DB, jobID string, p Pagination) ([]models.JobApplication, int64, error)
	Create(db *gorm.DB, app *models.JobApplication) error
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	Delete(db *gorm.DB, id string) error
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	if err := db.Preload("Job").Where("id = ?", id).First(&app).Error; err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByJobAndCandidate(db *gorm.DB, jobID, candidateID string) (*models.JobApplication, error) {
	var app models.JobApplication
	if err := db.Where("job_id = ? AND candidate_id = ?", jobID, candidateID).First(&app).Error; err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByCandidate(db *gorm.DB, candidateID string, p Pagination) ([]models.JobApplication, int64, error) {
	return r.list(db.Model(&models.JobApplication{}).Where("candidate_id = ?", candidateID), p, true)
}

func (r *ApplicationRepositoryImpl) FindByJob(db *gorm.DB, jobID string, p Pagination) ([]models.JobApplication, int64, error) {
	return r.list(db.Model(&models.JobApplication{}).Where("job_id = ?", jobID), p, false)
}

func (r *ApplicationRepositoryImpl) list(query *gorm.DB, p Pagination, withJob bool) ([]models.JobApplication, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if withJob {
		query = query.Preload("Job")
	}
	var apps []models.JobApplication
	err := query.Scopes(paginate(p)).Order("applied_at DESC").Find(&apps).Error
	return apps, total, err
}

// Create полагается на уникальный индекс (job_id, candidate_id):
// гонка двух запросов заканчивается ErrAlreadyApplied, а не дублем.
func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.JobApplication) error {
	if err := db.Create(app).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyApplied
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.JobApplication{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.JobApplication{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
