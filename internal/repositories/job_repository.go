package repositories

import (
	"errors"

	"jobalert_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

// JobFilter - группы фильтров объединяются через AND
type JobFilter struct {
	Search string
	// Keywords - любое из слов (OR), используется подписками
	Keywords       []string
	Location       string
	Experience     string
	EmploymentType string
	WorkMode       string
	Industry       string
	SalaryMin      *float64
	SalaryMax      *float64
	Pagination
}

// JobStats - счетчики для админского дашборда
type JobStats struct {
	TotalJobs    int64 `json:"total_jobs"`
	ActiveJobs   int64 `json:"active_jobs"`
	InactiveJobs int64 `json:"inactive_jobs"`
}

type JobRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	FindActiveByID(db *gorm.DB, id string) (*models.Job, error)
	Search(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error)
	FindByPoster(db *gorm.DB, userID string, p Pagination) ([]models.Job, int64, error)
	Create(db *gorm.DB, job *models.Job) error
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	SoftDelete(db *gorm.DB, id string) error
	Stats(db *gorm.DB) (*JobStats, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.Where("id = ?", id).First(&job).Error; err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	return &job, nil
}

// FindActiveByID не видит мягко удаленные вакансии
func (r *JobRepositoryImpl) FindActiveByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&job).Error; err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Search(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error) {
	query := applyJobFilter(db, db.Model(&models.Job{}).Where("is_active = ?", true), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := query.Scopes(paginate(filter.Pagination)).Order("created_at DESC").Find(&jobs).Error
	return jobs, total, err
}

func applyJobFilter(db, query *gorm.DB, f JobFilter) *gorm.DB {
	if f.Search != "" {
		pattern := likePattern(f.Search)
		query = query.Where(
			newGroup(db).Where(ilike("job_title"), pattern).
				Or(ilike("company_name"), pattern).
				Or(ilike("job_summary"), pattern).
				Or(ilike("skills_required"), pattern),
		)
	}

	if len(f.Keywords) > 0 {
		var group *gorm.DB
		for _, kw := range f.Keywords {
			pattern := likePattern(kw)
			match := newGroup(db).Where(ilike("job_title"), pattern).
				Or(ilike("job_summary"), pattern).
				Or(ilike("skills_required"), pattern).
				Or(ilike("key_requirements"), pattern)
			if group == nil {
				group = newGroup(db).Where(match)
			} else {
				group = group.Or(match)
			}
		}
		query = query.Where(group)
	}

	if f.Location != "" {
		pattern := likePattern(f.Location)
		query = query.Where(
			newGroup(db).Where(ilike("city"), pattern).
				Or(ilike("state"), pattern).
				Or(ilike("country"), pattern),
		)
	}

	if f.Experience != "" {
		query = query.Where(ilike("experience_required"), likePattern(f.Experience))
	}
	if f.EmploymentType != "" {
		query = query.Where("employment_type = ?", f.EmploymentType)
	}
	if f.WorkMode != "" {
		query = query.Where("work_mode = ?", f.WorkMode)
	}
	if f.Industry != "" {
		query = query.Where(ilike("industry"), likePattern(f.Industry))
	}

	// Пересечение диапазонов зарплат
	if f.SalaryMin != nil {
		query = query.Where("salary_max >= ?", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		query = query.Where("salary_min <= ?", *f.SalaryMax)
	}
	return query
}

// FindByPoster возвращает все вакансии автора, включая неактивные
func (r *JobRepositoryImpl) FindByPoster(db *gorm.DB, userID string, p Pagination) ([]models.Job, int64, error) {
	query := db.Model(&models.Job{}).Where("posted_by = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := query.Scopes(paginate(p)).Order("created_at DESC").Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.Job{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) SoftDelete(db *gorm.DB, id string) error {
	return r.Update(db, id, map[string]interface{}{"is_active": false})
}

func (r *JobRepositoryImpl) Stats(db *gorm.DB) (*JobStats, error) {
	var stats JobStats
	if err := db.Model(&models.Job{}).Count(&stats.TotalJobs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Job{}).Where("is_active = ?", true).Count(&stats.ActiveJobs).Error; err != nil {
		return nil, err
	}
	stats.InactiveJobs = stats.TotalJobs - stats.ActiveJobs
	return &stats, nil
}
