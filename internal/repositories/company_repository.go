package repositories

import (
	"errors"

	"jobalert_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCompanyNotFound      = errors.New("company not found")
	ErrCompanyAlreadyExists = errors.New("company already exists")
)

type CompanyFilter struct {
	Search     string
	ActiveOnly bool
	Pagination
}

type CompanyRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Company, error)
	FindByName(db *gorm.DB, name string) (*models.Company, error)
	List(db *gorm.DB, filter CompanyFilter) ([]models.Company, int64, error)
	Create(db *gorm.DB, company *models.Company) error
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	Delete(db *gorm.DB, id string) error
}

type CompanyRepositoryImpl struct{}

func NewCompanyRepository() CompanyRepository {
	return &CompanyRepositoryImpl{}
}

func (r *CompanyRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Company, error) {
	var c models.Company
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return &c, nil
}

func (r *CompanyRepositoryImpl) FindByName(db *gorm.DB, name string) (*models.Company, error) {
	var c models.Company
	if err := db.Where("name = ?", name).First(&c).Error; err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return &c, nil
}

func (r *CompanyRepositoryImpl) List(db *gorm.DB, filter CompanyFilter) ([]models.Company, int64, error) {
	query := db.Model(&models.Company{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			newGroup(db).Where(ilike("name"), pattern).
				Or(ilike("industry"), pattern).
				Or(ilike("location"), pattern),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []models.Company
	err := query.Scopes(paginate(filter.Pagination)).Order("name ASC").Find(&companies).Error
	return companies, total, err
}

func (r *CompanyRepositoryImpl) Create(db *gorm.DB, company *models.Company) error {
	if err := db.Create(company).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrCompanyAlreadyExists
		}
		return err
	}
	return nil
}

func (r *CompanyRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.Company{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrCompanyAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// Delete отвязывает вакансии компании и удаляет ее
func (r *CompanyRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Job{}).Where("company_id = ?", id).Update("company_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Company{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCompanyNotFound
		}
		return nil
	})
}
