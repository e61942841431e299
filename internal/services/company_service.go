package services

import (
	"context"
	"errors"
	"strings"

	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CompanyService interface {
	ListCompanies(db *gorm.DB, query *dto.CompanyListQuery) (*dto.PaginatedResponse[models.Company], error)
	GetCompany(db *gorm.DB, id string) (*models.Company, error)
	CreateCompany(ctx context.Context, db *gorm.DB, req *dto.CreateCompanyRequest) (*models.Company, error)
	UpdateCompany(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateCompanyRequest) (*models.Company, error)
	DeleteCompany(ctx context.Context, db *gorm.DB, id string) error
}

type CompanyServiceImpl struct {
	companyRepo repositories.CompanyRepository
}

func NewCompanyService(companyRepo repositories.CompanyRepository) CompanyService {
	return &CompanyServiceImpl{companyRepo: companyRepo}
}

// ListCompanies - публичный список, только активные компании
func (s *CompanyServiceImpl) ListCompanies(db *gorm.DB, query *dto.CompanyListQuery) (*dto.PaginatedResponse[models.Company], error) {
	p := repositories.Pagination{Page: query.Page, Size: query.Size}.Normalize()
	companies, total, err := s.companyRepo.List(db, repositories.CompanyFilter{
		Search:     strings.TrimSpace(query.Search),
		ActiveOnly: true,
		Pagination: p,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(companies, total, p.Page, p.Size), nil
}

func (s *CompanyServiceImpl) GetCompany(db *gorm.DB, id string) (*models.Company, error) {
	company, err := s.companyRepo.FindByID(db, id)
	if err != nil {
		return nil, mapCompanyError(err)
	}
	return company, nil
}

func (s *CompanyServiceImpl) CreateCompany(ctx context.Context, db *gorm.DB, req *dto.CreateCompanyRequest) (*models.Company, error) {
	name := strings.TrimSpace(req.Name)
	if _, err := s.companyRepo.FindByName(db, name); err == nil {
		return nil, apperrors.ErrCompanyExists
	} else if !errors.Is(err, repositories.ErrCompanyNotFound) {
		return nil, apperrors.InternalError(err)
	}

	company := &models.Company{
		Name:        name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Industry:    req.Industry,
		Size:        req.Size,
		IsActive:    true,
	}
	if err := s.companyRepo.Create(db, company); err != nil {
		return nil, mapCompanyError(err)
	}
	logger.CtxInfo(ctx, "Company created", "company_id", company.ID)
	return company, nil
}

func (s *CompanyServiceImpl) UpdateCompany(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateCompanyRequest) (*models.Company, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
		existing, err := s.companyRepo.FindByName(db, name)
		switch {
		case err == nil && existing.ID != id:
			return nil, apperrors.ErrCompanyExists
		case err != nil && !errors.Is(err, repositories.ErrCompanyNotFound):
			return nil, apperrors.InternalError(err)
		}
	}

	if fields := req.ToFields(); len(fields) > 0 {
		if err := s.companyRepo.Update(db, id, fields); err != nil {
			return nil, mapCompanyError(err)
		}
		logger.CtxInfo(ctx, "Company updated", "company_id", id)
	}
	return s.GetCompany(db, id)
}

// DeleteCompany отвязывает вакансии и удаляет компанию
func (s *CompanyServiceImpl) DeleteCompany(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.companyRepo.Delete(db, id); err != nil {
		return mapCompanyError(err)
	}
	logger.CtxInfo(ctx, "Company deleted", "company_id", id)
	return nil
}

func mapCompanyError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCompanyNotFound):
		return apperrors.ErrCompanyNotFound
	case errors.Is(err, repositories.ErrCompanyAlreadyExists):
		return apperrors.ErrCompanyExists
	default:
		return apperrors.InternalError(err)
	}
}
