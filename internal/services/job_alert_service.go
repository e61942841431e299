package services

import (
	"context"
	"errors"

	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobAlertService interface {
	ListAlerts(db *gorm.DB, userID string) ([]models.JobAlert, error)
	CreateAlert(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateJobAlertRequest) (*models.JobAlert, error)
	UpdateAlert(ctx context.Context, db *gorm.DB, userID, alertID string, req *dto.UpdateJobAlertRequest) (*models.JobAlert, error)
	DeleteAlert(ctx context.Context, db *gorm.DB, userID, alertID string) error
	// FindMatches прогоняет критерии подписки через поиск вакансий
	FindMatches(db *gorm.DB, userID, alertID string, page dto.PageQuery) (*dto.PaginatedResponse[models.Job], error)
}

type JobAlertServiceImpl struct {
	alertRepo  repositories.JobAlertRepository
	jobService JobService
}

func NewJobAlertService(alertRepo repositories.JobAlertRepository, jobService JobService) JobAlertService {
	return &JobAlertServiceImpl{
		alertRepo:  alertRepo,
		jobService: jobService,
	}
}

func (s *JobAlertServiceImpl) ListAlerts(db *gorm.DB, userID string) ([]models.JobAlert, error) {
	alerts, err := s.alertRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if alerts == nil {
		alerts = []models.JobAlert{}
	}
	return alerts, nil
}

func (s *JobAlertServiceImpl) CreateAlert(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateJobAlertRequest) (*models.JobAlert, error) {
	if err := checkSalaryRange(req.SalaryMin, req.SalaryMax); err != nil {
		return nil, err
	}

	frequency := models.AlertFrequency(req.Frequency)
	if frequency == "" {
		frequency = models.AlertFrequencyDaily
	}
	alert := &models.JobAlert{
		UserID:          userID,
		Name:            req.Name,
		Keywords:        dto.KeywordsJSON(req.Keywords),
		Location:        req.Location,
		JobType:         models.EmploymentType(req.JobType),
		ExperienceLevel: req.ExperienceLevel,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		IsRemote:        req.IsRemote,
		IsActive:        true,
		Frequency:       frequency,
	}
	if err := s.alertRepo.Create(db, alert); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Job alert created", "alert_id", alert.ID)
	return alert, nil
}

func (s *JobAlertServiceImpl) UpdateAlert(ctx context.Context, db *gorm.DB, userID, alertID string, req *dto.UpdateJobAlertRequest) (*models.JobAlert, error) {
	alert, err := s.findAlert(db, userID, alertID)
	if err != nil {
		return nil, err
	}

	salaryMin, salaryMax := alert.SalaryMin, alert.SalaryMax
	if req.SalaryMin != nil {
		salaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		salaryMax = req.SalaryMax
	}
	if err := checkSalaryRange(salaryMin, salaryMax); err != nil {
		return nil, err
	}

	if fields := req.ToFields(); len(fields) > 0 {
		if err := s.alertRepo.Update(db, alertID, userID, fields); err != nil {
			return nil, mapAlertError(err)
		}
		logger.CtxInfo(ctx, "Job alert updated", "alert_id", alertID)
	}
	return s.findAlert(db, userID, alertID)
}

func (s *JobAlertServiceImpl) DeleteAlert(ctx context.Context, db *gorm.DB, userID, alertID string) error {
	if err := s.alertRepo.Delete(db, alertID, userID); err != nil {
		return mapAlertError(err)
	}
	logger.CtxInfo(ctx, "Job alert deleted", "alert_id", alertID)
	return nil
}

func (s *JobAlertServiceImpl) FindMatches(db *gorm.DB, userID, alertID string, page dto.PageQuery) (*dto.PaginatedResponse[models.Job], error) {
	alert, err := s.findAlert(db, userID, alertID)
	if err != nil {
		return nil, err
	}
	filter := AlertFilter(alert)
	filter.Pagination = repositories.Pagination{Page: page.Page, Size: page.Size}
	return s.jobService.SearchJobs(db, filter)
}

// AlertFilter переводит критерии подписки в фильтр поиска вакансий
func AlertFilter(alert *models.JobAlert) repositories.JobFilter {
	filter := repositories.JobFilter{
		Keywords:       alert.GetKeywords(),
		Location:       alert.Location,
		Experience:     alert.ExperienceLevel,
		EmploymentType: string(alert.JobType),
		SalaryMin:      alert.SalaryMin,
		SalaryMax:      alert.SalaryMax,
	}
	if alert.IsRemote {
		filter.WorkMode = string(models.WorkModeRemote)
	}
	return filter
}

func (s *JobAlertServiceImpl) findAlert(db *gorm.DB, userID, alertID string) (*models.JobAlert, error) {
	alert, err := s.alertRepo.FindForUser(db, alertID, userID)
	if err != nil {
		return nil, mapAlertError(err)
	}
	return alert, nil
}

func mapAlertError(err error) error {
	if errors.Is(err, repositories.ErrJobAlertNotFound) {
		return apperrors.ErrJobAlertNotFound
	}
	return apperrors.InternalError(err)
}
