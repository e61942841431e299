package services

import (
	"context"
	"errors"
	"time"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/metrics"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService interface {
	Apply(ctx context.Context, db *gorm.DB, user *models.User, req *dto.ApplyRequest) (*models.JobApplication, error)
	GetMyApplications(db *gorm.DB, userID string, page dto.PageQuery) (*dto.PaginatedResponse[models.JobApplication], error)
	GetApplication(db *gorm.DB, user *models.User, applicationID string) (*models.JobApplication, error)
	GetJobApplications(db *gorm.DB, user *models.User, jobID string, page dto.PageQuery) (*dto.PaginatedResponse[models.JobApplication], error)
	UpdateStatus(ctx context.Context, db *gorm.DB, user *models.User, applicationID string, req *dto.UpdateApplicationStatusRequest) (*models.JobApplication, error)
	Withdraw(ctx context.Context, db *gorm.DB, user *models.User, applicationID string) error
}

type ApplicationServiceImpl struct {
	applicationRepo     repositories.ApplicationRepository
	jobRepo             repositories.JobRepository
	profileRepo         repositories.ProfileRepository
	notificationService NotificationService
	metrics             *metrics.Metrics
	now                 func() time.Time
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	profileRepo repositories.ProfileRepository,
	notificationService NotificationService,
	m *metrics.Metrics,
) ApplicationService {
	return &ApplicationServiceImpl{
		applicationRepo:     applicationRepo,
		jobRepo:             jobRepo,
		profileRepo:         profileRepo,
		notificationService: notificationService,
		metrics:             m,
		now:                 time.Now,
	}
}

// Apply: вакансия активна -> профиль одобрен -> пары (job, candidate) еще нет
func (s *ApplicationServiceImpl) Apply(ctx context.Context, db *gorm.DB, user *models.User, req *dto.ApplyRequest) (*models.JobApplication, error) {
	job, err := s.jobRepo.FindActiveByID(db, req.JobID)
	if err != nil {
		return nil, mapJobError(err)
	}

	profile, err := s.profileRepo.FindByUserID(db, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotApproved
		}
		return nil, apperrors.InternalError(err)
	}
	if !profile.CanApply() {
		return nil, apperrors.ErrProfileNotApproved
	}

	_, err = s.applicationRepo.FindByJobAndCandidate(db, job.ID, user.ID)
	switch {
	case err == nil:
		return nil, apperrors.ErrAlreadyApplied
	case !errors.Is(err, repositories.ErrApplicationNotFound):
		return nil, apperrors.InternalError(err)
	}

	resumeURL := req.ResumeURL
	if resumeURL == "" {
		resumeURL = profile.ResumeURL
	}
	app := &models.JobApplication{
		JobID:       job.ID,
		CandidateID: user.ID,
		ProfileID:   profile.ID,
		Status:      models.ApplicationStatusApplied,
		CoverLetter: req.CoverLetter,
		ResumeURL:   resumeURL,
		AppliedAt:   s.now(),
	}
	if err := s.applicationRepo.Create(db, app); err != nil {
		// Уникальный индекс ловит гонку двух одновременных заявок
		if errors.Is(err, repositories.ErrAlreadyApplied) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}
	s.metrics.RecordApplication()
	logger.CtxInfo(ctx, "Application created", "application_id", app.ID, "job_id", job.ID)

	app.Job = job
	return app, nil
}

func (s *ApplicationServiceImpl) GetMyApplications(db *gorm.DB, userID string, page dto.PageQuery) (*dto.PaginatedResponse[models.JobApplication], error) {
	p := repositories.Pagination{Page: page.Page, Size: page.Size}.Normalize()
	apps, total, err := s.applicationRepo.FindByCandidate(db, userID, p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(apps, total, p.Page, p.Size), nil
}

// GetApplication - читать может кандидат, автор вакансии или админ
func (s *ApplicationServiceImpl) GetApplication(db *gorm.DB, user *models.User, applicationID string) (*models.JobApplication, error) {
	app, err := s.findApplication(db, applicationID)
	if err != nil {
		return nil, err
	}
	if app.CandidateID == user.ID || auth.AdminOrSuperuser(user) {
		return app, nil
	}
	if app.Job != nil && app.Job.PostedBy == user.ID {
		return app, nil
	}
	return nil, apperrors.ErrInsufficientPermissions
}

func (s *ApplicationServiceImpl) GetJobApplications(db *gorm.DB, user *models.User, jobID string, page dto.PageQuery) (*dto.PaginatedResponse[models.JobApplication], error) {
	if _, err := s.posterJob(db, user, jobID); err != nil {
		return nil, err
	}

	p := repositories.Pagination{Page: page.Page, Size: page.Size}.Normalize()
	apps, total, err := s.applicationRepo.FindByJob(db, jobID, p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(apps, total, p.Page, p.Size), nil
}

// UpdateStatus меняет статус заявки и уведомляет кандидата
func (s *ApplicationServiceImpl) UpdateStatus(ctx context.Context, db *gorm.DB, user *models.User, applicationID string, req *dto.UpdateApplicationStatusRequest) (*models.JobApplication, error) {
	status := models.ApplicationStatus(req.Status)
	if !status.Valid() {
		return nil, apperrors.ValidationError(map[string]string{"application_status": "Invalid application status"})
	}

	app, err := s.findApplication(db, applicationID)
	if err != nil {
		return nil, err
	}
	job, err := s.posterJob(db, user, app.JobID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"status": status}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if err := s.applicationRepo.Update(db, app.ID, fields); err != nil {
		return nil, mapApplicationError(err)
	}

	updated, err := s.findApplication(db, app.ID)
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "Application status updated", "application_id", app.ID, "status", status)

	if err := s.notificationService.NotifyApplicationStatus(ctx, db, updated, job.JobTitle); err != nil {
		logger.CtxWithError(ctx, "Failed to notify candidate", err, "application_id", app.ID)
	}
	return updated, nil
}

// Withdraw - отозвать заявку может только сам кандидат
func (s *ApplicationServiceImpl) Withdraw(ctx context.Context, db *gorm.DB, user *models.User, applicationID string) error {
	app, err := s.findApplication(db, applicationID)
	if err != nil {
		return err
	}
	if app.CandidateID != user.ID {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.applicationRepo.Delete(db, app.ID); err != nil {
		return mapApplicationError(err)
	}
	logger.CtxInfo(ctx, "Application withdrawn", "application_id", app.ID)
	return nil
}

func (s *ApplicationServiceImpl) findApplication(db *gorm.DB, id string) (*models.JobApplication, error) {
	app, err := s.applicationRepo.FindByID(db, id)
	if err != nil {
		return nil, mapApplicationError(err)
	}
	return app, nil
}

// posterJob - заявки на вакансию видит и меняет ее автор, admin или суперпользователь
func (s *ApplicationServiceImpl) posterJob(db *gorm.DB, user *models.User, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, mapJobError(err)
	}
	if job.PostedBy != user.ID && !auth.AdminOrSuperuser(user) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return job, nil
}

func mapApplicationError(err error) error {
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return apperrors.ErrApplicationNotFound
	}
	return apperrors.InternalError(err)
}
