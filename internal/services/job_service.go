package services

import (
	"context"
	"errors"
	"strings"

	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/cache"
	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobService interface {
	ListJobs(db *gorm.DB, query *dto.JobListQuery) (*dto.PaginatedResponse[models.Job], error)
	SearchJobs(db *gorm.DB, filter repositories.JobFilter) (*dto.PaginatedResponse[models.Job], error)
	GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.Job, error)
	CreateJob(ctx context.Context, db *gorm.DB, user *models.User, req *dto.CreateJobRequest) (*models.Job, error)
	UpdateJob(ctx context.Context, db *gorm.DB, user *models.User, jobID string, req *dto.UpdateJobRequest) (*models.Job, error)
	DeleteJob(ctx context.Context, db *gorm.DB, user *models.User, jobID string) error
	GetMyJobs(db *gorm.DB, userID string, page dto.PageQuery) (*dto.PaginatedResponse[models.Job], error)
	GetDashboard(db *gorm.DB, user *models.User) (*dto.AdminDashboardResponse, error)
}

type JobServiceImpl struct {
	jobRepo             repositories.JobRepository
	notificationService NotificationService
	cache               *cache.Cache
}

func NewJobService(
	jobRepo repositories.JobRepository,
	notificationService NotificationService,
	jobCache *cache.Cache,
) JobService {
	return &JobServiceImpl{
		jobRepo:             jobRepo,
		notificationService: notificationService,
		cache:               jobCache,
	}
}

func jobCacheKey(id string) string {
	return "job:" + id
}

// ListJobs - только активные вакансии
func (s *JobServiceImpl) ListJobs(db *gorm.DB, query *dto.JobListQuery) (*dto.PaginatedResponse[models.Job], error) {
	if err := checkSalaryRange(query.SalaryMin, query.SalaryMax); err != nil {
		return nil, err
	}
	return s.SearchJobs(db, repositories.JobFilter{
		Search:         strings.TrimSpace(query.Search),
		Location:       strings.TrimSpace(query.Location),
		Experience:     strings.TrimSpace(query.Experience),
		EmploymentType: query.JobType,
		WorkMode:       query.WorkMode,
		Industry:       strings.TrimSpace(query.Industry),
		SalaryMin:      query.SalaryMin,
		SalaryMax:      query.SalaryMax,
		Pagination:     repositories.Pagination{Page: query.Page, Size: query.Size},
	})
}

func (s *JobServiceImpl) SearchJobs(db *gorm.DB, filter repositories.JobFilter) (*dto.PaginatedResponse[models.Job], error) {
	filter.Pagination = filter.Pagination.Normalize()
	jobs, total, err := s.jobRepo.Search(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(jobs, total, filter.Page, filter.Size), nil
}

// GetJob читает активную вакансию через кэш
func (s *JobServiceImpl) GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.Job, error) {
	job, err := cache.GetOrLoad(ctx, s.cache, jobCacheKey(jobID), func() (*models.Job, error) {
		return s.jobRepo.FindActiveByID(db, jobID)
	})
	if err != nil {
		return nil, mapJobError(err)
	}
	return job, nil
}

func (s *JobServiceImpl) CreateJob(ctx context.Context, db *gorm.DB, user *models.User, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := checkSalaryRange(req.SalaryMin, req.SalaryMax); err != nil {
		return nil, err
	}

	job := req.ToModel(user.ID)
	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Job created", "job_id", job.ID, "posted_by", user.ID)

	// Вакансия уже сохранена, сбой рассылки только логируем
	if _, err := s.notificationService.NotifyJobPosted(ctx, db, job); err != nil {
		logger.CtxWithError(ctx, "Failed to create job notifications", err, "job_id", job.ID)
	}
	return job, nil
}

func (s *JobServiceImpl) UpdateJob(ctx context.Context, db *gorm.DB, user *models.User, jobID string, req *dto.UpdateJobRequest) (*models.Job, error) {
	job, err := s.ownedJob(db, user, jobID)
	if err != nil {
		return nil, err
	}

	salaryMin, salaryMax := job.SalaryMin, job.SalaryMax
	if req.SalaryMin != nil {
		salaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		salaryMax = req.SalaryMax
	}
	if err := checkSalaryRange(salaryMin, salaryMax); err != nil {
		return nil, err
	}

	fields := req.ToFields()
	if len(fields) > 0 {
		if err := s.jobRepo.Update(db, jobID, fields); err != nil {
			return nil, mapJobError(err)
		}
		s.cache.Invalidate(ctx, jobCacheKey(jobID))
	}

	updated, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, mapJobError(err)
	}
	return updated, nil
}

// DeleteJob - мягкое удаление, вакансия пропадает из списков и GET /jobs/:id
func (s *JobServiceImpl) DeleteJob(ctx context.Context, db *gorm.DB, user *models.User, jobID string) error {
	if _, err := s.ownedJob(db, user, jobID); err != nil {
		return err
	}
	if err := s.jobRepo.SoftDelete(db, jobID); err != nil {
		return mapJobError(err)
	}
	s.cache.Invalidate(ctx, jobCacheKey(jobID))
	logger.CtxInfo(ctx, "Job deactivated", "job_id", jobID)
	return nil
}

func (s *JobServiceImpl) GetMyJobs(db *gorm.DB, userID string, page dto.PageQuery) (*dto.PaginatedResponse[models.Job], error) {
	p := repositories.Pagination{Page: page.Page, Size: page.Size}.Normalize()
	jobs, total, err := s.jobRepo.FindByPoster(db, userID, p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(jobs, total, p.Page, p.Size), nil
}

func (s *JobServiceImpl) GetDashboard(db *gorm.DB, user *models.User) (*dto.AdminDashboardResponse, error) {
	stats, err := s.jobRepo.Stats(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AdminDashboardResponse{
		Message: "Welcome to Admin Dashboard",
		User: dto.DashboardUser{
			ID:          user.ID,
			Email:       user.EmailValue(),
			Role:        string(user.Role),
			IsSuperuser: user.IsSuperuser,
		},
		DashboardData: dto.DashboardJobCounts{
			TotalJobs:    stats.TotalJobs,
			ActiveJobs:   stats.ActiveJobs,
			InactiveJobs: stats.InactiveJobs,
		},
	}, nil
}

// ownedJob - менять вакансию может автор или суперпользователь
func (s *JobServiceImpl) ownedJob(db *gorm.DB, user *models.User, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, mapJobError(err)
	}
	if job.PostedBy != user.ID && !auth.AdminOrSuperuser(user) {
		return nil, apperrors.NewForbiddenError("You can only modify jobs you posted")
	}
	return job, nil
}

func checkSalaryRange(lo, hi *float64) error {
	if lo != nil && hi != nil && *lo > *hi {
		return apperrors.ValidationError(map[string]string{
			"salary_min": "Must not be greater than salary_max",
		})
	}
	return nil
}

func mapJobError(err error) error {
	if errors.Is(err, repositories.ErrJobNotFound) {
		return apperrors.ErrJobNotFound
	}
	return apperrors.InternalError(err)
}
