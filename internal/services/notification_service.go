package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/metrics"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService interface {
	// Рассылки
	NotifyJobPosted(ctx context.Context, db *gorm.DB, job *models.Job) (int, error)
	NotifyApplicationStatus(ctx context.Context, db *gorm.DB, app *models.JobApplication, jobTitle string) error
	NotifyProfileStatus(ctx context.Context, db *gorm.DB, profile *models.Profile) error

	// Чтение и отметки
	GetUserNotifications(db *gorm.DB, userID string, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) (*models.Notification, error)
	MarkAllAsRead(db *gorm.DB, userID string) (*dto.MarkAllReadResponse, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	metrics          *metrics.Metrics
	now              func() time.Time
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	m *metrics.Metrics,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		metrics:          m,
		now:              time.Now,
	}
}

// NotifyJobPosted создает уведомление всем активным пользователям, кроме админов
func (s *NotificationServiceImpl) NotifyJobPosted(ctx context.Context, db *gorm.DB, job *models.Job) (int, error) {
	recipients, err := s.userRepo.ListNotificationRecipients(db)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	jobID := job.ID
	message := fmt.Sprintf("A new job '%s' has been posted by %s. Check it out!", job.JobTitle, job.CompanyName)
	data := notificationData(map[string]string{"job_id": job.ID})

	batch := make([]models.Notification, 0, len(recipients))
	for _, userID := range recipients {
		batch = append(batch, models.Notification{
			UserID:       userID,
			Type:         models.NotificationTypeJobPosted,
			Title:        "New Job Posted",
			Message:      message,
			RelatedJobID: &jobID,
			Data:         data,
		})
	}

	if err := s.notificationRepo.CreateBatch(db, batch); err != nil {
		return 0, apperrors.InternalError(err)
	}
	s.metrics.RecordNotifications(string(models.NotificationTypeJobPosted), len(batch))
	logger.CtxInfo(ctx, "Job notifications created", "job_id", job.ID, "recipients", len(batch))
	return len(batch), nil
}

func (s *NotificationServiceImpl) NotifyApplicationStatus(ctx context.Context, db *gorm.DB, app *models.JobApplication, jobTitle string) error {
	jobID := app.JobID
	n := &models.Notification{
		UserID:       app.CandidateID,
		Type:         models.NotificationTypeApplicationUpdate,
		Title:        "Application Status Updated",
		Message:      fmt.Sprintf("Your application for '%s' is now %s.", jobTitle, humanStatus(string(app.Status))),
		RelatedJobID: &jobID,
		Data: notificationData(map[string]string{
			"application_id": app.ID,
			"status":         string(app.Status),
		}),
	}
	if err := s.notificationRepo.Create(db, n); err != nil {
		return apperrors.InternalError(err)
	}
	s.metrics.RecordNotifications(string(n.Type), 1)
	logger.CtxDebug(ctx, "Application notification created", "application_id", app.ID)
	return nil
}

// NotifyProfileStatus сообщает кандидату о решении по профилю
func (s *NotificationServiceImpl) NotifyProfileStatus(ctx context.Context, db *gorm.DB, profile *models.Profile) error {
	var status, message string
	switch {
	case profile.IsDeactivated:
		status, message = "deactivated", "Your profile has been deactivated. You cannot apply for jobs."
	case profile.IsRejected:
		status, message = "rejected", "Your profile has been rejected. Please update it and contact support."
	case profile.IsApproved:
		status, message = "approved", "Your profile has been approved. You can now apply for jobs."
	default:
		status, message = "pending", "Your profile is pending review."
	}

	n := &models.Notification{
		UserID:  profile.UserID,
		Type:    models.NotificationTypeProfileStatus,
		Title:   "Profile Status Updated",
		Message: message,
		Data:    notificationData(map[string]string{"status": status}),
	}
	if err := s.notificationRepo.Create(db, n); err != nil {
		return apperrors.InternalError(err)
	}
	s.metrics.RecordNotifications(string(n.Type), 1)
	logger.CtxDebug(ctx, "Profile status notification created", "user_id", profile.UserID, "status", status)
	return nil
}

func (s *NotificationServiceImpl) GetUserNotifications(db *gorm.DB, userID string, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error) {
	p := repositories.Pagination{Page: query.Page, Size: query.Size}.Normalize()

	items, total, err := s.notificationRepo.FindByUser(db, userID, repositories.NotificationFilter{
		IsRead:     query.IsRead,
		Pagination: p,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.NotificationListResponse{
		PaginatedResponse: dto.NewPaginatedResponse(items, total, p.Page, p.Size),
		UnreadCount:       unread,
	}, nil
}

func (s *NotificationServiceImpl) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// MarkAsRead - чужое уведомление неотличимо от несуществующего
func (s *NotificationServiceImpl) MarkAsRead(db *gorm.DB, userID, notificationID string) (*models.Notification, error) {
	n, err := s.notificationRepo.MarkAsRead(db, notificationID, userID, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *NotificationServiceImpl) MarkAllAsRead(db *gorm.DB, userID string) (*dto.MarkAllReadResponse, error) {
	updated, err := s.notificationRepo.MarkAllAsRead(db, userID, s.now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.MarkAllReadResponse{
		Message:      "All notifications marked as read",
		UpdatedCount: updated,
	}, nil
}

func notificationData(values map[string]string) datatypes.JSON {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// humanStatus: under_review -> under review
func humanStatus(status string) string {
	out := []rune(status)
	for i, r := range out {
		if r == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}
