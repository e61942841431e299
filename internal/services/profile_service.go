package services

import (
	"context"
	"errors"
	"net/http"

	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/models"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/services/dto"
	"jobalert_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	GetMyProfile(db *gorm.DB, user *models.User) (*dto.MyProfileResponse, error)
	SaveProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.ProfileRequest) (*dto.ProfileResponse, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, userID string, req *dto.ProfileStatusRequest) (*dto.ProfileResponse, error)
}

type ProfileServiceImpl struct {
	profileRepo         repositories.ProfileRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
) ProfileService {
	return &ProfileServiceImpl{
		profileRepo:         profileRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// GetMyProfile - profile равен null, пока пользователь его не сохранил
func (s *ProfileServiceImpl) GetMyProfile(db *gorm.DB, user *models.User) (*dto.MyProfileResponse, error) {
	resp := &dto.MyProfileResponse{User: dto.NewUserResponse(user)}

	profile, err := s.profileRepo.FindByUserID(db, user.ID)
	switch {
	case err == nil:
		resp.Profile = profile
	case !errors.Is(err, repositories.ErrProfileNotFound):
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// SaveProfile создает или перезаписывает профиль; флаги одобрения сохраняются
func (s *ProfileServiceImpl) SaveProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.ProfileRequest) (*dto.ProfileResponse, error) {
	profile := req.ToModel(userID)

	existing, err := s.profileRepo.FindByUserID(db, userID)
	switch {
	case err == nil:
		profile.IsActive = existing.IsActive
		profile.IsApproved = existing.IsApproved
		profile.IsRejected = existing.IsRejected
		profile.IsDeactivated = existing.IsDeactivated
	case errors.Is(err, repositories.ErrProfileNotFound):
		profile.IsActive = true
	default:
		return nil, apperrors.InternalError(err)
	}

	if err := s.profileRepo.Save(db, profile); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "profile", "Failed to save profile", http.StatusInternalServerError)
	}
	logger.CtxInfo(ctx, "Profile saved", "user_id", userID, "profile_id", profile.ID)

	saved, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, mapProfileError(err)
	}
	return &dto.ProfileResponse{Message: "Profile saved successfully", Profile: saved}, nil
}

// UpdateStatus - флаги независимы, меняются только переданные
func (s *ProfileServiceImpl) UpdateStatus(ctx context.Context, db *gorm.DB, userID string, req *dto.ProfileStatusRequest) (*dto.ProfileResponse, error) {
	fields := req.ToFields()
	if len(fields) == 0 {
		return nil, apperrors.ValidationError(map[string]string{
			"status": "At least one of is_approved, is_rejected, is_deactivated is required",
		})
	}

	profile, err := s.profileRepo.UpdateStatus(db, userID, fields)
	if err != nil {
		return nil, mapProfileError(err)
	}
	logger.CtxInfo(ctx, "Profile status updated", "user_id", userID, "fields", fields)

	if err := s.notificationService.NotifyProfileStatus(ctx, db, profile); err != nil {
		logger.CtxWithError(ctx, "Failed to notify profile owner", err, "user_id", userID)
	}
	return &dto.ProfileResponse{Message: "Profile status updated successfully", Profile: profile}, nil
}

func mapProfileError(err error) error {
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return apperrors.ErrProfileNotFound
	}
	return apperrors.InternalError(err)
}
