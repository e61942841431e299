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

type UserService interface {
	GetUser(db *gorm.DB, userID string) (*dto.UserResponse, error)
	UpdateMe(db *gorm.DB, userID string, req *dto.UpdateMeRequest) (*dto.UserResponse, error)

	// Админские операции
	SearchUsers(db *gorm.DB, query *dto.UserSearchQuery) (*dto.PaginatedResponse[dto.UserResponse], error)
	UpdateUser(ctx context.Context, db *gorm.DB, admin *models.User, userID string, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, db *gorm.DB, admin *models.User, userID string) (*dto.UserResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetUser(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *UserServiceImpl) UpdateMe(db *gorm.DB, userID string, req *dto.UpdateMeRequest) (*dto.UserResponse, error) {
	if fields := req.ToFields(); len(fields) > 0 {
		if err := s.userRepo.Update(db, userID, fields); err != nil {
			return nil, mapUserError(err)
		}
	}
	return s.GetUser(db, userID)
}

// SearchUsers ищет по email, username, имени, фамилии и роли
func (s *UserServiceImpl) SearchUsers(db *gorm.DB, query *dto.UserSearchQuery) (*dto.PaginatedResponse[dto.UserResponse], error) {
	p := repositories.Pagination{Page: query.Page, Size: query.Size}.Normalize()
	users, total, err := s.userRepo.Search(db, repositories.UserFilter{
		Search:     strings.TrimSpace(query.Search),
		Pagination: p,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(dto.NewUserResponses(users), total, p.Page, p.Size), nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, db *gorm.DB, admin *models.User, userID string, req *dto.AdminUpdateUserRequest) (*dto.UserResponse, error) {
	if req.Role != nil && !models.UserRole(*req.Role).Valid() {
		return nil, apperrors.ValidationError(map[string]string{"role": "Must be one of: candidate, employer, admin"})
	}
	// Выдавать суперпользователя может только суперпользователь
	if req.IsSuperuser != nil && !admin.IsSuperuser {
		return nil, apperrors.NewForbiddenError("Only a superuser can change superuser status")
	}

	if req.Username != nil {
		existing, err := s.userRepo.FindByUsername(db, *req.Username)
		switch {
		case err == nil && existing.ID != userID:
			return nil, apperrors.ErrDuplicateRegistration("username")
		case err != nil && !errors.Is(err, repositories.ErrUserNotFound):
			return nil, apperrors.InternalError(err)
		}
	}

	if fields := req.ToFields(); len(fields) > 0 {
		if err := s.userRepo.Update(db, userID, fields); err != nil {
			if errors.Is(err, repositories.ErrUserAlreadyExists) {
				return nil, apperrors.ErrDuplicateRegistration("username")
			}
			return nil, mapUserError(err)
		}
		logger.CtxInfo(ctx, "User updated by admin", "target_user_id", userID, "admin_id", admin.ID)
	}
	return s.GetUser(db, userID)
}

// DeleteUser - жесткое удаление с каскадом на профиль, заявки и уведомления
func (s *UserServiceImpl) DeleteUser(ctx context.Context, db *gorm.DB, admin *models.User, userID string) (*dto.UserResponse, error) {
	if admin.ID == userID {
		return nil, apperrors.ErrInvalidOperation("user", "You cannot delete your own account")
	}
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapUserError(err)
	}
	if err := s.userRepo.Delete(db, userID); err != nil {
		return nil, mapUserError(err)
	}
	logger.CtxInfo(ctx, "User deleted", "target_user_id", userID, "admin_id", admin.ID)
	return dto.NewUserResponse(user), nil
}

func mapUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}
