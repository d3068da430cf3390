package services

import (
	"context"
	"errors"
	"io"

	"contacts_backend/internal/cache"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	// UpdateAvatar uploads file as user's avatar and returns the stored user.
	UpdateAvatar(ctx context.Context, db *gorm.DB, user *models.User, file io.Reader) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	uploader Uploader
	users    *cache.ReadThrough
}

func NewUserService(userRepo repositories.UserRepository, uploader Uploader, users *cache.ReadThrough) UserService {
	return &userService{
		userRepo: userRepo,
		uploader: uploader,
		users:    users,
	}
}

func (s *userService) UpdateAvatar(ctx context.Context, db *gorm.DB, user *models.User, file io.Reader) (*models.User, error) {
	if s.uploader == nil {
		return nil, apperrors.ErrUploadFailed.WithDetails("Image hosting is not configured")
	}

	url, err := s.uploader.UploadAvatar(ctx, file, user.Username)
	if err != nil {
		logger.CtxWithError(ctx, "avatar upload failed", err, "user_id", user.ID)
		return nil, apperrors.ErrUploadFailed.WithError(err)
	}

	if err := s.userRepo.UpdateAvatar(db, user.ID, url); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrCouldNotValidateCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	s.users.Invalidate(ctx, cache.UserKey(user.Username))

	updated, err := s.userRepo.FindByID(db, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return updated, nil
}
