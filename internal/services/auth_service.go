package services

import (
	"context"
	"errors"
	"time"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/cache"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	ConfirmEmail(ctx context.Context, db *gorm.DB, token string) error
	// ResendVerificationEmail returns the message for the client; it never
	// reveals whether email is registered.
	ResendVerificationEmail(ctx context.Context, db *gorm.DB, email string) (string, error)
	RequestPasswordReset(ctx context.Context, db *gorm.DB, email string) error
	VerifyPasswordResetToken(ctx context.Context, db *gorm.DB, token string) (*models.User, error)
	ResetPassword(ctx context.Context, db *gorm.DB, token, newPassword string) error
	GetCurrentUser(ctx context.Context, db *gorm.DB, accessToken string) (*models.User, error)
	RequireAdmin(ctx context.Context, db *gorm.DB, accessToken string) (*models.User, error)
}

// TokenTTLs are the lifetimes of each token kind.
type TokenTTLs struct {
	Access        time.Duration
	Refresh       time.Duration
	PasswordReset time.Duration
	Verification  time.Duration
}

const (
	MsgEmailAlreadyVerified  = "Email already verified"
	MsgVerificationEmailSent = "Verification email sent"
)

type authService struct {
	userRepo repositories.UserRepository
	codec    *auth.TokenCodec
	hasher   auth.PasswordHasher
	users    *cache.ReadThrough
	emails   EmailService
	ttl      TokenTTLs
}

func NewAuthService(
	userRepo repositories.UserRepository,
	codec *auth.TokenCodec,
	hasher auth.PasswordHasher,
	users *cache.ReadThrough,
	emails EmailService,
	ttl TokenTTLs,
) AuthService {
	return &authService{
		userRepo: userRepo,
		codec:    codec,
		hasher:   hasher,
		users:    users,
		emails:   emails,
		ttl:      ttl,
	}
}

// ============================================
// Registration and email confirmation
// ============================================

func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*models.User, error) {
	if req.Role == models.UserRoleAdmin {
		return nil, apperrors.ErrAdminRegistration
	}

	if err := s.ensureUnique(db, req.Email, req.Username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = auth.GravatarURL(req.Email)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.UserRoleUser,
		Avatar:       avatar,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// ensureUnique checks email before username and reports the first clash.
func (s *authService) ensureUnique(db *gorm.DB, email, username string) error {
	if _, err := s.userRepo.FindByEmail(db, email); err == nil {
		return apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.InternalError(err)
	}

	if _, err := s.userRepo.FindByUsername(db, username); err == nil {
		return apperrors.ErrUsernameAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) sendVerification(ctx context.Context, user *models.User) error {
	token, err := s.codec.Issue(user.Email, auth.TokenTypeEmailVerification, s.ttl.Verification)
	if err != nil {
		return apperrors.InternalError(err)
	}
	s.emails.SendVerification(ctx, user, token)
	return nil
}

func (s *authService) ConfirmEmail(ctx context.Context, db *gorm.DB, token string) error {
	email, err := s.codec.Verify(token, auth.TokenTypeEmailVerification)
	if err != nil {
		return tokenError(err)
	}

	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrVerification
		}
		return apperrors.InternalError(err)
	}

	if user.EmailVerified {
		return nil
	}
	if err := s.userRepo.SetEmailVerified(db, user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	s.users.Invalidate(ctx, cache.UserKey(user.Username))

	logger.CtxInfo(ctx, "email confirmed", "user_id", user.ID)
	return nil
}

func (s *authService) ResendVerificationEmail(ctx context.Context, db *gorm.DB, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return MsgVerificationEmailSent, nil
		}
		return "", apperrors.InternalError(err)
	}

	if user.EmailVerified {
		return MsgEmailAlreadyVerified, nil
	}
	if err := s.sendVerification(ctx, user); err != nil {
		return "", err
	}
	return MsgVerificationEmailSent, nil
}

// ============================================
// Login and token refresh
// ============================================

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(db, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	access, err := s.codec.Issue(user.Username, auth.TokenTypeAccess, s.ttl.Access)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	refresh, err := s.codec.Issue(user.Username, auth.TokenTypeRefresh, s.ttl.Refresh)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Overwrites any previous refresh token, which stops it from refreshing.
	if err := s.userRepo.SetRefreshToken(db, user.ID, &refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.users.Invalidate(ctx, cache.UserKey(user.Username))

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return dto.NewAuthResponse(access, refresh), nil
}

func (s *authService) RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	username, err := s.codec.Verify(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		logger.CtxDebug(ctx, "refresh token rejected", "reason", err.Error())
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByUsername(db, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.HasRefreshToken(refreshToken) {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	access, err := s.codec.Issue(user.Username, auth.TokenTypeAccess, s.ttl.Access)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewAuthResponse(access, refreshToken), nil
}

// ============================================
// Password reset
// ============================================

func (s *authService) RequestPasswordReset(ctx context.Context, db *gorm.DB, email string) error {
	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	token, err := s.codec.Issue(user.Email, auth.TokenTypePasswordReset, s.ttl.PasswordReset)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.SetPasswordResetToken(db, user.ID, &token); err != nil {
		return apperrors.InternalError(err)
	}
	s.users.Invalidate(ctx, cache.UserKey(user.Username))

	// Unverified accounts keep the stored token but get no email.
	if user.EmailVerified {
		s.emails.SendPasswordReset(ctx, user, token)
	}
	return nil
}

func (s *authService) VerifyPasswordResetToken(ctx context.Context, db *gorm.DB, token string) (*models.User, error) {
	email, err := s.codec.Verify(token, auth.TokenTypePasswordReset)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.HasPasswordResetToken(token) {
		return nil, apperrors.ErrInvalidToken
	}
	return user, nil
}

func (s *authService) ResetPassword(ctx context.Context, db *gorm.DB, token, newPassword string) error {
	user, err := s.VerifyPasswordResetToken(ctx, db, token)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdatePassword(db, user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}
	s.users.Invalidate(ctx, cache.UserKey(user.Username))

	logger.CtxInfo(ctx, "password reset", "user_id", user.ID)
	return nil
}

// ============================================
// Per-request authentication
// ============================================

func (s *authService) GetCurrentUser(ctx context.Context, db *gorm.DB, accessToken string) (*models.User, error) {
	username, err := s.codec.Verify(accessToken, auth.TokenTypeAccess)
	if err != nil {
		logger.CtxDebug(ctx, "access token rejected", "reason", err.Error())
		return nil, apperrors.ErrCouldNotValidateCredentials
	}

	user, err := cache.Fetch(ctx, s.users, cache.UserKey(username), func(ctx context.Context) (models.User, error) {
		u, err := s.userRepo.FindByUsername(db, username)
		if err != nil {
			return models.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrCouldNotValidateCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	return &user, nil
}

func (s *authService) RequireAdmin(ctx context.Context, db *gorm.DB, accessToken string) (*models.User, error) {
	user, err := s.GetCurrentUser(ctx, db, accessToken)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return user, nil
}

// tokenError maps codec failures for the confirm and reset flows.
func tokenError(err error) error {
	if errors.Is(err, auth.ErrTokenExpired) {
		return apperrors.ErrTokenExpired
	}
	return apperrors.ErrInvalidToken
}
