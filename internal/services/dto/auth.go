package dto

import "contacts_backend/internal/models"

type RegisterRequest struct {
	Username string          `json:"username" form:"username" validate:"required,min=3,max=255"`
	Email    string          `json:"email" form:"email" validate:"required,email,max=255"`
	Password string          `json:"password" form:"password" validate:"required,min=8,max=255"`
	Avatar   string          `json:"avatar,omitempty" form:"avatar" validate:"omitempty,url,max=512"`
	Role     models.UserRole `json:"role,omitempty" form:"role" validate:"omitempty,is-user-role"`
}

// LoginRequest is sent as an OAuth2 password form or as JSON.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=1024"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type PasswordResetRequest struct {
	Password           string `json:"password" validate:"required,min=8,max=255"`
	PasswordResetToken string `json:"password_reset_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// NewAuthResponse builds a bearer token pair.
func NewAuthResponse(access, refresh string) *AuthResponse {
	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}
}
