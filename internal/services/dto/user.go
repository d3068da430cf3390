package dto

import (
	"time"

	"contacts_backend/internal/models"
)

type UserResponse struct {
	ID            uint            `json:"id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	Avatar        string          `json:"avatar"`
	Role          models.UserRole `json:"role"`
	EmailVerified bool            `json:"email_verified"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Avatar:        u.Avatar,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
