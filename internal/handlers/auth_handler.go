package handlers

import (
	"net/http"

	"contacts_backend/internal/email"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	MsgEmailConfirmed       = "Email confirmed"
	MsgPasswordResetSent    = "Password reset requested successfully"
	MsgPasswordUpdated      = "Password updated successfully"
	passwordResetFormAction = "/api/auth/password_reset"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	pages       email.TemplateRenderer
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, pages email.TemplateRenderer) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		pages:       pages,
	}
}

// Register godoc
// @Summary Register a user
// @Description Creates an unverified account and sends a confirmation email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account data"
// @Success 201 {object} dto.UserResponse
// @Failure 403 {object} apperrors.AppError "Admin role requested"
// @Failure 409 {object} apperrors.AppError "Email or username taken"
// @Failure 422 {object} apperrors.AppError "Validation failed"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login godoc
// @Summary Log in
// @Description Accepts an OAuth2 password form or JSON and returns a token pair
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.AppError "Invalid credentials or email not verified"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// RefreshToken godoc
// @Summary Refresh the access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} apperrors.AppError "Invalid refresh token"
// @Router /api/auth/refresh_token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), h.GetDB(c), req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// ConfirmEmail godoc
// @Summary Confirm an email address
// @Tags auth
// @Produce json
// @Param token path string true "Verification token"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.AppError "Invalid or expired token"
// @Router /api/auth/confirmed_email/{token} [get]
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	if err := h.authService.ConfirmEmail(c.Request.Context(), h.GetDB(c), c.Param("token")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: MsgEmailConfirmed})
}

// ResendVerificationEmail godoc
// @Summary Resend the confirmation email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Router /api/auth/resend_verification_email [post]
func (h *AuthHandler) ResendVerificationEmail(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.authService.ResendVerificationEmail(c.Request.Context(), h.GetDB(c), req.Email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}

// RequestPasswordReset godoc
// @Summary Request a password reset email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Router /api/auth/request_password_reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: MsgPasswordResetSent})
}

// PasswordResetForm godoc
// @Summary Password reset page
// @Description Renders the HTML form linked from the reset email
// @Tags auth
// @Produce html
// @Param token path string true "Password reset token"
// @Success 200 {string} string "HTML page"
// @Failure 400 {object} apperrors.AppError "Invalid or expired token"
// @Router /api/auth/password_reset/{token} [get]
func (h *AuthHandler) PasswordResetForm(c *gin.Context) {
	token := c.Param("token")
	user, err := h.authService.VerifyPasswordResetToken(c.Request.Context(), h.GetDB(c), token)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	page, err := h.pages.Render(email.TemplateResetPasswordForm, email.TemplateData{
		"username": user.Username,
		"token":    token,
		"action":   passwordResetFormAction,
	})
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to render reset form", err)
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// ResetPassword godoc
// @Summary Set a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetRequest true "New password and reset token"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.AppError "Invalid or expired token"
// @Router /api/auth/password_reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.PasswordResetRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), h.GetDB(c), req.PasswordResetToken, req.Password); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: MsgPasswordUpdated})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} apperrors.AppError "Could not validate credentials"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := h.GetCurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
