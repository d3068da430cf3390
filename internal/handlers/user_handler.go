package handlers

import (
	"net/http"
	"strings"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// MaxAvatarSize caps the multipart file accepted by UpdateAvatar.
const MaxAvatarSize = 5 << 20

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// UpdateAvatar godoc
// @Summary Upload the current user's avatar
// @Description Stores the image on Cloudinary and saves the 250x250 delivery URL
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} apperrors.AppError "Admins only"
// @Failure 413 {object} apperrors.AppError "File too large"
// @Failure 415 {object} apperrors.AppError "Not an image"
// @Failure 502 {object} apperrors.AppError "Image host failed"
// @Router /api/users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	user, ok := h.GetCurrentUser(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "Avatar upload without file", "error", err.Error())
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"file": "is required"}))
		return
	}
	if header.Size > MaxAvatarSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		apperrors.HandleError(c, apperrors.ErrInvalidFileType.WithDetails("Expected an image, got "+ct))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	updated, err := h.userService.UpdateAvatar(c.Request.Context(), h.GetDB(c), user, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(updated))
}
