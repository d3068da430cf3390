package handlers

import (
	"net/http"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler probes the database outside the per-request transaction.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthchecker godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 500 {object} apperrors.AppError "Error connecting to the database"
// @Router /api/healthchecker [get]
func (h *HealthHandler) Healthchecker(c *gin.Context) {
	var one int
	err := h.db.WithContext(c.Request.Context()).Raw("SELECT 1").Scan(&one).Error
	if err == nil && one != 1 {
		err = gorm.ErrInvalidData
	}
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Health check failed", err)
		apperrors.HandleError(c, apperrors.ErrDatabaseUnavailable.WithError(err))
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "OK"})
}
