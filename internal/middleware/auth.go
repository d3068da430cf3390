package middleware

import (
	"strconv"
	"strings"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/services"
	"contacts_backend/pkg/apperrors"
	"contacts_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthMiddleware resolves the bearer token to a user and stores it under
// contextkeys.CurrentUserKey. Every failure is answered with the same 401.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return authenticate(authService, false)
}

// AdminMiddleware is AuthMiddleware restricted to the ADMIN role.
func AdminMiddleware(authService services.AuthService) gin.HandlerFunc {
	return authenticate(authService, true)
}

func authenticate(authService services.AuthService, adminOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrCouldNotValidateCredentials)
			return
		}

		ctx := c.Request.Context()
		db := requestDB(c)

		var (
			user *models.User
			err  error
		)
		if adminOnly {
			user, err = authService.RequireAdmin(ctx, db, token)
		} else {
			user, err = authService.GetCurrentUser(ctx, db, token)
		}
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.Set(string(contextkeys.CurrentUserKey), user)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, strconv.FormatUint(uint64(user.ID), 10)))
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(string(contextkeys.CurrentUserKey))
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func requestDB(c *gin.Context) *gorm.DB {
	if v, ok := c.Get(string(contextkeys.DBContextKey)); ok {
		if db, ok := v.(*gorm.DB); ok {
			return db
		}
	}
	return nil
}
