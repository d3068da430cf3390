package routes

import (
	"contacts_backend/internal/handlers"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/middleware"
	"contacts_backend/internal/ratelimit"
	"contacts_backend/internal/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RateLimits are requests per minute per client IP; zero disables a route's limit.
type RateLimits struct {
	Register        int
	Login           int
	Me              int
	ResendEmail     int
	RequestPassword int
	PasswordReset   int
}

// Options carries what the route table needs besides the handlers.
type Options struct {
	DB          *gorm.DB
	AuthService services.AuthService
	// Limiter is nil when rate limiting is disabled.
	Limiter ratelimit.Limiter
	Limits  RateLimits
	Swagger bool
}

// RegisterRoutes mounts the HTTP API under /api.
func RegisterRoutes(router *gin.Engine, appHandlers *handlers.AppHandlers, opts Options) {
	limit := func(name string, perMinute int) gin.HandlerFunc {
		return middleware.RateLimitMiddleware(opts.Limiter, name, ratelimit.PerMinute(perMinute))
	}
	authenticated := middleware.AuthMiddleware(opts.AuthService)
	adminOnly := middleware.AdminMiddleware(opts.AuthService)

	api := router.Group("/api")

	// The health check uses the pool directly so it reports a broken
	// database instead of failing to open a session.
	api.GET("/healthchecker", appHandlers.HealthHandler.Healthchecker)

	session := api.Group("", middleware.DBSessionMiddleware(opts.DB))

	auth := session.Group("/auth")
	{
		h := appHandlers.AuthHandler
		auth.POST("/register", limit("register", opts.Limits.Register), h.Register)
		auth.POST("/login", limit("login", opts.Limits.Login), h.Login)
		auth.POST("/refresh_token", h.RefreshToken)
		auth.GET("/confirmed_email/:token", h.ConfirmEmail)
		auth.POST("/resend_verification_email", limit("resend_email", opts.Limits.ResendEmail), h.ResendVerificationEmail)
		auth.POST("/request_password_reset", limit("request_password", opts.Limits.RequestPassword), h.RequestPasswordReset)
		auth.GET("/password_reset/:token", h.PasswordResetForm)
		auth.POST("/password_reset", limit("password_reset", opts.Limits.PasswordReset), h.ResetPassword)
		auth.GET("/me", limit("me", opts.Limits.Me), authenticated, h.Me)
	}

	contacts := session.Group("/contacts", authenticated)
	{
		h := appHandlers.ContactHandler
		contacts.GET("", h.ListContacts)
		contacts.POST("", h.CreateContact)
		contacts.GET("/closest-birthday", h.ClosestBirthday)
		contacts.GET("/:contact_id", h.GetContact)
		contacts.PUT("/:contact_id", h.UpdateContact)
		contacts.PATCH("/:contact_id", h.UpdateContact)
		contacts.DELETE("/:contact_id", h.DeleteContact)
	}

	users := session.Group("/users", adminOnly)
	{
		users.PATCH("/avatar", appHandlers.UserHandler.UpdateAvatar)
	}

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info("Swagger UI registered", "path", "/swagger/index.html")
	}
}
