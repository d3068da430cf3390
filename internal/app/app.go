package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	_ "contacts_backend/docs"

	"contacts_backend/database"
	"contacts_backend/internal/auth"
	"contacts_backend/internal/cache"
	"contacts_backend/internal/config"
	"contacts_backend/internal/email"
	"contacts_backend/internal/handlers"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/middleware"
	"contacts_backend/internal/models"
	"contacts_backend/internal/ratelimit"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/routes"
	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"
	"contacts_backend/internal/validator"
	"contacts_backend/pkg/apperrors"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Infrastructure is everything SetupRouter needs that talks to the outside
// world. Optional parts are nil when not configured.
type Infrastructure struct {
	DB       *gorm.DB
	Cache    cache.Store
	Limiter  ratelimit.Limiter
	Email    email.Provider
	Pages    email.TemplateRenderer
	Uploader services.Uploader
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := database.Open(cfg.Database.DSN, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	if err := seedFirstAdmin(gormDB, cfg, auth.NewBcryptHasher(0)); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	infra := Infrastructure{DB: gormDB}

	redisClient := connectRedis(cfg)
	if redisClient != nil {
		infra.Cache = cache.NewRedisStore(redisClient, cfg.Redis.Prefix)
		if cfg.RateLimit.Enabled {
			infra.Limiter = ratelimit.NewSlidingWindowLimiter(redisClient, cfg.Redis.Prefix+"ratelimit:")
		}
	} else if cfg.RateLimit.Enabled {
		logger.Warn("Redis not configured, rate limits are per process")
		infra.Limiter = ratelimit.NewMemoryLimiter()
	}

	pages, err := email.NewDefaultTemplateManager(cfg.Email.TemplatesDir)
	if err != nil {
		logger.Fatal("Failed to load email templates", "error", err)
	}
	infra.Pages = pages

	smtpConfig := email.ConfigFrom(cfg)
	if smtpConfig.Enabled() {
		infra.Email = email.NewSMTPProvider(smtpConfig, pages)
		logger.Info("SMTP email provider configured", "host", smtpConfig.Host)
	} else {
		infra.Email = email.NewLogProvider(pages)
		logger.Warn("MAIL_SERVER is not set, emails are only logged")
	}

	if cfg.Cloudinary.CloudName != "" {
		uploader, err := services.NewCloudinaryUploader(
			cfg.Cloudinary.CloudName,
			cfg.Cloudinary.APIKey,
			cfg.Cloudinary.APISecret,
			cfg.Cloudinary.Folder,
		)
		if err != nil {
			logger.Fatal("Failed to configure Cloudinary", "error", err)
		}
		infra.Uploader = uploader
	} else {
		logger.Warn("Cloudinary is not configured, avatar uploads are disabled")
	}

	ginRouter, container, err := SetupRouter(cfg, infra)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	operations := map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
		"email": func(ctx context.Context) error {
			return container.EmailService.Wait(ctx)
		},
		"database": func(ctx context.Context) error {
			return sqlDB.Close()
		},
	}
	if redisClient != nil {
		operations["redis"] = func(ctx context.Context) error {
			return redisClient.Close()
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.Server.ShutdownTimeout, operations)
	exitCode := <-wait
	logger.Info("Server stopped", "exit_code", exitCode)
	os.Exit(exitCode)
}

// SetupRouter builds the services, handlers and gin engine.
func SetupRouter(cfg *config.Config, infra Infrastructure) (*gin.Engine, *services.ServiceContainer, error) {
	codec, err := auth.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTTL)
	if err != nil {
		return nil, nil, err
	}

	container := initializeServices(cfg, infra, codec)
	appHandlers := initializeHandlers(container, infra)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, routes.Options{
		DB:          infra.DB,
		AuthService: container.AuthService,
		Limiter:     infra.Limiter,
		Limits: routes.RateLimits{
			Register:        cfg.RateLimit.Register,
			Login:           cfg.RateLimit.Login,
			Me:              cfg.RateLimit.Me,
			ResendEmail:     cfg.RateLimit.ResendEmail,
			RequestPassword: cfg.RateLimit.RequestPassword,
			PasswordReset:   cfg.RateLimit.PasswordReset,
		},
		Swagger: true,
	})

	return ginRouter, container, nil
}

func initializeServices(cfg *config.Config, infra Infrastructure, codec *auth.TokenCodec) *services.ServiceContainer {
	deps := services.Dependencies{
		Codec:    codec,
		Hasher:   auth.NewBcryptHasher(0),
		Users:    cache.NewReadThrough(infra.Cache, cfg.Redis.CacheTTL),
		Email:    infra.Email,
		Uploader: infra.Uploader,
		Host:     strings.TrimRight(cfg.Server.Domain, "/"),
		TTL: services.TokenTTLs{
			Access:        cfg.JWT.AccessTTL,
			Refresh:       cfg.JWT.RefreshTTL,
			PasswordReset: cfg.JWT.PasswordResetTTL,
			Verification:  cfg.JWT.VerificationTTL,
		},
	}
	return services.NewServiceContainer(deps)
}

func initializeHandlers(container *services.ServiceContainer, infra Infrastructure) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New(dto.RegisterValidation))

	pages := infra.Pages
	if pages == nil {
		pages = email.NewTemplateManager()
	}

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, container.AuthService, pages),
		UserHandler:    handlers.NewUserHandler(baseHandler, container.UserService),
		ContactHandler: handlers.NewContactHandler(baseHandler, container.ContactService),
		HealthHandler:  handlers.NewHealthHandler(infra.DB),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	return router
}

// connectRedis returns nil when Redis is not configured or unreachable;
// the cache and rate limiter then fall back to in-process implementations.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.Redis.URL == "" {
		logger.Warn("REDIS_URL is not set, user cache disabled")
		return nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid REDIS_URL, user cache disabled", "error", err)
		return nil
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Redis unavailable, user cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("Redis connected")
	return client
}

// seedFirstAdmin creates the configured ADMIN account once. The account is
// created verified since no inbox exists to confirm it.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config, hasher auth.PasswordHasher) error {
	adminEmail := cfg.FirstAdmin.Email
	adminPassword := cfg.FirstAdmin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	username := cfg.FirstAdmin.Username
	if username == "" {
		username, _, _ = strings.Cut(adminEmail, "@")
	}

	userRepo := repositories.NewUserRepository()
	return db.Transaction(func(tx *gorm.DB) error {
		_, err := userRepo.FindByEmail(tx, adminEmail)
		if err == nil {
			logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
			return nil
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", err)
		}

		hash, err := hasher.Hash(adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := &models.User{
			Username:      username,
			Email:         adminEmail,
			PasswordHash:  hash,
			Role:          models.UserRoleAdmin,
			EmailVerified: true,
			Avatar:        auth.GravatarURL(adminEmail),
		}
		if err := userRepo.Create(tx, admin); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("Created first admin user", "email", adminEmail, "username", username)
		return nil
	})
}
