package services

import (
	"contacts_backend/internal/auth"
	"contacts_backend/internal/cache"
	"contacts_backend/internal/email"
	"contacts_backend/internal/repositories"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService    AuthService
	UserService    UserService
	ContactService ContactService
	EmailService   EmailService
}

// Dependencies are the collaborators built once at startup.
type Dependencies struct {
	Codec    *auth.TokenCodec
	Hasher   auth.PasswordHasher
	Users    *cache.ReadThrough
	Email    email.Provider
	Uploader Uploader
	Host     string
	TTL      TokenTTLs
}

func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	contactRepo := repositories.NewContactRepository()

	users := deps.Users
	if users == nil {
		users = cache.NewReadThrough(nil, 0)
	}
	emailService := NewEmailService(deps.Email, deps.Host)

	return &ServiceContainer{
		AuthService:    NewAuthService(userRepo, deps.Codec, deps.Hasher, users, emailService, deps.TTL),
		UserService:    NewUserService(userRepo, deps.Uploader, users),
		ContactService: NewContactService(contactRepo),
		EmailService:   emailService,
	}
}
