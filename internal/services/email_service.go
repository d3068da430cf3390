package services

import (
	"context"
	"sync"

	"contacts_backend/database"
	"contacts_backend/internal/email"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
)

// EmailService dispatches account emails in the background. Send failures
// are logged with the originating request id and never returned.
type EmailService interface {
	SendVerification(ctx context.Context, user *models.User, token string)
	SendPasswordReset(ctx context.Context, user *models.User, token string)
	// Wait blocks until every dispatched email has been handed to the provider.
	Wait(ctx context.Context) error
}

type emailService struct {
	provider email.Provider
	host     string
	wg       sync.WaitGroup
}

// NewEmailService builds links against host, the public base URL.
func NewEmailService(provider email.Provider, host string) EmailService {
	return &emailService{provider: provider, host: host}
}

func (s *emailService) SendVerification(ctx context.Context, user *models.User, token string) {
	s.dispatch(ctx, "verification_email", &email.Message{
		To:       []string{user.Email},
		Subject:  "Confirm your email",
		Template: email.TemplateVerifyEmail,
		Data: email.TemplateData{
			"host":     s.host,
			"username": user.Username,
			"token":    token,
		},
	})
}

func (s *emailService) SendPasswordReset(ctx context.Context, user *models.User, token string) {
	s.dispatch(ctx, "password_reset_email", &email.Message{
		To:       []string{user.Email},
		Subject:  "Reset your password",
		Template: email.TemplateResetPassword,
		Data: email.TemplateData{
			"host":     s.host,
			"username": user.Username,
			"token":    token,
		},
	})
}

// dispatch sends msg once the request transaction commits; a rolled back
// request sends nothing.
func (s *emailService) dispatch(ctx context.Context, task string, msg *email.Message) {
	bg := logger.Detach(ctx)
	database.AfterCommit(ctx, func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.provider.Send(bg, msg); err != nil {
				logger.CtxWithError(bg, "email dispatch failed", err, "task", task, "to", msg.To)
				return
			}
			logger.TaskLog(task, "send", nil)
		}()
	})
}

func (s *emailService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
