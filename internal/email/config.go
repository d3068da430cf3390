package email

import "contacts_backend/internal/config"

// SMTPConfig holds the SMTP connection settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseSSL    bool
}

// ConfigFrom maps the application email section.
func ConfigFrom(cfg *config.Config) SMTPConfig {
	return SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseSSL:    cfg.Email.UseSSL,
	}
}

// Enabled is false when no SMTP host is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}
