package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  domain: https://contacts.example.com
database:
  url: postgres://localhost/contacts
jwt:
  secret: s3cret
  access_ttl: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, time.Hour, cfg.JWT.PasswordResetTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.VerificationTTL)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 24*time.Hour, cfg.Redis.CacheTTL)
	assert.Equal(t, "RestApp", cfg.Cloudinary.Folder)
	assert.Equal(t, []string{"https://contacts.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimit.Login)
	assert.Equal(t, 2, cfg.RateLimit.RequestPassword)
	assert.Equal(t, 2, cfg.RateLimit.PasswordReset)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/contacts
jwt:
  secret: from-file
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_EXPIRATION_SECONDS", "60")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, time.Minute, cfg.JWT.AccessTTL)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://contacts.db")
	t.Setenv("JWT_SECRET", "env-only")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite://contacts.db", cfg.Database.DSN)
}

func TestLoad_RequiresSecretAndDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(writeConfig(t, "jwt:\n  secret: x\n"))
	assert.ErrorContains(t, err, "database url")

	_, err = Load(writeConfig(t, "database:\n  url: sqlite://x.db\n"))
	assert.ErrorContains(t, err, "jwt secret")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}
