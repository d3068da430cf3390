package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		Env             string        `yaml:"env"`
		Domain          string        `yaml:"domain"` // public base URL used in email links
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		URL      string        `yaml:"url"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
		Prefix   string        `yaml:"prefix"`
	} `yaml:"redis"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseSSL       bool   `yaml:"use_ssl"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	JWT struct {
		Secret           string        `yaml:"secret"`
		Algorithm        string        `yaml:"algorithm"`
		AccessTTL        time.Duration `yaml:"access_ttl"`
		RefreshTTL       time.Duration `yaml:"refresh_ttl"`
		PasswordResetTTL time.Duration `yaml:"password_reset_ttl"`
		VerificationTTL  time.Duration `yaml:"verification_ttl"`
	} `yaml:"jwt"`

	Cloudinary struct {
		CloudName string `yaml:"cloud_name"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		Folder    string `yaml:"folder"`
	} `yaml:"cloudinary"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	RateLimit struct {
		Enabled         bool `yaml:"enabled"`
		Register        int  `yaml:"register"` // requests per minute
		Login           int  `yaml:"login"`
		Me              int  `yaml:"me"`
		ResendEmail     int  `yaml:"resend_email"`
		RequestPassword int  `yaml:"request_password"`
		PasswordReset   int  `yaml:"password_reset"`
	} `yaml:"rate_limit"`

	FirstAdmin struct {
		Email    string `yaml:"email"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"first_admin"`
}

var AppConfig *Config

// LoadConfig reads config.yaml (when present), then applies environment
// overrides and defaults. A .env file in the working directory is loaded first.
func LoadConfig() {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load builds a Config without touching the global. An empty path falls back
// to config/config.yaml; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	var cfg Config
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Config file %s not found, using environment only", configPath)
	default:
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "SERVER_ENV")
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.Domain, "DOMAIN")

	setString(&cfg.Database.DSN, "DATABASE_URL")

	setString(&cfg.Redis.URL, "REDIS_URL")

	setString(&cfg.Email.SMTPHost, "MAIL_SERVER")
	setInt(&cfg.Email.SMTPPort, "MAIL_PORT")
	setString(&cfg.Email.SMTPUsername, "MAIL_USERNAME")
	setString(&cfg.Email.SMTPPassword, "MAIL_PASSWORD")
	setString(&cfg.Email.FromEmail, "MAIL_FROM")
	setString(&cfg.Email.FromName, "MAIL_FROM_NAME")
	setString(&cfg.Email.TemplatesDir, "TEMPLATES_DIR")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.JWT.Algorithm, "JWT_ALGORITHM")
	setSeconds(&cfg.JWT.AccessTTL, "JWT_EXPIRATION_SECONDS")
	setSeconds(&cfg.JWT.RefreshTTL, "JWT_REFRESH_EXPIRATION_SECONDS")

	setString(&cfg.Cloudinary.CloudName, "CLOUDINARY_NAME")
	setString(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = strings.Split(v, ",")
	}

	setBool(&cfg.RateLimit.Enabled, "RATE_LIMIT_ENABLED")

	setString(&cfg.FirstAdmin.Email, "FIRST_ADMIN_EMAIL")
	setString(&cfg.FirstAdmin.Username, "FIRST_ADMIN_USERNAME")
	setString(&cfg.FirstAdmin.Password, "FIRST_ADMIN_PASSWORD")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.Domain == "" {
		cfg.Server.Domain = "http://localhost:8000"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = 24 * time.Hour
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "contacts:"
	}

	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 465
	}
	if cfg.Email.TemplatesDir == "" {
		cfg.Email.TemplatesDir = "internal/email/templates"
	}

	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.JWT.AccessTTL == 0 {
		cfg.JWT.AccessTTL = 15 * time.Minute
	}
	if cfg.JWT.RefreshTTL == 0 {
		cfg.JWT.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.JWT.PasswordResetTTL == 0 {
		cfg.JWT.PasswordResetTTL = time.Hour
	}
	if cfg.JWT.VerificationTTL == 0 {
		cfg.JWT.VerificationTTL = 24 * time.Hour
	}

	if cfg.Cloudinary.Folder == "" {
		cfg.Cloudinary.Folder = "RestApp"
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{cfg.Server.Domain}
	}

	if cfg.RateLimit.Register == 0 {
		cfg.RateLimit.Register = 5
	}
	if cfg.RateLimit.Login == 0 {
		cfg.RateLimit.Login = 5
	}
	if cfg.RateLimit.Me == 0 {
		cfg.RateLimit.Me = 3
	}
	if cfg.RateLimit.ResendEmail == 0 {
		cfg.RateLimit.ResendEmail = 3
	}
	if cfg.RateLimit.RequestPassword == 0 {
		cfg.RateLimit.RequestPassword = 2
	}
	if cfg.RateLimit.PasswordReset == 0 {
		cfg.RateLimit.PasswordReset = 2
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database url is required (DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (JWT_SECRET)")
	}
	return nil
}

// IsDevelopment is true for local runs.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setSeconds(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = time.Duration(n) * time.Second
		}
	}
}
