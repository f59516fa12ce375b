package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BradenHooton/sitebase/pkg/auth"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Media    MediaConfig
	SEO      SEOConfig
	Admin    AdminConfig
}

type DatabaseConfig struct {
	Host              string        `env:"DB_HOST" envDefault:"localhost"`
	Port              int           `env:"DB_PORT" envDefault:"5432"`
	User              string        `env:"DB_USER" envDefault:"postgres"`
	Password          string        `env:"DB_PASSWORD"`
	Name              string        `env:"DB_NAME" envDefault:"sitebase"`
	SSLMode           string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns          int32         `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns          int32         `env:"DB_MIN_CONNS" envDefault:"5"`
	MaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"5m"`
	MaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"1m"`
	HealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

type ServerConfig struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	Env                string        `env:"ENV" envDefault:"development"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins     []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	TrustedProxies     []string      `env:"TRUSTED_PROXIES" envSeparator:","`
	ReadTimeout        time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout       time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout        time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE" envDefault:"5"`
	AdminRatePerMinute int           `env:"ADMIN_RATE_PER_MINUTE" envDefault:"120"`
}

type AuthConfig struct {
	JWTSecret         string        `env:"JWT_SECRET"`
	AccessTokenExpiry time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"12"`
}

// MediaConfig selects where uploaded preview images are stored
type MediaConfig struct {
	URL                string `env:"MEDIA_URL" envDefault:"/media/"`
	Root               string `env:"MEDIA_ROOT" envDefault:"media"`
	Backend            string `env:"MEDIA_BACKEND" envDefault:"local"`
	GCSBucket          string `env:"GCS_BUCKET"`
	GCSCredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
	MaxUploadBytes     int64  `env:"MEDIA_MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// SEOConfig holds the process-wide metadata defaults
type SEOConfig struct {
	DefaultOGImage      string `env:"DEFAULT_OG_IMAGE" envDefault:"/static/images/default_og.jpg"`
	DefaultTwitterImage string `env:"DEFAULT_TWITTER_IMAGE" envDefault:"/static/images/default_twitter.jpg"`
	SiteURL             string `env:"SITE_URL" envDefault:"/"`
}

// AdminConfig bootstraps the first superuser when both values are set
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

const (
	MediaBackendLocal = "local"
	MediaBackendGCS   = "gcs"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	if cfg.Server.Env != "production" && len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = developmentOrigins()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools that never serve requests
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()

	cfg := &DatabaseConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	if cfg.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

// Validate checks values env parsing cannot express
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	// Validate JWT secret strength
	if err := validateJWTSecret(c.Auth.JWTSecret, c.Server.Env); err != nil {
		return err
	}

	switch c.Media.Backend {
	case MediaBackendLocal:
	case MediaBackendGCS:
		if c.Media.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when MEDIA_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("MEDIA_BACKEND must be %q or %q (got %q)", MediaBackendLocal, MediaBackendGCS, c.Media.Backend)
	}

	if c.Server.LoginRatePerMinute < 0 || c.Server.AdminRatePerMinute < 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE and ADMIN_RATE_PER_MINUTE cannot be negative")
	}

	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if c.Admin.Password != "" {
		if err := auth.ValidatePassword(c.Admin.Password); err != nil {
			return fmt.Errorf("ADMIN_PASSWORD: %w", err)
		}
	}

	return nil
}

// validateJWTSecret enforces minimum security standards for JWT secret
func validateJWTSecret(secret, env string) error {
	// Minimum length based on environment
	minLength := 16 // Development minimum
	if env == "production" {
		minLength = 32 // Production requires stronger secret (256 bits)
	}

	if len(secret) < minLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	// Check against common weak secrets
	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func developmentOrigins() []string {
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}
