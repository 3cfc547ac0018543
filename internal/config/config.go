package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	defaultS3Endpoint = "https://storage.yandexcloud.net"
	defaultS3Bucket   = "poehali-files"
)

type Config struct {
	AppEnv string `env:"APP_ENV"`

	HTTPAddr      string `env:"HTTP_ADDR,default=:8080"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE,default=true"`

	JWTSecret        string `env:"JWT_SECRET"`
	AuthTrustHeaders bool   `env:"AUTH_TRUST_HEADERS,default=true"`

	S3 S3Config

	MediaPendingTTL    time.Duration `env:"MEDIA_PENDING_TTL,default=1h"`
	MediaSweepSchedule string        `env:"MEDIA_SWEEP_SCHEDULE,default=@every 15m"`

	CORSMaxAge int `env:"CORS_MAX_AGE,default=86400"`
}

type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT,default=https://storage.yandexcloud.net"`
	Bucket    string `env:"S3_BUCKET,default=poehali-files"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Region    string `env:"S3_REGION"`
}

// Load reads .env (when present) and decodes the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}

	if cfg.AppEnv == "" {
		cfg.AppEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.S3.Endpoint == "" {
		cfg.S3.Endpoint = defaultS3Endpoint
	}
	if cfg.S3.Bucket == "" {
		cfg.S3.Bucket = defaultS3Bucket
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development" || c.AppEnv == "local"
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

// HasS3Credentials reports whether a real object store can be used.
func (c *Config) HasS3Credentials() bool {
	return c.S3.AccessKey != "" && c.S3.SecretKey != ""
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.MediaPendingTTL <= 0 {
		return fmt.Errorf("MEDIA_PENDING_TTL must be > 0")
	}
	if cfg.CORSMaxAge < 0 {
		return fmt.Errorf("CORS_MAX_AGE must be >= 0")
	}
	if strings.TrimSpace(cfg.S3.Bucket) == "" {
		return fmt.Errorf("S3_BUCKET must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" && !cfg.AuthTrustHeaders {
			return fmt.Errorf("in prod/release either JWT_SECRET or AUTH_TRUST_HEADERS must be set")
		}
		if !cfg.HasS3Credentials() {
			return fmt.Errorf("in prod/release S3_ACCESS_KEY and S3_SECRET_KEY must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}
