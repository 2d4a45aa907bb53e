// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	FrontendURL  string `mapstructure:"FRONTEND_URL"`
	FrontendURL2 string `mapstructure:"FRONTEND_URL2"`

	UploadBackend string `mapstructure:"UPLOAD_BACKEND"`
	UploadDir     string `mapstructure:"UPLOAD_DIR"`
	MaxUploadMB   int64  `mapstructure:"MAX_UPLOAD_MB"`
	S3Bucket      string `mapstructure:"S3_BUCKET"`
	S3Region      string `mapstructure:"S3_REGION"`
	S3Endpoint    string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey   string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey   string `mapstructure:"S3_SECRET_KEY"`
	S3PublicURL   string `mapstructure:"S3_PUBLIC_URL"`

	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
	CacheTTL             time.Duration `mapstructure:"CACHE_TTL"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	SeedFile      string `mapstructure:"SEED_FILE"`

	RevalidationURL    string `mapstructure:"REVALIDATION_URL"`
	RevalidationSecret string `mapstructure:"REVALIDATION_SECRET"`
}

var defaults = map[string]any{
	"APP_ENV":                "local",
	"PORT":                   "8081",
	"DATABASE_URL":           "sqlite://portfolio.db",
	"FRONTEND_URL":           "",
	"FRONTEND_URL2":          "",
	"UPLOAD_BACKEND":         "local",
	"UPLOAD_DIR":             "uploads",
	"MAX_UPLOAD_MB":          5,
	"S3_BUCKET":              "",
	"S3_REGION":              "us-east-1",
	"S3_ENDPOINT":            "",
	"S3_ACCESS_KEY":          "",
	"S3_SECRET_KEY":          "",
	"S3_PUBLIC_URL":          "",
	"SESSION_TTL":            "24h",
	"SESSION_SWEEP_INTERVAL": "1h",
	"CACHE_TTL":              "5m",
	"ADMIN_USERNAME":         "admin",
	"ADMIN_PASSWORD":         "",
	"SEED_FILE":              "",
	"REVALIDATION_URL":       "",
	"REVALIDATION_SECRET":    "",
}

// LoadConfig reads .env (when present) into the environment and then the
// environment over the defaults.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: reading .env: %v", err)
	}

	v := viper.New()
	// Every key needs a default, AutomaticEnv alone is invisible to Unmarshal.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.UploadBackend {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("config: UPLOAD_BACKEND=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("config: unknown UPLOAD_BACKEND %q", c.UploadBackend)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Local reports whether the process runs in a developer environment.
func (c Config) Local() bool { return c.AppEnv == "local" }

// AllowedOrigins lists the configured frontend origins, skipping blanks.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range []string{c.FrontendURL, c.FrontendURL2} {
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
