package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Default Values", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "local", cfg.AppEnv)
		assert.Equal(t, "8081", cfg.Port)
		assert.Equal(t, "sqlite://portfolio.db", cfg.DatabaseURL)
		assert.Equal(t, "local", cfg.UploadBackend)
		assert.Equal(t, int64(5), cfg.MaxUploadMB)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
		assert.Equal(t, time.Hour, cfg.SessionSweepInterval)
		assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
		assert.Equal(t, "admin", cfg.AdminUsername)
		assert.True(t, cfg.Local())
	})

	t.Run("Environment Variables", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("FRONTEND_URL", "https://example.com")
		t.Setenv("MAX_UPLOAD_MB", "12")
		t.Setenv("SESSION_TTL", "90m")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "9999", cfg.Port)
		assert.Equal(t, int64(12), cfg.MaxUploadMB)
		assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
		assert.Equal(t, []string{"https://example.com"}, cfg.AllowedOrigins())
	})

	t.Run("Rejects S3 Without Bucket", func(t *testing.T) {
		t.Setenv("UPLOAD_BACKEND", "s3")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "S3_BUCKET")
	})
}

func TestValidate(t *testing.T) {
	base := Config{UploadBackend: "local", MaxUploadMB: 5, SessionTTL: time.Hour}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "s3 with bucket", mutate: func(c *Config) { c.UploadBackend = "s3"; c.S3Bucket = "media" }},
		{name: "unknown backend", mutate: func(c *Config) { c.UploadBackend = "ftp" }, wantErr: "unknown UPLOAD_BACKEND"},
		{name: "zero upload size", mutate: func(c *Config) { c.MaxUploadMB = 0 }, wantErr: "MAX_UPLOAD_MB"},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
