package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 60, cfg.TokenLength)
	assert.Equal(t, 24*time.Hour, cfg.TokenRetention)
	assert.Equal(t, "ndncert", cfg.MetricsNamespace)
	assert.True(t, cfg.MailEnabled)
	assert.False(t, cfg.CORSEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("TOKEN_LENGTH", "80")
	t.Setenv("MAIL_ENABLED", "false")
	t.Setenv("RATE_LIMIT_TOKEN_REQUESTS_PER_SEC", "2.5")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 80, cfg.TokenLength)
	assert.False(t, cfg.MailEnabled)
	assert.Equal(t, 2.5, cfg.RateLimitTokenRequestsPerSec)
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
