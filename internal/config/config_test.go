package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "GUARDRAIL_THRESHOLD", "CHAT_HISTORY_LIMIT", "SESSION_TTL", "DB_DRIVER"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 0.3, cfg.Guardrail.Threshold)
	assert.Equal(t, 10, cfg.Ai.ChatHistoryLimit)
	assert.Equal(t, 30*time.Second, cfg.Ai.VisionTimeout)
	assert.Equal(t, 60*time.Second, cfg.Ai.ChatTimeout)
	assert.Equal(t, 500, cfg.Ai.ChatMaxTokens)
	assert.Equal(t, time.Duration(0), cfg.Session.TTL)
	assert.Equal(t, 50, cfg.Events.NotificationLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GUARDRAIL_THRESHOLD", "0.55")
	t.Setenv("CHAT_HISTORY_LIMIT", "4")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("VISION_TIMEOUT", "12")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, 0.55, cfg.Guardrail.Threshold)
	assert.Equal(t, 4, cfg.Ai.ChatHistoryLimit)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 12*time.Second, cfg.Ai.VisionTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback time.Duration
		want     time.Duration
	}{
		{name: "go duration", value: "90s", fallback: time.Second, want: 90 * time.Second},
		{name: "bare seconds", value: "5", fallback: time.Second, want: 5 * time.Second},
		{name: "garbage falls back", value: "soon", fallback: 3 * time.Second, want: 3 * time.Second},
		{name: "empty falls back", value: "", fallback: 7 * time.Second, want: 7 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION", tt.fallback))
		})
	}
}
