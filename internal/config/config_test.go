package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("WORKER_CREDENTIALS", "ana:pw,luis:pw")
	t.Setenv("STORE_TYPE", StoreTypeMemory)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "America/Lima", cfg.Attendance.Timezone)
	assert.Equal(t, 11, cfg.Attendance.EntryDeadlineHour)
	assert.Equal(t, 18, cfg.Attendance.ExitDeadlineHour)
	assert.False(t, cfg.Attendance.AllowReregister)
	assert.Equal(t, time.Hour, cfg.Attendance.ExportInterval)
	assert.Equal(t, "12h", cfg.JWT.AccessExpiration)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENTRY_DEADLINE_HOUR", "10")
	t.Setenv("ALLOW_REREGISTER", "true")
	t.Setenv("EXPORT_INTERVAL", "15m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Attendance.EntryDeadlineHour)
	assert.True(t, cfg.Attendance.AllowReregister)
	assert.Equal(t, 15*time.Minute, cfg.Attendance.ExportInterval)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing secret", "JWT_SECRET_KEY", ""},
		{"missing credentials", "WORKER_CREDENTIALS", ""},
		{"unknown store", "STORE_TYPE", "redis"},
		{"entry hour out of range", "ENTRY_DEADLINE_HOUR", "24"},
		{"exit hour not a number", "EXIT_DEADLINE_HOUR", "six"},
		{"bad timezone", "APP_TIMEZONE", "Mars/Olympus"},
		{"bad interval", "EXPORT_INTERVAL", "hourly"},
		{"bad token lifetime", "JWT_ACCESS_EXPIRATION_TIME", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_PostgresNeedsPassword(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_TYPE", StoreTypePostgres)
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")

	t.Setenv("DB_PASSWORD", "pw")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/timeclock?sslmode=disable", cfg.DatabaseURL())
}
