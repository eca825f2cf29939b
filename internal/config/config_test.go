package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var configKeys = []string{
	"HTTP_PORT", "DATABASE_DSN", "JWT_SECRET", "JWT_EXPIRES_IN", "CORS_ALLOWED_ORIGINS",
	"LOG_LEVEL", "LOG_FORMAT", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"MQTT_BROKER", "MQTT_CLIENT_ID", "MQTT_USERNAME", "MQTT_PASSWORD", "MQTT_TOPIC",
}

// clearEnv blanks every key Load reads; getEnv treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, defaultDSN, cfg.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 20, cfg.DBMaxOpenConns)
	assert.Equal(t, 5, cfg.DBMaxIdleConns)
	assert.Equal(t, "scales/+/weight", cfg.MQTT.Topic)
	assert.False(t, cfg.MQTT.Enabled())
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "4000")
	t.Setenv("DATABASE_DSN", "postgres://scale@db/scale")
	t.Setenv("JWT_EXPIRES_IN", "8h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://dashboard.example")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.HTTPPort)
	assert.Equal(t, "postgres://scale@db/scale", cfg.DatabaseDSN)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 50, cfg.DBMaxOpenConns)
	assert.True(t, cfg.MQTT.Enabled())
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"bad expiry", map[string]string{"JWT_SECRET": testSecret, "JWT_EXPIRES_IN": "tomorrow"}},
		{"negative expiry", map[string]string{"JWT_SECRET": testSecret, "JWT_EXPIRES_IN": "-1h"}},
		{"bad pool size", map[string]string{"JWT_SECRET": testSecret, "DB_MAX_IDLE_CONNS": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
