package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=scale_monitor port=5432 sslmode=disable"

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
}

// Enabled reports whether MQTT ingest should be started.
func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	JWTSecret      string
	JWTExpiresIn   time.Duration
	CORSOrigins    string
	LogLevel       string
	LogFormat      string
	MQTT           MQTTConfig

	// Warnings collects non-fatal findings so the caller can log them once a
	// logger exists.
	Warnings []string
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		MQTT: MQTTConfig{
			Broker:   getEnv("MQTT_BROKER", ""),
			ClientID: getEnv("MQTT_CLIENT_ID", "scale-monitor-backend"),
			Username: getEnv("MQTT_USERNAME", ""),
			Password: getEnv("MQTT_PASSWORD", ""),
			Topic:    getEnv("MQTT_TOPIC", "scales/+/weight"),
			QoS:      1,
		},
	}

	var err error
	if cfg.JWTExpiresIn, err = time.ParseDuration(getEnv("JWT_EXPIRES_IN", "24h")); err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	if cfg.JWTExpiresIn <= 0 {
		return nil, errors.New("JWT_EXPIRES_IN must be positive")
	}
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET must be at least 32 characters")
	}

	if cfg.DatabaseDSN == defaultDSN {
		cfg.Warnings = append(cfg.Warnings, "DATABASE_DSN not set, using local default")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		cfg.Warnings = append(cfg.Warnings, "CORS_ALLOWED_ORIGINS not set, allowing only http://localhost:3000")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// DSN returns DATABASE_DSN for tools that only need the database.
func DSN() string {
	_ = godotenv.Load()
	return getEnv("DATABASE_DSN", defaultDSN)
}
