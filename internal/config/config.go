package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultDatabaseURL = "reservations.db"
	defaultHTTPAddr    = ":8080"
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultJWTTTL      = "24h"
	// demo credentials kept from the original deployment; override in prod
	defaultAdminEmail    = "admin@demo.dev"
	defaultAdminPassword = "admin123"
)

type Config struct {
	DatabaseURL       string
	HTTPAddr          string
	JWTSecret         string
	JWTTTL            time.Duration
	AdminEmail        string
	AdminPasswordHash []byte
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		HTTPAddr:    getEnv("HTTP_ADDR", defaultHTTPAddr),
		JWTSecret:   strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		AdminEmail:  strings.TrimSpace(getEnv("ADMIN_EMAIL", defaultAdminEmail)),
	}

	ttl, err := parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL = ttl

	password := getEnv("ADMIN_PASSWORD", defaultAdminPassword)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	cfg.AdminPasswordHash = hash

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}
