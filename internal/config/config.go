package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultDSN = "host=localhost port=5432 user=postgres password=postgres dbname=bank_cards sslmode=disable"

// Expiry sweep runs nightly; cards past their expiry month get marked EXPIRED.
const defaultSweepSchedule = "0 3 * * *"

type Config struct {
	HTTPAddr      string
	DatabaseDSN   string
	MigrationsDir string
	CardKeyBase64 string
	JWTSecret     string
	JWTTTL        time.Duration
	SweepSchedule string
	ShutdownGrace time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", defaultDSN),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		CardKeyBase64: strings.TrimSpace(os.Getenv("CARD_KEY_BASE64")),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		SweepSchedule: getEnv("EXPIRY_SWEEP_SCHEDULE", defaultSweepSchedule),
		ShutdownGrace: 10 * time.Second,
	}

	ttlHours, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	if err != nil || ttlHours <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL_HOURS must be a positive integer")
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	if cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
