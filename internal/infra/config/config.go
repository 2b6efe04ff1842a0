package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken     string
	DatabaseURL       string
	StateFilePath     string
	TriggerHour       int
	TriggerMinute     int
	Timezone          string
	DefaultNoticeDays []int
	LogLevel          string
	Environment       string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.StateFilePath = os.Getenv("STATE_FILE_PATH")
	if cfg.StateFilePath == "" {
		cfg.StateFilePath = "reminder_state.json"
	}

	triggerTime := os.Getenv("TRIGGER_TIME")
	if triggerTime == "" {
		triggerTime = "10:00" // Default: 10:00 AM local to the configured timezone
	}
	cfg.TriggerHour, cfg.TriggerMinute, err = parseTriggerTime(triggerTime)
	if err != nil {
		return nil, fmt.Errorf("invalid TRIGGER_TIME: %w", err)
	}

	cfg.Timezone = os.Getenv("TIMEZONE")
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Moscow"
	}

	noticeDays := os.Getenv("DEFAULT_NOTICE_DAYS")
	if noticeDays == "" {
		noticeDays = "0,1,2,3,5,7,14"
	}
	cfg.DefaultNoticeDays, err = parseNoticeDays(noticeDays)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_NOTICE_DAYS: %w", err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// parseTriggerTime parses a "HH:MM" wall-clock time.
func parseTriggerTime(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad hour in %q: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}

// parseNoticeDays parses a comma-separated list of non-negative day offsets.
func parseNoticeDays(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad day offset %q: %w", p, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("day offset %d must be non-negative", d)
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("notice day list %q is empty", s)
	}
	return days, nil
}
