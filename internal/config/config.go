// Package config loads server settings from the environment.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds every runtime setting of the server.
type Config struct {
	Env             string
	Addr            string
	DBPath          string
	CSRFKey         []byte // 32 bytes
	SessionSecret   []byte
	SessionTTL      time.Duration
	RedisAddr       string // empty keeps sessions in memory
	RedisUsername   string
	RedisPassword   string
	ResendKey       string // empty disables outbound email
	ResendFrom      string
	ReplyTo         string
	LogLevel        slog.Level
	SlowRequest     time.Duration
	SlowQuery       time.Duration
	LoginRPS        float64
	Seed            bool
	ShutdownTimeout time.Duration
}

// IsProduction reports whether the server runs in production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads an optional .env file and then the CLINIC_* environment.
// PRE: none
// POST: Returns an error when production is missing a required secret
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("CLINIC_ENV", EnvDevelopment),
		Addr:            getEnv("CLINIC_ADDR", ":8080"),
		DBPath:          getEnv("CLINIC_DB_PATH", "clinic.db"),
		SessionTTL:      getDuration("CLINIC_SESSION_TTL", 24*time.Hour),
		ResendKey:       os.Getenv("CLINIC_RESEND_KEY"),
		ResendFrom:      getEnv("CLINIC_RESEND_FROM", "Agenda Clínicas <noreply@agendaclinicas.app>"),
		ReplyTo:         os.Getenv("CLINIC_REPLY_TO"),
		SlowRequest:     getMillis("CLINIC_SLOW_REQUEST_MS", 200*time.Millisecond),
		SlowQuery:       getMillis("CLINIC_SLOW_QUERY_MS", 100*time.Millisecond),
		LoginRPS:        getFloat("CLINIC_LOGIN_RPS", 0.2),
		Seed:            os.Getenv("CLINIC_SEED") == "1",
		ShutdownTimeout: getDuration("CLINIC_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	level, err := parseLevel(getEnv("CLINIC_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if raw := os.Getenv("CLINIC_CSRF_KEY"); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != 32 {
			return Config{}, errors.New("CLINIC_CSRF_KEY must be 64 hex characters")
		}
		cfg.CSRFKey = key
	}
	if raw := os.Getenv("CLINIC_SESSION_SECRET"); raw != "" {
		cfg.SessionSecret = []byte(raw)
	}

	if cfg.IsProduction() {
		if cfg.CSRFKey == nil {
			return Config{}, errors.New("CLINIC_CSRF_KEY is required in production")
		}
		if len(cfg.SessionSecret) < 32 {
			return Config{}, errors.New("CLINIC_SESSION_SECRET of at least 32 bytes is required in production")
		}
		if cfg.Seed {
			return Config{}, errors.New("CLINIC_SEED cannot be enabled in production")
		}
	} else {
		if cfg.CSRFKey == nil {
			cfg.CSRFKey = []byte("dev-csrf-key-32-bytes-long!!!!!!")
		}
		if cfg.SessionSecret == nil {
			cfg.SessionSecret = []byte("dev-session-secret-do-not-use-in-prod")
		}
	}

	if redisURL := os.Getenv("CLINIC_REDIS_URL"); redisURL != "" {
		addr, username, password, err := parseRedisURL(redisURL)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CLINIC_REDIS_URL: %w", err)
		}
		cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword = addr, username, password
	} else {
		cfg.RedisAddr = os.Getenv("CLINIC_REDIS_ADDR")
		cfg.RedisUsername = os.Getenv("CLINIC_REDIS_USERNAME")
		cfg.RedisPassword = os.Getenv("CLINIC_REDIS_PASSWORD")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts whole seconds or a Go duration string.
func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		slog.Warn("config_invalid_duration", "key", key, "value", v, "default", def)
	}
	return def
}

func getMillis(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
		slog.Warn("config_invalid_millis", "key", key, "value", v, "default", def)
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
		slog.Warn("config_invalid_number", "key", key, "value", v, "default", def)
	}
	return def
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid CLINIC_LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// parseRedisURL reads address and credentials from a redis:// or rediss:// URL.
func parseRedisURL(raw string) (addr, username, password string, err error) {
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return "", "", "", err
	}
	return opts.Addr, opts.Username, opts.Password, nil
}
