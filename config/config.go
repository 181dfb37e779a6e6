package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Env       string
	Port      string
	BaseURL   string
	DB        DBConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	App       AppConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type JWTConfig struct {
	Secret string
	Exp    time.Duration
}

type CORSConfig struct {
	Origin string
}

// RateLimitConfig is declared configuration only: enforcement is handled
// outside the service (reverse proxy), the values are read so deployments
// share one source of truth.
type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

type AppConfig struct {
	DefaultExpiry time.Duration
	MaxExpiry     time.Duration
	PurgeAfter    time.Duration
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Env:     getEnvDefault("ENV", "production"),
		Port:    getEnv("APP_PORT", log),
		BaseURL: getEnv("BASE_URL", log),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", log),
			Port:     getEnv("DB_PORT", log),
			User:     getEnv("DB_USER", log),
			Password: getEnv("DB_PASSWORD", log),
			Name:     getEnv("DB_NAME", log),
			SSLMode:  getEnv("DB_SSLMODE", log),

			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: parseDurationWithDays(getEnvDefault("DB_CONN_MAX_LIFETIME", "1h")),
			ConnMaxIdleTime: parseDurationWithDays(getEnvDefault("DB_CONN_MAX_IDLE_TIME", "10m")),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", log),
			Exp:    parseDurationWithDays(getEnvDefault("JWT_EXPIRES_IN", "7d")),
		},
		CORS: CORSConfig{
			Origin: getEnvDefault("CORS_ORIGIN", "http://localhost:5173"),
		},
		RateLimit: RateLimitConfig{
			Window:      parseDurationWithDays(getEnvDefault("RATE_LIMIT_WINDOW", "1h")),
			MaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 10),
		},
		App: AppConfig{
			DefaultExpiry: parseDurationWithDays(getEnvDefault("DEFAULT_URL_EXPIRY", "365d")),
			MaxExpiry:     parseDurationWithDays(getEnvDefault("MAX_URL_EXPIRY", "365d")),
			PurgeAfter:    parseDurationWithDays(getEnvDefault("PURGE_EXPIRED_AFTER", "30d")),
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("Invalid integer for %s: %v", key, err)
		return def
	}
	return n
}

func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := time.ParseDuration(daysStr + "h")
		if err != nil {
			log.Printf("Invalid duration %q: %v", s, err)
			return 0
		}
		return time.Duration(24) * days
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}
