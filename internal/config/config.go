package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Events   EventsConfig
	Tracing  TracingConfig
	SMTP     SMTPConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	FeedLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	Timezone           string
}

type DatabaseConfig struct {
	Connection      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// AuthConfig describes the single account allowed to sign in.
type AuthConfig struct {
	Username     string
	PasswordHash string
	TokenTTL     time.Duration
	SecureCookie bool
}

type CacheConfig struct {
	FlashTTL time.Duration
	DatesTTL time.Duration
}

type EventsConfig struct {
	Topic      string
	EnableNats bool
}

// SMTPConfig is only needed to mail statements.
type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			FeedLogFilePath:    getEnv("FEED_LOG_FILE_PATH", "logs/feed.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			Timezone:           getEnv("APP_TIMEZONE", "UTC"),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			Username:     getEnv("AUTH_USERNAME", "admin"),
			PasswordHash: getEnv("AUTH_PASSWORD_HASH", ""),
			TokenTTL:     getEnvAsDuration("AUTH_TOKEN_TTL", 24*time.Hour),
			SecureCookie: getEnvAsBool("AUTH_SECURE_COOKIE", false),
		},
		Cache: CacheConfig{
			FlashTTL: getEnvAsDuration("CACHE_FLASH_TTL", 5*time.Minute),
			DatesTTL: getEnvAsDuration("CACHE_DATES_TTL", 10*time.Minute),
		},
		Events: EventsConfig{
			Topic:      getEnv("EVENTS_TOPIC", "ledger.events"),
			EnableNats: getEnvAsBool("EVENTS_ENABLE_NATS", false),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("TRACING_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "expense-log-be"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Expense Log"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Location resolves App.Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate reports every problem at once instead of stopping at the first.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.App.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.App.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Database.Connection == "" {
		problems = append(problems, "DB_CONNECTION_STRING is required")
	}
	if c.Database.MaxOpenConns < 1 {
		problems = append(problems, fmt.Sprintf("invalid DB_MAX_OPEN_CONNS %d: must be at least 1", c.Database.MaxOpenConns))
	}

	if c.App.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.Auth.Username == "" {
		problems = append(problems, "AUTH_USERNAME cannot be empty")
	}
	if !strings.HasPrefix(c.Auth.PasswordHash, "$2") {
		problems = append(problems, "AUTH_PASSWORD_HASH must be a bcrypt hash")
	}
	if c.Auth.TokenTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid AUTH_TOKEN_TTL %v: must be at least 1 minute", c.Auth.TokenTTL))
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid APP_TIMEZONE '%s': %v", c.App.Timezone, err))
	}

	if c.App.RedisURL != "" {
		if u, err := url.Parse(c.App.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			problems = append(problems, fmt.Sprintf("invalid REDIS_URL '%s': scheme must be 'redis' or 'rediss'", c.App.RedisURL))
		}
	}
	if c.Events.EnableNats && c.App.NatsURL == "" {
		problems = append(problems, "NATS_URL is required when EVENTS_ENABLE_NATS is set")
	}
	if c.Events.Topic == "" {
		problems = append(problems, "EVENTS_TOPIC cannot be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
