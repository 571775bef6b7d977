package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		App: AppConfig{
			Port:      "3000",
			JWTSecret: "secret",
			Timezone:  "UTC",
		},
		Database: DatabaseConfig{Connection: "postgres://localhost/ledger", MaxOpenConns: 10},
		Auth: AuthConfig{
			Username:     "admin",
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			TokenTTL:     24 * time.Hour,
		},
		Events: EventsConfig{Topic: "ledger.events"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{name: "valid config"},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.App.Port = "abc" },
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.App.Port = "70000" },
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing dsn",
			mutate:      func(c *Config) { c.Database.Connection = "" },
			errorString: "DB_CONNECTION_STRING is required",
		},
		{
			name:        "plain text password",
			mutate:      func(c *Config) { c.Auth.PasswordHash = "hunter2" },
			errorString: "AUTH_PASSWORD_HASH must be a bcrypt hash",
		},
		{
			name:        "bad redis scheme",
			mutate:      func(c *Config) { c.App.RedisURL = "http://localhost:6379" },
			errorString: "invalid REDIS_URL",
		},
		{
			name:        "nats enabled without url",
			mutate:      func(c *Config) { c.Events.EnableNats = true },
			errorString: "NATS_URL is required",
		},
		{
			name:        "unknown timezone",
			mutate:      func(c *Config) { c.App.Timezone = "Mars/Olympus" },
			errorString: "invalid APP_TIMEZONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateAccumulates(t *testing.T) {
	cfg := validConfig()
	cfg.App.Port = "abc"
	cfg.App.JWTSecret = ""

	err := cfg.Validate()

	assert.ErrorContains(t, err, "invalid port")
	assert.ErrorContains(t, err, "JWT_SECRET is required")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("CACHE_DATES_TTL", "90s")
	t.Setenv("EVENTS_ENABLE_NATS", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 90*time.Second, cfg.Cache.DatesTTL)
	assert.True(t, cfg.Events.EnableNats)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := validConfig()
	cfg.App.Timezone = "nowhere"
	assert.Equal(t, time.UTC, cfg.Location())
}
