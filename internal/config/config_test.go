// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Environment: "development",
		Database:    DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "vms", Password: "pw", Database: "vms", SSLMode: "disable"},
		JWT:         JWTConfig{SecretKey: "s3cret"},
		Performance: PerformanceConfig{HistoryMode: HistoryModeField, PONumberMaxAttempts: 3},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"default secret in production", func(c *Config) {
			c.Environment = "production"
			c.JWT.SecretKey = defaultJWTSecret
		}},
		{"no db password in production", func(c *Config) {
			c.Environment = "production"
			c.Database.Password = ""
		}},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"unknown history mode", func(c *Config) { c.Performance.HistoryMode = "weekly" }},
		{"no po number attempts", func(c *Config) { c.Performance.PONumberMaxAttempts = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSQLiteNeedsNoPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.Database = DatabaseConfig{Driver: "sqlite", SQLitePath: "/var/lib/vms.db"}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/var/lib/vms.db", cfg.Database.DSN())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLITE")
	t.Setenv("PERFORMANCE_HISTORY_MODE", "Snapshot")
	t.Setenv("PO_NUMBER_MAX_ATTEMPTS", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, HistoryModeSnapshot, cfg.Performance.HistoryMode)
	assert.Equal(t, 5, cfg.Performance.PONumberMaxAttempts)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
}

func TestPostgresDSN(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "host=db port=5432 user=vms password=pw dbname=vms sslmode=disable", cfg.Database.DSN())
}
