package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		RateLimit
		Metrics
		Pagination
		Audit
	}

	HTTP struct {
		Port       int32
		Host       string
		HSTSMaxAge int // seconds; 0 disables Strict-Transport-Security
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver   DatabaseDriver
		Path     string // SQLite file path
		DSN      string // PostgreSQL connection string
		LogLevel string // silent, error, warn, info
	}
	Log struct {
		Env   string // "dev" (console) or "prod" (JSON)
		Level string
	}
	RateLimit struct {
		Enabled   bool
		Max       int
		Window    time.Duration
		RedisAddr string // Shared counters across instances when set
	}
	Metrics struct {
		Enabled bool
	}
	Pagination struct {
		DefaultLimit int
		MaxLimit     int
	}
	Audit struct {
		Enabled bool
	}
)

// loadDotEnv reads .env into the process environment. Variables that are
// already set win.
func loadDotEnv(files ...string) {
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			log.Printf("Loaded environment from %s", f)
		}
	}
}

func NewConfig() *Config {
	loadDotEnv(".env")
	return newConfig(viper.New())
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "localhost")
	v.SetDefault("hsts_max_age", 0)
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_driver", string(DriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("log_env", "dev")
	v.SetDefault("log_level", "info")

	// Mirrors the public API limits: 100 requests per 15 minutes per client
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_max", 100)
	v.SetDefault("rate_limit_window", "15m")
	v.SetDefault("rate_limit_redis_addr", "")

	v.SetDefault("metrics_enabled", true)
	v.SetDefault("pagination_default_limit", DefaultPageLimit)
	v.SetDefault("pagination_max_limit", MaxPageLimit)
	v.SetDefault("audit_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port:       v.GetInt32("PORT"),
			Host:       v.GetString("HOST"),
			HSTSMaxAge: v.GetInt("HSTS_MAX_AGE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Log: Log{
			Env:   v.GetString("LOG_ENV"),
			Level: v.GetString("LOG_LEVEL"),
		},
		RateLimit: RateLimit{
			Enabled:   v.GetBool("RATE_LIMIT_ENABLED"),
			Max:       v.GetInt("RATE_LIMIT_MAX"),
			Window:    v.GetDuration("RATE_LIMIT_WINDOW"),
			RedisAddr: v.GetString("RATE_LIMIT_REDIS_ADDR"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Pagination: Pagination{
			DefaultLimit: v.GetInt("PAGINATION_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("PAGINATION_MAX_LIMIT"),
		},
		Audit: Audit{
			Enabled: v.GetBool("AUDIT_ENABLED"),
		},
	}
}
