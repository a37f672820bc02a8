package config

import (
	"fmt"
	"os"
	"time"
)

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds the postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN returns the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds the report cache settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// SupplierConfig holds the purchase-order API settings
type SupplierConfig struct {
	BaseURL string
	APIKey  string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig holds the periodic re-optimization settings
type SchedulerConfig struct {
	IntervalHours int
	HorizonDays   int
	Method        string
}

// Config is the full service configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Supplier  SupplierConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

// Load builds the configuration from environment variables over defaults
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "hemoplan",
			Password: "hemoplan",
			Database: "hemoplan",
			SSLMode:  "disable",
			MaxConns: 20,
			MaxIdle:  5,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  10 * time.Minute,
		},
		Supplier: SupplierConfig{
			BaseURL: "http://localhost:9090",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Scheduler: SchedulerConfig{
			IntervalHours: 24,
			HorizonDays:   14,
			Method:        "linear_programming",
		},
	}

	loadString("HEMOPLAN_SERVER_ADDR", &cfg.Server.Addr)
	loadString("HEMOPLAN_DB_HOST", &cfg.Database.Host)
	loadInt("HEMOPLAN_DB_PORT", &cfg.Database.Port)
	loadString("HEMOPLAN_DB_USER", &cfg.Database.User)
	loadString("HEMOPLAN_DB_PASSWORD", &cfg.Database.Password)
	loadString("HEMOPLAN_DB_DATABASE", &cfg.Database.Database)
	loadString("HEMOPLAN_DB_SSLMODE", &cfg.Database.SSLMode)
	loadInt("HEMOPLAN_DB_MAX_CONNS", &cfg.Database.MaxConns)
	loadInt("HEMOPLAN_DB_MAX_IDLE", &cfg.Database.MaxIdle)
	loadString("HEMOPLAN_REDIS_ADDR", &cfg.Redis.Addr)
	loadString("HEMOPLAN_REDIS_PASSWORD", &cfg.Redis.Password)
	loadInt("HEMOPLAN_REDIS_DB", &cfg.Redis.DB)
	loadString("HEMOPLAN_SUPPLIER_URL", &cfg.Supplier.BaseURL)
	loadString("HEMOPLAN_SUPPLIER_API_KEY", &cfg.Supplier.APIKey)
	loadString("HEMOPLAN_LOG_LEVEL", &cfg.Log.Level)
	loadString("HEMOPLAN_LOG_FORMAT", &cfg.Log.Format)
	loadInt("HEMOPLAN_SCHEDULE_INTERVAL_HOURS", &cfg.Scheduler.IntervalHours)
	loadInt("HEMOPLAN_SCHEDULE_HORIZON_DAYS", &cfg.Scheduler.HorizonDays)
	loadString("HEMOPLAN_SCHEDULE_METHOD", &cfg.Scheduler.Method)

	if ttl := os.Getenv("HEMOPLAN_REDIS_TTL_MINUTES"); ttl != "" {
		var minutes int
		if _, err := fmt.Sscanf(ttl, "%d", &minutes); err == nil && minutes > 0 {
			cfg.Redis.TTL = time.Duration(minutes) * time.Minute
		}
	}
	return cfg
}

func loadString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func loadInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			*dst = n
		}
	}
}
