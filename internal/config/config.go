package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	EBay     EBayConfig
	Scraper  ScraperConfig
	Currency CurrencyConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type EBayConfig struct {
	AppID    string
	Token    string
	Endpoint string
	Timeout  time.Duration
}

type ScraperConfig struct {
	BaseURL    string
	MinDelay   time.Duration
	MaxDelay   time.Duration
	Timeout    time.Duration
	UserAgents []string
}

type CurrencyConfig struct {
	Endpoint string
	CacheTTL time.Duration
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxConns int32
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		EBay: EBayConfig{
			AppID:    getEnvOrDefault("EBAY_APP_ID", "your_app_id_here"),
			Token:    getEnvOrDefault("EBAY_OAUTH_TOKEN", ""),
			Endpoint: getEnvOrDefault("EBAY_BROWSE_ENDPOINT", "https://api.ebay.com/buy/browse/v1"),
			Timeout:  getDurationOrDefault("EBAY_API_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			BaseURL:    getEnvOrDefault("SCRAPER_BASE_URL", "https://www.ebay.com"),
			MinDelay:   getDurationOrDefault("SCRAPER_MIN_DELAY", 1*time.Second),
			MaxDelay:   getDurationOrDefault("SCRAPER_MAX_DELAY", 3*time.Second),
			Timeout:    getDurationOrDefault("SCRAPER_TIMEOUT", 15*time.Second),
			UserAgents: getStringSliceOrDefault("SCRAPER_USER_AGENTS", nil),
		},
		Currency: CurrencyConfig{
			Endpoint: getEnvOrDefault("CURRENCY_API_ENDPOINT", "https://api.exchangerate.host/latest"),
			CacheTTL: getDurationOrDefault("CURRENCY_CACHE_TTL", time.Hour),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolOrDefault("DB_ENABLED", false),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "profit_calculator"),
			MaxConns: int32(getIntOrDefault("DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Enabled:  getBoolOrDefault("REDIS_ENABLED", false),
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.MinDelay > c.Scraper.MaxDelay {
		return fmt.Errorf("SCRAPER_MIN_DELAY cannot be greater than SCRAPER_MAX_DELAY")
	}

	if c.Currency.CacheTTL <= 0 {
		return fmt.Errorf("CURRENCY_CACHE_TTL must be positive")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
