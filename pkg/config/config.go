package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port   string
	Env    string // development, staging, production
	Server ServerConfig

	// Price store (optional, only the "db" source and the refresh job need it)
	Database DatabaseConfig

	// Price cache
	Redis RedisConfig

	// Market data providers
	Yahoo      YahooConfig
	Naver      NaverConfig
	HTTPClient HTTPClientConfig

	// Analysis defaults
	Analysis AnalysisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a price store is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	PriceTTL time.Duration // TTL of cached price series
}

// YahooConfig holds Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL string
}

// NaverConfig holds Naver Finance configuration
type NaverConfig struct {
	BaseURL  string
	ChartURL string
}

// HTTPClientConfig holds outbound HTTP settings shared by all providers
type HTTPClientConfig struct {
	Timeout        time.Duration
	RateLimitPerS  float64
	RateLimitBurst int
	MaxRetries     int
}

// ServerConfig holds the HTTP API timeouts
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration // covers remote price fetches of one analysis
	ShutdownTimeout time.Duration
}

// AnalysisConfig holds the default analysis parameters
type AnalysisConfig struct {
	PeriodsPerYear  int
	RiskFreeAnnual  float64
	ConfidenceLevel float64
	ProfilePath     string // YAML profile; empty means the built-in profile
	RefreshSchedule string // cron expression for the price refresh job
	RefreshPeriod   string // period fetched by the refresh job
	WarmSchedule    string // cron expression for the cache warm-up job
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Server: ServerConfig{
			ReadTimeout:     getEnvAsDuration("API_READ_TIMEOUT", "15s"),
			WriteTimeout:    getEnvAsDuration("API_WRITE_TIMEOUT", "60s"),
			ShutdownTimeout: getEnvAsDuration("API_SHUTDOWN_TIMEOUT", "30s"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			PriceTTL: getEnvAsDuration("PRICE_CACHE_TTL", "6h"),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		},

		Naver: NaverConfig{
			BaseURL:  getEnv("NAVER_BASE_URL", "https://finance.naver.com"),
			ChartURL: getEnv("NAVER_CHART_URL", "https://fchart.stock.naver.com"),
		},

		HTTPClient: HTTPClientConfig{
			Timeout:        getEnvAsDuration("HTTP_TIMEOUT", "30s"),
			RateLimitPerS:  getEnvAsFloat("HTTP_RATE_LIMIT_PER_SEC", 5),
			RateLimitBurst: getEnvAsInt("HTTP_RATE_LIMIT_BURST", 5),
			MaxRetries:     getEnvAsInt("HTTP_MAX_RETRIES", 3),
		},

		Analysis: AnalysisConfig{
			PeriodsPerYear:  getEnvAsInt("ANALYSIS_PERIODS_PER_YEAR", 252),
			RiskFreeAnnual:  getEnvAsFloat("ANALYSIS_RISK_FREE_ANNUAL", 0.02),
			ConfidenceLevel: getEnvAsFloat("ANALYSIS_CONFIDENCE", 0.95),
			ProfilePath:     getEnv("ANALYSIS_PROFILE", ""),
			RefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "0 30 22 * * 1-5"),
			RefreshPeriod:   getEnv("PRICE_REFRESH_PERIOD", "1y"),
			WarmSchedule:    getEnv("CACHE_WARM_SCHEDULE", "0 0 7 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration values that would otherwise fail deep inside a run
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.PeriodsPerYear <= 0 {
		return fmt.Errorf("ANALYSIS_PERIODS_PER_YEAR must be > 0, got %d", c.Analysis.PeriodsPerYear)
	}
	if c.Analysis.ConfidenceLevel <= 0 || c.Analysis.ConfidenceLevel >= 1 {
		return fmt.Errorf("ANALYSIS_CONFIDENCE must be between 0 and 1, got %v", c.Analysis.ConfidenceLevel)
	}
	if math.IsNaN(c.Analysis.RiskFreeAnnual) || math.IsInf(c.Analysis.RiskFreeAnnual, 0) {
		return fmt.Errorf("ANALYSIS_RISK_FREE_ANNUAL must be finite")
	}
	if c.HTTPClient.RateLimitPerS <= 0 {
		return fmt.Errorf("HTTP_RATE_LIMIT_PER_SEC must be > 0")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
