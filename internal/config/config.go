package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIToken = "dev-token"
	defaultGRPCAddr = ":8080"
	defaultHTTPAddr = ":3000"
)

// Config holds the runtime settings of the server
type Config struct {
	Environment string
	LogLevel    string

	GRPCAddr string
	HTTPAddr string
	APIToken string

	RedisAddr     string // empty disables the outcome cache
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// gRPC token bucket
	RateLimitPerSecond int
	RateLimitBurst     int

	// HTTP limiter window
	HTTPRequestsPerMinute int

	MunicipalitiesFile string // empty uses the embedded catalog
	ShutdownTimeout    time.Duration

	// OTLP gRPC collector; empty keeps telemetry in-process
	OTELEndpoint string
}

// LoadEnv loads variables from a .env file if present.
// A missing file is not an error.
func LoadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Load builds the configuration from the environment
func Load() *Config {
	return &Config{
		Environment:           GetEnv("ENV", "development"),
		LogLevel:              GetEnv("LOG_LEVEL", "info"),
		GRPCAddr:              GetEnv("GRPC_ADDR", defaultGRPCAddr),
		HTTPAddr:              GetEnv("HTTP_ADDR", defaultHTTPAddr),
		APIToken:              GetEnv("API_TOKEN", defaultAPIToken),
		RedisAddr:             GetEnv("REDIS_ADDR", ""),
		RedisPassword:         GetEnv("REDIS_PASSWORD", ""),
		RedisDB:               GetIntEnv("REDIS_DB", 0),
		CacheTTL:              GetDurationEnv("CACHE_TTL", 24*time.Hour),
		RateLimitPerSecond:    GetIntEnv("GRPC_RATE_LIMIT", 50),
		RateLimitBurst:        GetIntEnv("GRPC_RATE_BURST", 100),
		HTTPRequestsPerMinute: GetIntEnv("HTTP_RATE_LIMIT", 120),
		MunicipalitiesFile:    GetEnv("MUNICIPALITIES_FILE", ""),
		ShutdownTimeout:       GetDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
		OTELEndpoint:          GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv parses a duration such as "90s" or "24h", falling back to defaultVal.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil && d >= 0 {
			return d
		}
	}
	return defaultVal
}
