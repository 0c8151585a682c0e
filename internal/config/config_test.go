package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "GRPC_ADDR", "HTTP_ADDR", "API_TOKEN", "REDIS_ADDR", "CACHE_TTL", "MUNICIPALITIES_FILE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.GRPCAddr)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, "dev-token", cfg.APIToken)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Empty(t, cfg.MunicipalitiesFile)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("GRPC_ADDR", ":9090")
	t.Setenv("API_TOKEN", "s3cret")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("HTTP_RATE_LIMIT", "10")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, "s3cret", cfg.APIToken)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.HTTPRequestsPerMinute)
}

func TestGetIntEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{name: "Valid", value: "42", expected: 42},
		{name: "Not a number", value: "forty-two", expected: 7},
		{name: "Empty", value: "", expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			assert.Equal(t, tt.expected, GetIntEnv("TEST_INT", 7))
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "Valid", value: "90s", expected: 90 * time.Second},
		{name: "Garbage", value: "soon", expected: time.Minute},
		{name: "Negative", value: "-5s", expected: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.expected, GetDurationEnv("TEST_DURATION", time.Minute))
		})
	}
}

func TestLoadEnv(t *testing.T) {
	t.Run("Missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("Reads variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("PLUSVALIA_TEST_TOKEN=from-dotenv\n"), 0o600))
		t.Setenv("PLUSVALIA_TEST_TOKEN", "")
		require.NoError(t, os.Unsetenv("PLUSVALIA_TEST_TOKEN"))

		require.NoError(t, LoadEnv(path))

		assert.Equal(t, "from-dotenv", GetEnv("PLUSVALIA_TEST_TOKEN", ""))
	})
}
