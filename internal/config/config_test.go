package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/internlog/server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"SERVER_HOST", "PORT", "SERVER_PORT", "SERVER_BASE_URL",
	"DATABASE_URL", "DATABASE_MAX_CONNECTIONS", "DATABASE_MIN_CONNECTIONS", "MIGRATIONS_PATH", "DATABASE_AUTO_MIGRATE",
	"JWT_SECRET", "JWT_EXPIRY_HOURS", "JWT_ISSUER", "BCRYPT_COST",
	"RATE_LIMIT_PUBLIC", "RATE_LIMIT_LOGIN", "TRUSTED_PROXY_CIDRS",
	"CORS_ALLOWED_ORIGINS", "CORS_ALLOW_ALL_ORIGINS",
	"LOG_LEVEL", "LOG_FORMAT",
	"TRACING_ENABLED", "TRACING_EXPORTER", "OTEL_SERVICE_NAME", "OTEL_EXPORTER_OTLP_ENDPOINT", "TRACING_SAMPLE_RATE",
	"ADMIN_NAME", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	"ENVIRONMENT",
}

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/internlog")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, auth.DefaultTokenExpiry, cfg.Auth.JWTExpiry)
	assert.Equal(t, auth.DefaultBcryptCost, cfg.Auth.BcryptCost)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.CORS.AllowAllOrigins)
	assert.False(t, cfg.AdminBootstrap.Enabled())
}

func TestLoad_DefaultSecretOutsideProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/internlog")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, auth.InsecureDefaultSecret, cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.UsingDefaultSecret())
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Production(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DATABASE_URL", "postgres://db/internlog")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.edu")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("default secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DATABASE_URL", "postgres://db/internlog")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.edu")
		t.Setenv("JWT_SECRET", auth.InsecureDefaultSecret)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("missing cors origins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DATABASE_URL", "postgres://db/internlog")
		t.Setenv("JWT_SECRET", "12345678901234567890123456789012")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CORS_ALLOWED_ORIGINS")
	})

	t.Run("valid", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DATABASE_URL", "postgres://db/internlog")
		t.Setenv("JWT_SECRET", "12345678901234567890123456789012")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.edu, https://admin.example.edu")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Auth.UsingDefaultSecret())
		assert.False(t, cfg.CORS.AllowAllOrigins)
		assert.Equal(t, []string{"https://app.example.edu", "https://admin.example.edu"}, cfg.CORS.AllowedOrigins)
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/internlog")
	t.Setenv("PORT", "7000")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("DATABASE_AUTO_MIGRATE", "false")
	t.Setenv("TRUSTED_PROXY_CIDRS", "10.0.0.0/8,")
	t.Setenv("TRACING_SAMPLE_RATE", "0.25")
	t.Setenv("ADMIN_EMAIL", "root@example.edu")
	t.Setenv("ADMIN_PASSWORD", "change-me")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTExpiry)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.RateLimit.TrustedProxyCIDRs)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRate, 1e-9)
	assert.True(t, cfg.AdminBootstrap.Enabled())
}

func TestLoad_InvalidSampleRate(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/internlog")
	t.Setenv("TRACING_SAMPLE_RATE", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRACING_SAMPLE_RATE")
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "internlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
database:
  url: postgres://file/internlog
auth:
  jwt_expiry: 48h
  jwt_issuer: campus
logging:
  level: debug
`), 0o600))

	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, "postgres://file/internlog", cfg.Database.URL)
	assert.Equal(t, 48*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, "campus", cfg.Auth.JWTIssuer)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 25, cfg.Database.MaxConnections, "unset keys keep defaults")
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [unclosed"), 0o600))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "parse config file")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("k", "v").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "internlog", entry["service"])
	assert.Equal(t, "v", entry["k"])
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggingConfig{Level: "loud"}, &buf)
	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	logger.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}
