package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/internlog/server/internal/auth"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Database       DatabaseConfig       `yaml:"database"`
	Auth           AuthConfig           `yaml:"auth"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	CORS           CORSConfig           `yaml:"cors"`
	Logging        LoggingConfig        `yaml:"logging"`
	Tracing        TracingConfig        `yaml:"tracing"`
	AdminBootstrap AdminBootstrapConfig `yaml:"admin_bootstrap"`
	Environment    string               `yaml:"environment"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type DatabaseConfig struct {
	URL            string `yaml:"url"`
	MaxConnections int    `yaml:"max_connections"`
	MinConnections int    `yaml:"min_connections"`
	MigrationsPath string `yaml:"migrations_path"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	JWTExpiry  time.Duration `yaml:"jwt_expiry"`
	JWTIssuer  string        `yaml:"jwt_issuer"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

// UsingDefaultSecret reports whether tokens are signed with the built-in development secret.
func (a AuthConfig) UsingDefaultSecret() bool {
	return a.JWTSecret == auth.InsecureDefaultSecret
}

type RateLimitConfig struct {
	PublicPerMinute   int      `yaml:"public_per_minute"`
	LoginPer15Minutes int      `yaml:"login_per_15_minutes"`
	TrustedProxyCIDRs []string `yaml:"trusted_proxy_cidrs"`
}

type CORSConfig struct {
	AllowedOrigins  []string `yaml:"allowed_origins"`
	AllowAllOrigins bool     `yaml:"allow_all_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

type AdminBootstrapConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Enabled reports whether an admin account should be ensured at startup.
func (a AdminBootstrapConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Defaults returns the configuration used when neither a file nor the environment say otherwise.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    5000,
			BaseURL: "http://localhost:5000",
		},
		Database: DatabaseConfig{
			MaxConnections: 25,
			MinConnections: 2,
			MigrationsPath: "internal/storage/postgres/migrations",
			AutoMigrate:    true,
		},
		Auth: AuthConfig{
			JWTExpiry:  auth.DefaultTokenExpiry,
			JWTIssuer:  "internlog",
			BcryptCost: auth.DefaultBcryptCost,
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute:   120,
			LoginPer15Minutes: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Exporter:    "stdout",
			ServiceName: "internlog",
			SampleRate:  1.0,
		},
		AdminBootstrap: AdminBootstrapConfig{
			Name: "Administrator",
		},
		Environment: "development",
	}
}

// Load reads configuration from the environment only.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile reads an optional YAML file over the defaults, then applies environment overrides.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "PORT")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.BaseURL, "SERVER_BASE_URL")

	setString(&cfg.Database.URL, "DATABASE_URL")
	setInt(&cfg.Database.MaxConnections, "DATABASE_MAX_CONNECTIONS")
	setInt(&cfg.Database.MinConnections, "DATABASE_MIN_CONNECTIONS")
	setString(&cfg.Database.MigrationsPath, "MIGRATIONS_PATH")
	setBool(&cfg.Database.AutoMigrate, "DATABASE_AUTO_MIGRATE")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	if hours := getEnvInt("JWT_EXPIRY_HOURS", 0); hours > 0 {
		cfg.Auth.JWTExpiry = time.Duration(hours) * time.Hour
	}
	setString(&cfg.Auth.JWTIssuer, "JWT_ISSUER")
	setInt(&cfg.Auth.BcryptCost, "BCRYPT_COST")

	setInt(&cfg.RateLimit.PublicPerMinute, "RATE_LIMIT_PUBLIC")
	setInt(&cfg.RateLimit.LoginPer15Minutes, "RATE_LIMIT_LOGIN")
	setList(&cfg.RateLimit.TrustedProxyCIDRs, "TRUSTED_PROXY_CIDRS")

	setList(&cfg.CORS.AllowedOrigins, "CORS_ALLOWED_ORIGINS")
	setBool(&cfg.CORS.AllowAllOrigins, "CORS_ALLOW_ALL_ORIGINS")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")

	setBool(&cfg.Tracing.Enabled, "TRACING_ENABLED")
	setString(&cfg.Tracing.Exporter, "TRACING_EXPORTER")
	setString(&cfg.Tracing.ServiceName, "OTEL_SERVICE_NAME")
	setString(&cfg.Tracing.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setFloat(&cfg.Tracing.SampleRate, "TRACING_SAMPLE_RATE")

	setString(&cfg.AdminBootstrap.Name, "ADMIN_NAME")
	setString(&cfg.AdminBootstrap.Email, "ADMIN_EMAIL")
	setString(&cfg.AdminBootstrap.Password, "ADMIN_PASSWORD")

	setString(&cfg.Environment, "ENVIRONMENT")
}

// finalize fills derived defaults and rejects unusable combinations.
func (c *Config) finalize() error {
	var errs []error

	if c.Database.URL == "" {
		errs = append(errs, fmt.Errorf("DATABASE_URL is required"))
	}

	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			errs = append(errs, fmt.Errorf("JWT_SECRET is required in production"))
		}
		c.Auth.JWTSecret = auth.InsecureDefaultSecret
	} else if c.IsProduction() && c.Auth.JWTSecret == auth.InsecureDefaultSecret {
		errs = append(errs, fmt.Errorf("JWT_SECRET must not be the development default in production"))
	}

	if c.Auth.JWTExpiry <= 0 {
		c.Auth.JWTExpiry = auth.DefaultTokenExpiry
	}

	if !c.IsProduction() && len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowAllOrigins = true
	}
	if c.IsProduction() && !c.CORS.AllowAllOrigins && len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS is required in production (or set CORS_ALLOW_ALL_ORIGINS=true)"))
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("TRACING_SAMPLE_RATE must be between 0 and 1"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func setString(dst *string, key string) {
	*dst = getEnv(key, *dst)
}

func setInt(dst *int, key string) {
	*dst = getEnvInt(key, *dst)
}

func setBool(dst *bool, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*dst = parsed
		}
	}
}

func setList(dst *[]string, key string) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
