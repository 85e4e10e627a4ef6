package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvProduction  = "production"
	EnvStaging     = "staging"
	EnvDevelopment = "development"
)

type Config struct {
	Environment  string
	RegistryFile string

	Cache
	Server
	Logging
	Gateways
	Export
}

type Cache struct {
	Host     string
	Port     string
	Password string
	PoolSize int
}

type Server struct {
	Port           string
	PaymentTimeout time.Duration
}

type Logging struct {
	Level  string
	Format string
}

type Gateways struct {
	CardURL          string
	CardSecret       string
	HostedURL        string
	HostedMerchantID string
	HostedSecret     string
	RedirectURL      string
	RedirectEnabled  bool
}

type Export struct {
	Enabled  bool
	Backend  string
	Endpoint string
	Token    string
	Timeout  time.Duration
}

func NewConfig() *Config {
	env := getEnvString("APP_ENV", EnvDevelopment)
	production := env == EnvProduction

	return &Config{
		Environment:  env,
		RegistryFile: getEnvString("REGISTRY_FILE", ""),
		Cache: Cache{
			Host:     getEnvString("CACHE_HOST", "localhost"),
			Port:     getEnvString("CACHE_PORT", "6379"),
			Password: getEnvString("CACHE_PASSWORD", ""),
			PoolSize: getEnvInt("CACHE_POOL_SIZE", 20),
		},
		Server: Server{
			Port:           getEnvString("SERVER_PORT", "8080"),
			PaymentTimeout: getEnvDuration("PAYMENT_TIMEOUT", 10*time.Second),
		},
		Logging: Logging{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		Gateways: Gateways{
			CardURL:          getEnvString("CARD_GATEWAY_URL", "http://localhost:8081"),
			CardSecret:       getEnvString("CARD_GATEWAY_SECRET", ""),
			HostedURL:        getEnvString("HOSTED_GATEWAY_URL", "http://localhost:8082"),
			HostedMerchantID: getEnvString("HOSTED_GATEWAY_MERCHANT_ID", ""),
			HostedSecret:     getEnvString("HOSTED_GATEWAY_SECRET", ""),
			RedirectURL:      getEnvString("REDIRECT_GATEWAY_URL", "http://localhost:8083"),
			RedirectEnabled:  getEnvBool("REDIRECT_GATEWAY_ENABLED", !production),
		},
		Export: Export{
			Enabled:  getEnvBool("EXPORT_ENABLED", true),
			Backend:  getEnvString("EXPORT_BACKEND", "redis"),
			Endpoint: getEnvString("EXPORT_ENDPOINT", ""),
			Token:    getEnvString("EXPORT_TOKEN", ""),
			Timeout:  getEnvDuration("EXPORT_TIMEOUT", 5*time.Second),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// TestProviderEnabled reports whether the fake gateway may be registered.
func (c *Config) TestProviderEnabled() bool {
	return !c.IsProduction()
}

// Warnings lists settings that are allowed but deserve operator attention.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.IsProduction() && c.Gateways.RedirectEnabled {
		warnings = append(warnings, "redirect gateway enabled in production: its payments are reported as pending_redirect without gateway authorization")
	}

	return warnings
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case EnvProduction, EnvStaging, EnvDevelopment:
	default:
		errs = append(errs, fmt.Errorf("unknown APP_ENV %q", c.Environment))
	}

	switch c.Export.Backend {
	case "redis", "http":
	default:
		errs = append(errs, fmt.Errorf("unknown EXPORT_BACKEND %q", c.Export.Backend))
	}

	if c.Cache.PoolSize <= 0 {
		errs = append(errs, errors.New("CACHE_POOL_SIZE must be positive"))
	}
	if c.Server.PaymentTimeout <= 0 {
		errs = append(errs, errors.New("PAYMENT_TIMEOUT must be positive"))
	}
	if c.Export.Timeout <= 0 {
		errs = append(errs, errors.New("EXPORT_TIMEOUT must be positive"))
	}

	if c.IsProduction() && c.Export.Enabled && c.Export.Backend == "http" && (c.Export.Endpoint == "" || c.Export.Token == "") {
		errs = append(errs, errors.New("production export requires EXPORT_ENDPOINT and EXPORT_TOKEN"))
	}

	return errors.Join(errs...)
}

func getEnvString(key string, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", value),
			slog.Int("default", defaultValue))
		return defaultValue
	}

	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid boolean value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", value),
			slog.Bool("default", defaultValue))
		return defaultValue
	}

	return boolValue
}

// getEnvDuration accepts Go durations ("5s") or a plain number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	slog.Warn("invalid duration value for environment variable, using default",
		slog.String("key", key),
		slog.String("value", value),
		slog.String("default", defaultValue.String()))
	return defaultValue
}
