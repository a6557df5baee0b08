// Package config loads the application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	// Session verifies tokens minted by the external identity provider.
	// The secret must match the provider's signing key.
	Session struct {
		Secret          string `yaml:"secret" env:"SESSION_SECRET"`
		TokenExpiration string `yaml:"token_expiration" env:"SESSION_TOKEN_EXPIRATION"`
		Issuer          string `yaml:"issuer" env:"SESSION_ISSUER"`
	} `yaml:"session"`

	Cache struct {
		FeedTTL string `yaml:"feed_ttl" env:"CACHE_FEED_TTL"`
	} `yaml:"cache"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATELIMIT_RPS"`
		Burst             int     `yaml:"burst" env:"RATELIMIT_BURST"`
	} `yaml:"rate_limit"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig reads configPath if it exists, applies env overrides, and
// validates the result. A missing file is not an error; defaults plus env
// are enough to run.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "./media"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "inkwell"
	config.Database.SSLMode = "disable"
	config.Database.MaxConns = 20
	config.Database.MinConns = 2
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "./migrations"

	config.Session.TokenExpiration = "24h"
	config.Session.Issuer = "inkwell.app"

	config.Cache.FeedTTL = "20s"

	config.RateLimit.RequestsPerSecond = 20
	config.RateLimit.Burst = 40

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if _, err := time.ParseDuration(config.Session.TokenExpiration); err != nil {
		return fmt.Errorf("invalid session token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.Cache.FeedTTL); err != nil {
		return fmt.Errorf("invalid feed cache TTL format: %w", err)
	}
	if config.RateLimit.RequestsPerSecond <= 0 || config.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit values must be positive")
	}
	return nil
}

// FeedCacheTTL returns the parsed feed cache lifetime. Call after
// LoadConfig; validation guarantees the format.
func (c *Config) FeedCacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.FeedTTL)
	return d
}

// SessionTokenExpiration returns the parsed session token lifetime.
func (c *Config) SessionTokenExpiration() time.Duration {
	d, _ := time.ParseDuration(c.Session.TokenExpiration)
	return d
}

// GetPostgresConnectionString builds the pgx connection URL.
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
