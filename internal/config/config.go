package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Name            string `envconfig:"APP_NAME" default:"oascms"`
		DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"THB"`
		StatementDir    string `envconfig:"STATEMENT_DIR" default:"statements"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"json"`
	}

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
	}

	DB struct {
		Host        string `envconfig:"DB_HOST" default:"localhost"`
		Port        int    `envconfig:"DB_PORT" default:"5432"`
		User        string `envconfig:"DB_USER" default:"postgres"`
		Password    string `envconfig:"DB_PASSWORD" default:""`
		Name        string `envconfig:"DB_NAME" default:"oascms"`
		SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
		AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	}

	Redis struct {
		Addr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password  string `envconfig:"REDIS_PASSWORD" default:""`
		DB        int    `envconfig:"REDIS_DB" default:"0"`
		KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"oascms"`
	}

	Metrics struct {
		Textfile string `envconfig:"METRICS_TEXTFILE"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Driver {
	case DriverPostgres, DriverRedis, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return &cfg, nil
}
