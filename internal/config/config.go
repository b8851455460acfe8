package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers selectable through STORE_DRIVER.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Finviz"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Currency string `envconfig:"CURRENCY" default:"INR"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Store struct {
		Driver      string `envconfig:"STORE_DRIVER" default:"postgres"`
		AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"finviz"`
	}

	SQLite struct {
		Path string `envconfig:"SQLITE_PATH" default:"./data/finviz.db"`
	}

	Mongo struct {
		URI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		Database string `envconfig:"MONGO_DATABASE" default:"personal-finance"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"finviz"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Driver {
	case StorePostgres, StoreSQLite, StoreMongo, StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return &cfg, nil
}
