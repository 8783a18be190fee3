package envconfig

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/ADCairex/dashboard-app/pkg/database"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host          string `envconfig:"HOST" default:"localhost"`
	Port          string `envconfig:"PORT" default:"8080"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD" default:""`
	Name            string        `envconfig:"DB_NAME" default:"dashboard"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"0"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"0"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"0"`
}

// LogConfig holds structured logging settings
type LogConfig struct {
	Level        string `envconfig:"LOG_LEVEL" default:"info"`
	Format       string `envconfig:"LOG_FORMAT" default:"json"`
	Output       string `envconfig:"LOG_OUTPUT" default:"stdout"`
	EnableCaller bool   `envconfig:"LOG_ENABLE_CALLER" default:"true"`
	Environment  string `envconfig:"ENVIRONMENT" default:"development"`
}

// AuthConfig holds the admin credential pair and session lifetime
type AuthConfig struct {
	AdminUser     string        `envconfig:"ADMIN_USER" default:"admin"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:""`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"30m"`
}

// Config aggregates all environment-driven application settings
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Auth     AuthConfig
}

// Load reads all configuration sections from the environment
func Load() (*Config, error) {
	var cfg Config
	for name, section := range map[string]interface{}{
		"server":   &cfg.Server,
		"database": &cfg.Database,
		"log":      &cfg.Log,
		"auth":     &cfg.Auth,
	} {
		if err := envconfig.Process("", section); err != nil {
			return nil, errors.Wrapf(err, "failed to process %s config", name)
		}
	}
	return &cfg, nil
}

// DatabaseConfig converts the env section into the database package's config
func (c *Config) DatabaseConfig() database.Config {
	dbConfig := database.DefaultConfig()

	dbConfig.Host = c.Database.Host
	dbConfig.Port = c.Database.Port
	dbConfig.User = c.Database.User
	dbConfig.Password = c.Database.Password
	dbConfig.DBName = c.Database.Name
	dbConfig.SSLMode = c.Database.SSLMode

	// Connection pool settings fall back to package defaults when unset
	if c.Database.MaxOpenConns > 0 {
		dbConfig.MaxOpenConns = c.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns > 0 {
		dbConfig.MaxIdleConns = c.Database.MaxIdleConns
	}
	if c.Database.ConnMaxLifetime > 0 {
		dbConfig.ConnMaxLifetime = c.Database.ConnMaxLifetime
	}
	if c.Database.ConnMaxIdleTime > 0 {
		dbConfig.ConnMaxIdleTime = c.Database.ConnMaxIdleTime
	}

	return dbConfig
}

// LoggerConfig converts the env section into the logger package's config
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:        logger.LogLevel(c.Log.Level),
		Format:       c.Log.Format,
		Output:       c.Log.Output,
		EnableCaller: c.Log.EnableCaller,
		Environment:  c.Log.Environment,
	}
}
