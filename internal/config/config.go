package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Curriculum sources
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	// Database is only dialed when the curriculum source is postgres
	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxIdleTime string `yaml:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME"`
		ConnectTimeout  string `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Session struct {
		TokenSecret string `yaml:"token_secret" env:"SESSION_TOKEN_SECRET"`
		TTL         string `yaml:"ttl" env:"SESSION_TTL"`
		Issuer      string `yaml:"issuer" env:"SESSION_ISSUER"`
	} `yaml:"session"`

	Curriculum struct {
		Source  string `yaml:"source" env:"CURRICULUM_SOURCE"`
		CSVPath string `yaml:"csv_path" env:"CURRICULUM_CSV_PATH"`
	} `yaml:"curriculum"`

	Grading struct {
		DefaultTarget float64 `yaml:"default_target" env:"GRADING_DEFAULT_TARGET"`
		YearQPIMode   string  `yaml:"year_qpi_mode" env:"GRADING_YEAR_QPI_MODE"`
	} `yaml:"grading"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A missing file is not an error; defaults and env vars still apply.
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

	if err := applyEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "qpidash"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 2
	config.Database.ConnMaxIdleTime = "1m"
	config.Database.ConnectTimeout = "10s"
	config.Database.MigrationsDir = "migrations"

	config.Session.TTL = "12h"
	config.Session.Issuer = "qpidash"

	config.Curriculum.Source = SourceCSV
	config.Curriculum.CSVPath = "data/curriculum.csv"

	config.Grading.DefaultTarget = 75.0
	config.Grading.YearQPIMode = "through_year"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Session.TokenSecret == "" {
		return fmt.Errorf("session token secret is required")
	}

	if _, err := time.ParseDuration(config.Session.TTL); err != nil {
		return fmt.Errorf("invalid session ttl format: %w", err)
	}

	switch strings.ToLower(config.Curriculum.Source) {
	case SourceCSV:
		if config.Curriculum.CSVPath == "" {
			return fmt.Errorf("curriculum csv path is required")
		}
	case SourcePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxIdleTime); err != nil {
			return fmt.Errorf("invalid database connection max idle time: %w", err)
		}
		if _, err := time.ParseDuration(config.Database.ConnectTimeout); err != nil {
			return fmt.Errorf("invalid database connect timeout: %w", err)
		}
	default:
		return fmt.Errorf("unknown curriculum source %q", config.Curriculum.Source)
	}

	if config.Grading.DefaultTarget < 65 || config.Grading.DefaultTarget > 100 {
		return fmt.Errorf("default target must be within 65-100, got %.2f", config.Grading.DefaultTarget)
	}

	return nil
}

// UsesPostgres reports whether the curriculum is read from the database
func (c *Config) UsesPostgres() bool {
	return strings.ToLower(c.Curriculum.Source) == SourcePostgres
}

// GetPostgresConnectionString returns postgres connection string
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
