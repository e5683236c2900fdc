package main

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
	"github.com/ruslano69/tdtp-rowreader/pkg/retry"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Query    QueryConfig    `yaml:"query,omitempty"`
	Retry    retry.Config   `yaml:"retry,omitempty"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Type        string `yaml:"type"`                   // sqlite, postgres, mssql, mysql, odbc
	DSN         string `yaml:"dsn,omitempty"`          // Full connection string, overrides the fields below
	Host        string `yaml:"host,omitempty"`         // For network databases
	Port        int    `yaml:"port,omitempty"`         // Database port
	Database    string `yaml:"database,omitempty"`     // Database name or file path
	User        string `yaml:"user,omitempty"`         // Username
	Password    string `yaml:"password,omitempty"`     // Password
	Schema      string `yaml:"schema,omitempty"`       // PostgreSQL search_path / MS SQL procedure schema
	WindowsAuth bool   `yaml:"windows_auth,omitempty"` // MS SQL Windows authentication
	SSLMode     string `yaml:"sslmode,omitempty"`      // PostgreSQL SSL mode
}

// QueryConfig contains query execution settings
type QueryConfig struct {
	Timeout  time.Duration `yaml:"timeout,omitempty"`   // e.g. 30s, 0 = no timeout
	MaxConns int           `yaml:"max_conns,omitempty"` // Pool size (PostgreSQL)
	MinConns int           `yaml:"min_conns,omitempty"`
	SafeMode bool          `yaml:"safe_mode,omitempty"` // Only SELECT/WITH statements
}

// LoadConfig loads configuration from YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{Retry: retry.DefaultConfig()}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Database.Type == "" {
		return nil, fmt.Errorf("database.type is required")
	}
	if err := config.Retry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry section: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to YAML file
func SaveConfig(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateSampleConfig creates sample configuration for different database types
func CreateSampleConfig(dbType string) (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			Type: dbType,
		},
		Query: QueryConfig{
			Timeout:  30 * time.Second,
			SafeMode: true,
		},
		Retry: retry.DefaultConfig(),
	}

	switch adapters.NormalizeType(dbType) {
	case "postgres":
		config.Database.Host = "localhost"
		config.Database.Port = 5432
		config.Database.Database = "mydb"
		config.Database.User = "postgres"
		config.Database.Password = "password"
		config.Database.Schema = "public"
		config.Database.SSLMode = "disable"
		config.Query.MaxConns = 10
		config.Query.MinConns = 2

	case "mssql":
		config.Database.Host = "localhost"
		config.Database.Port = 1433
		config.Database.Database = "mydb"
		config.Database.User = "sa"
		config.Database.Password = "YourPassword123"
		config.Database.Schema = "dbo"

	case "sqlite":
		config.Database.Database = "database.db"

	case "mysql":
		config.Database.Host = "localhost"
		config.Database.Port = 3306
		config.Database.Database = "mydb"
		config.Database.User = "root"
		config.Database.Password = "password"

	case "odbc":
		config.Database.DSN = "DSN=mydsn;UID=user;PWD=password"

	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	return config, nil
}

// BuildDSN constructs database connection string from config
func (c *DatabaseConfig) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}

	switch adapters.NormalizeType(c.Type) {
	case "postgres":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=%s",
			url.UserPassword(c.User, c.Password).String(), c.Host, c.Port, c.Database, sslMode)

	case "mssql":
		query := url.Values{}
		query.Set("database", c.Database)
		u := url.URL{Scheme: "sqlserver", Host: fmt.Sprintf("%s:%d", c.Host, c.Port)}
		if c.WindowsAuth {
			query.Set("integrated security", "SSPI")
		} else {
			u.User = url.UserPassword(c.User, c.Password)
		}
		u.RawQuery = query.Encode()
		return u.String()

	case "sqlite":
		return c.Database

	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			c.User, c.Password, c.Host, c.Port, c.Database)

	default:
		return ""
	}
}

// AdapterConfig builds adapters.Config from the file and command-line overrides
func (c *Config) AdapterConfig(flags *Flags) adapters.Config {
	cfg := adapters.Config{
		Type:     c.Database.Type,
		DSN:      c.Database.BuildDSN(),
		Schema:   c.Database.Schema,
		Timeout:  c.Query.Timeout,
		MaxConns: c.Query.MaxConns,
		MinConns: c.Query.MinConns,
		SafeMode: c.Query.SafeMode,
	}

	if flags != nil {
		if *flags.Safe {
			cfg.SafeMode = true
		}
		if *flags.Timeout > 0 {
			cfg.Timeout = *flags.Timeout
		}
	}
	return cfg
}
