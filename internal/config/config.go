package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSON     = "json"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

type StorageConfig struct {
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	JSONPath   string         `yaml:"json_path"`
	Postgres   DatabaseConfig `yaml:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// SlogLevel maps log.level to a slog.Level. Unknown values mean info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads config from a YAML file, applies defaults, then environment
// variable overrides. Env vars use the prefix TRAINLOAD_:
//
//	TRAINLOAD_SERVER_HOST, TRAINLOAD_SERVER_PORT, TRAINLOAD_STATIC_DIR,
//	TRAINLOAD_STORAGE_DRIVER, TRAINLOAD_SQLITE_PATH, TRAINLOAD_JSON_PATH,
//	TRAINLOAD_DB_HOST, TRAINLOAD_DB_PORT, TRAINLOAD_DB_NAME,
//	TRAINLOAD_DB_USER, TRAINLOAD_DB_PASSWORD, TRAINLOAD_DB_SSLMODE,
//	TRAINLOAD_TAILSCALE_ENABLED, TRAINLOAD_TAILSCALE_HOSTNAME,
//	TRAINLOAD_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 3000},
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: "data/trainload.db",
			JSONPath:   "data/trainload.json",
			Postgres:   DatabaseConfig{Port: 5432},
		},
		Tailscale: TailscaleConfig{Hostname: "trainload", StateDir: "tsnet-state"},
		Log:       LogConfig{Level: "info"},
	}
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("TRAINLOAD_SERVER_HOST", &cfg.Server.Host)
	setInt("TRAINLOAD_SERVER_PORT", &cfg.Server.Port)
	setString("TRAINLOAD_STATIC_DIR", &cfg.Server.StaticDir)
	setString("TRAINLOAD_STORAGE_DRIVER", &cfg.Storage.Driver)
	setString("TRAINLOAD_SQLITE_PATH", &cfg.Storage.SQLitePath)
	setString("TRAINLOAD_JSON_PATH", &cfg.Storage.JSONPath)
	setString("TRAINLOAD_DB_HOST", &cfg.Storage.Postgres.Host)
	setInt("TRAINLOAD_DB_PORT", &cfg.Storage.Postgres.Port)
	setString("TRAINLOAD_DB_NAME", &cfg.Storage.Postgres.Name)
	setString("TRAINLOAD_DB_USER", &cfg.Storage.Postgres.User)
	setString("TRAINLOAD_DB_PASSWORD", &cfg.Storage.Postgres.Password)
	setString("TRAINLOAD_DB_SSLMODE", &cfg.Storage.Postgres.SSLMode)
	setString("TRAINLOAD_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	setString("TRAINLOAD_LOG_LEVEL", &cfg.Log.Level)

	if v := os.Getenv("TRAINLOAD_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required")
		}
	case DriverJSON:
		if c.Storage.JSONPath == "" {
			return fmt.Errorf("storage.json_path is required")
		}
	case DriverPostgres:
		pg := c.Storage.Postgres
		if pg.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if pg.Port == 0 {
			return fmt.Errorf("storage.postgres.port is required")
		}
		if pg.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if pg.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	default:
		return fmt.Errorf("storage.driver must be one of sqlite, postgres, json (got %q)", c.Storage.Driver)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
