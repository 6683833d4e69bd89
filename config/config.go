package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Session  SessionConfig  `json:"session"`
	Admin    AdminConfig    `json:"admin"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port     string `json:"port"`
	LogLevel string `json:"log_level"`
}

// DatabaseConfig contains database-related configuration
type DatabaseConfig struct {
	Path string `json:"path"`
}

// SessionConfig contains session-cookie configuration. The secret key signs
// the cookie that carries the session token; it must come from deployment
// configuration, never from a literal in code.
type SessionConfig struct {
	SecretKey string `json:"secret_key"`
	Name      string `json:"name"`
	MaxAge    int    `json:"max_age"`
}

// AdminConfig identifies the single privileged account seeded at startup.
type AdminConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Load reads configuration from a JSON file, then applies environment
// overrides. A missing file is not an error; defaults are used. A .env file
// in the working directory is honored if present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logrus.Infof("Config file %s not found, using defaults", configPath)
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		logrus.Infof("Configuration loaded from %s", configPath)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     ":8080",
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Path: "./leavedesk.db",
		},
		Session: SessionConfig{
			SecretKey: "something-very-secret",
			Name:      "session-name",
			MaxAge:    86400, // 24 hours in seconds
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "admin",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", cfg.Server.LogLevel)
	cfg.Database.Path = getEnv("DATABASE_PATH", cfg.Database.Path)
	cfg.Session.SecretKey = getEnv("SESSION_SECRET", cfg.Session.SecretKey)
	cfg.Session.Name = getEnv("SESSION_NAME", cfg.Session.Name)
	cfg.Admin.Username = getEnv("ADMIN_USERNAME", cfg.Admin.Username)
	cfg.Admin.Password = getEnv("ADMIN_PASSWORD", cfg.Admin.Password)
}

// setDefaults fills any field an explicit config file left empty.
func setDefaults(cfg *Config) {
	defaults := defaultConfig()

	if cfg.Server.Port == "" {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = defaults.Server.LogLevel
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaults.Database.Path
	}
	if cfg.Session.SecretKey == "" {
		cfg.Session.SecretKey = defaults.Session.SecretKey
	}
	if cfg.Session.Name == "" {
		cfg.Session.Name = defaults.Session.Name
	}
	if cfg.Session.MaxAge == 0 {
		cfg.Session.MaxAge = defaults.Session.MaxAge
	}
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = defaults.Admin.Username
	}
	if cfg.Admin.Password == "" {
		cfg.Admin.Password = defaults.Admin.Password
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
