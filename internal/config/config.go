package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port              string `yaml:"port" env:"SERVER_PORT"`
		Mode              string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout       string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout      string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout   string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
		PostLoginRedirect string `yaml:"post_login_redirect" env:"SERVER_POST_LOGIN_REDIRECT"`
	} `yaml:"server"`

	// AuthAPI points at the backend that authenticates credentials and
	// returns the current user.
	AuthAPI struct {
		BaseURL   string `yaml:"base_url" env:"AUTH_API_BASE_URL"`
		LoginPath string `yaml:"login_path" env:"AUTH_API_LOGIN_PATH"`
		UserPath  string `yaml:"user_path" env:"AUTH_API_USER_PATH"`
		Timeout   string `yaml:"timeout" env:"AUTH_API_TIMEOUT"`
	} `yaml:"auth_api"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) into the process environment. Missing files are ignored and
// variables already set are never overwritten.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional, defaults and env vars are enough to run
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(config, os.LookupEnv); err != nil {
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
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.ShutdownTimeout = "10s"
	config.Server.PostLoginRedirect = "/"

	config.AuthAPI.BaseURL = "http://localhost:3000"
	config.AuthAPI.LoginPath = "/api/auth/login"
	config.AuthAPI.UserPath = "/api/auth/user"
	config.AuthAPI.Timeout = "5s"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if !strings.HasPrefix(config.Server.PostLoginRedirect, "/") || strings.HasPrefix(config.Server.PostLoginRedirect, "//") {
		return fmt.Errorf("post-login redirect must be a local path, got %q", config.Server.PostLoginRedirect)
	}

	for name, value := range map[string]string{
		"server read timeout":     config.Server.ReadTimeout,
		"server write timeout":    config.Server.WriteTimeout,
		"server shutdown timeout": config.Server.ShutdownTimeout,
		"auth API timeout":        config.AuthAPI.Timeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.AuthAPI.BaseURL == "" {
		return fmt.Errorf("auth API base URL is required")
	}
	base, err := url.Parse(config.AuthAPI.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid auth API base URL: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return fmt.Errorf("auth API base URL must be an absolute http(s) URL, got %q", config.AuthAPI.BaseURL)
	}

	if !strings.HasPrefix(config.AuthAPI.LoginPath, "/") {
		return fmt.Errorf("auth API login path must start with '/'")
	}
	if !strings.HasPrefix(config.AuthAPI.UserPath, "/") {
		return fmt.Errorf("auth API user path must start with '/'")
	}

	if config.Metrics.Enabled && !strings.HasPrefix(config.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/'")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
