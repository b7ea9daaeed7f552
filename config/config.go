package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yaml"

type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Weather WeatherConfig `yaml:"weather"`
	Log     LogConfig     `yaml:"log"`
	Sentry  SentryConfig  `yaml:"sentry"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"APP_NAME"`
	Version string `yaml:"version" envconfig:"APP_VERSION"`
	Env     string `yaml:"env" envconfig:"APP_ENV"`
}

type ServerConfig struct {
	Port            int `yaml:"port" envconfig:"HTTP_PORT"`
	ShutdownTimeout int `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"` // seconds
}

type WeatherConfig struct {
	APIKey       string `yaml:"-" envconfig:"WEATHER_API_KEY"`
	ForecastURL  string `yaml:"forecast_url" envconfig:"WEATHER_API_URL"`
	GeocodingURL string `yaml:"geocoding_url" envconfig:"GEOCODING_API_URL"`
	Timeout      int    `yaml:"timeout" envconfig:"WEATHER_API_TIMEOUT"` // seconds
}

type LogConfig struct {
	Level string `yaml:"level" envconfig:"LOG_LEVEL"`
}

type SentryConfig struct {
	DSN string `yaml:"dsn" envconfig:"SENTRY_DSN"`
}

// Provider loads and validates a Config from some source.
type Provider interface {
	Load() (*Config, error)
	Validate(cnf *Config) error
}

// FileConfigProvider reads an optional YAML file and overrides it with
// environment variables.
type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	var cnf Config

	if yamlData, err := os.ReadFile(p.path); err == nil {
		if err := yaml.Unmarshal(yamlData, &cnf); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", p.path, err)
		}
	}

	if err := envconfig.Process("", &cnf); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	cnf.applyDefaults()

	return &cnf, nil
}

func (p *FileConfigProvider) Validate(cnf *Config) error {
	if cnf.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if strings.TrimSpace(cnf.Weather.APIKey) == "" {
		return fmt.Errorf("WEATHER_API_KEY is required and must be non-empty")
	}
	if cnf.Server.Port <= 0 || cnf.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be a positive integer below 65536, got %d", cnf.Server.Port)
	}
	if cnf.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive number of seconds, got %d", cnf.Server.ShutdownTimeout)
	}
	if cnf.Weather.Timeout <= 0 {
		return fmt.Errorf("WEATHER_API_TIMEOUT must be a positive number of seconds, got %d", cnf.Weather.Timeout)
	}
	return nil
}

func NewConfigWithProvider(p Provider) (*Config, error) {
	cnf, err := p.Load()
	if err != nil {
		return nil, err
	}

	if err := p.Validate(cnf); err != nil {
		return nil, err
	}

	return cnf, nil
}

func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider(defaultConfigPath))
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "weather-mcp"
	}
	if c.App.Version == "" {
		c.App.Version = "1.0.0"
	}
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Weather.ForecastURL == "" {
		c.Weather.ForecastURL = "https://api.openweathermap.org/data/2.5/forecast"
	}
	if c.Weather.GeocodingURL == "" {
		c.Weather.GeocodingURL = "https://api.openweathermap.org/geo/1.0/direct"
	}
	if c.Weather.Timeout == 0 {
		c.Weather.Timeout = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (s *ServerConfig) Addr() string {
	return ":" + strconv.Itoa(s.Port)
}
