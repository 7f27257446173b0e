package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"` // "postgres" or "sqlite"
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Providers struct {
		LMStudioBaseURL string `yaml:"lmstudio_base_url"`
		OllamaBaseURL   string `yaml:"ollama_base_url"`
	} `yaml:"providers"`
	Settings struct {
		EnvFile string `yaml:"env_file"`
	} `yaml:"settings"`
}

// LoadConfig reads and parses the YAML configuration file
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("server.port must be between 1 and 65535")
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("database.driver must be postgres or sqlite, got %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is given
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "chatnexus.db"
	}
	if c.Providers.LMStudioBaseURL == "" {
		c.Providers.LMStudioBaseURL = "http://localhost:1234/v1"
	}
	if c.Providers.OllamaBaseURL == "" {
		c.Providers.OllamaBaseURL = "http://localhost:11434/api"
	}
	if c.Settings.EnvFile == "" {
		c.Settings.EnvFile = ".env"
	}
}
