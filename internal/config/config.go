package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines shell configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	State StateConfig `yaml:"state"`
	Log   LogConfig   `yaml:"log"`
	Agent AgentConfig `yaml:"agent"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type StateConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AgentConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL: "https://api.luminal.dev",
		},
		State: StateConfig{
			Path: "luminal.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Agent: AgentConfig{
			Mode: "stdio",
			Host: "127.0.0.1",
			Port: 7421,
		},
	}

	if path := os.Getenv("LUMINAL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if baseURL := os.Getenv("LUMINAL_API_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if statePath := os.Getenv("LUMINAL_STATE_PATH"); statePath != "" {
		cfg.State.Path = statePath
	}
	if level := os.Getenv("LUMINAL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("LUMINAL_AGENT_MODE"); mode != "" {
		cfg.Agent.Mode = mode
	}
	if host := os.Getenv("LUMINAL_AGENT_HOST"); host != "" {
		cfg.Agent.Host = host
	}
	if portStr := os.Getenv("LUMINAL_AGENT_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LUMINAL_AGENT_PORT: %w", err)
		}
		cfg.Agent.Port = port
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
