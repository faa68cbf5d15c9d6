package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `json:"server"`
	Factors FactorsConfig `json:"factors"`
	Engine  EngineConfig  `json:"engine"`
	Store   StoreConfig   `json:"store"`
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// FactorsConfig points at an optional factor-tables JSON file; when Path is
// empty the built-in defaults apply.
type FactorsConfig struct {
	Path string `json:"path"`
}

// EngineConfig carries pipeline behavior switches.
type EngineConfig struct {
	// AggregationMode is "weighted" (default) or "row-mean" (legacy).
	AggregationMode string `json:"aggregation_mode"`
	KeepRawValues   bool   `json:"keep_raw_values"`
}

// StoreConfig controls the in-memory result store.
type StoreConfig struct {
	TTLMinutes    int    `json:"ttl_minutes"`
	SweepSchedule string `json:"sweep_schedule"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Engine: EngineConfig{
			AggregationMode: "weighted",
		},
		Store: StoreConfig{
			TTLMinutes:    240,
			SweepSchedule: "@every 10m",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if path := os.Getenv("FACTORS_PATH"); path != "" {
		config.Factors.Path = path
	}
	if mode := os.Getenv("ENGINE_AGGREGATION_MODE"); mode != "" {
		config.Engine.AggregationMode = mode
	}
	if ttl := os.Getenv("STORE_TTL_MINUTES"); ttl != "" {
		if m, err := strconv.Atoi(ttl); err == nil {
			config.Store.TTLMinutes = m
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TTL returns the store TTL as a duration.
func (c *StoreConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}
