package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brandguard/reputation/internal/engine"
)

// KnowledgeConfig selects the insight store backend.
type KnowledgeConfig struct {
	Backend     string `yaml:"backend"` // memory, redis, postgres
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	PostgresDSN string `yaml:"postgres_dsn"`
	MaxEntries  int    `yaml:"max_entries"`
}

// AppConfig is the host configuration file shape.
type AppConfig struct {
	Engine      engine.Config   `yaml:"engine"`
	Knowledge   KnowledgeConfig `yaml:"knowledge"`
	MetricsAddr string          `yaml:"metrics_addr"`
}

// Default returns production defaults: in-memory store, metrics on :9180.
func Default() *AppConfig {
	return &AppConfig{
		Engine:      engine.DefaultConfig(),
		Knowledge:   KnowledgeConfig{Backend: "memory", MaxEntries: 1000},
		MetricsAddr: ":9180",
	}
}

// Load reads a yaml config file, filling unset sections with defaults.
func Load(path string) (*AppConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	switch c.Knowledge.Backend {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("unknown knowledge backend %q", c.Knowledge.Backend)
	}

	return c, nil
}
