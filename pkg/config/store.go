// Package config holds the reusable configuration sections shared by the
// application configs.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Store backends supported by the key-value state store.
const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
)

// StoreConfig selects and configures the backend used for persisted state.
type StoreConfig struct {
	Backend  string         `koanf:"backend"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendMemory:
		return nil
	case StoreBackendPostgres:
		return c.Database.Validate()
	case StoreBackendRedis:
		return c.Redis.Validate()
	default:
		return fmt.Errorf("unknown store backend: %q", c.Backend)
	}
}

type DatabaseConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("database URL is not configured")
	}
	if !strings.HasPrefix(c.URL, "postgres://") && !strings.HasPrefix(c.URL, "postgresql://") {
		return fmt.Errorf("database URL must start with 'postgres://': %s", c.URL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("database connect timeout is not configured")
	}
	return nil
}

type RedisConfig struct {
	Addr string `koanf:"addr"`
	DB   int    `koanf:"db"`
}

func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redis address is not configured")
	}
	if c.DB < 0 {
		return fmt.Errorf("invalid redis database number: %d", c.DB)
	}
	return nil
}
