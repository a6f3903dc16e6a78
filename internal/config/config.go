package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/bakerypos/pkg/config"
	"github.com/abgdnv/bakerypos/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig     `koanf:"server"`
	Store      config.StoreConfig    `koanf:"store"`
	NATS       config.NATSConfig     `koanf:"nats"`
	Log        config.LogConfig      `koanf:"log"`
	PProf      config.PProfConfig    `koanf:"pprof"`
	Shutdown   config.ShutdownConfig `koanf:"shutdown"`
	Register   RegisterConfig        `koanf:"register"`
}

// RegisterConfig holds register startup defaults.
type RegisterConfig struct {
	// SeedCatalog loads the sample catalog when none is stored.
	SeedCatalog bool `koanf:"seedCatalog"`
	// OpeningFloat is the default cash float on first run.
	OpeningFloat float64 `koanf:"openingFloat"`
}

func (c *RegisterConfig) Validate() error {
	if c.OpeningFloat < 0 {
		return fmt.Errorf("register opening float must not be negative: %f", c.OpeningFloat)
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))

	b.WriteString("\n--- Store Configuration ---\n")
	b.WriteString(fmt.Sprintf("  store.backend: %s\n", c.Store.Backend))
	switch c.Store.Backend {
	case config.StoreBackendPostgres:
		b.WriteString(fmt.Sprintf("  store.database.url: %s\n", maskURL(c.Store.Database.URL)))
		b.WriteString(fmt.Sprintf("  store.database.timeout: %s\n", c.Store.Database.Timeout))
	case config.StoreBackendRedis:
		b.WriteString(fmt.Sprintf("  store.redis.addr: %s\n", c.Store.Redis.Addr))
		b.WriteString(fmt.Sprintf("  store.redis.db: %d\n", c.Store.Redis.DB))
	}

	b.WriteString("\n--- Events ---\n")
	if c.NATS.URL == "" {
		b.WriteString("  nats: disabled\n")
	} else {
		b.WriteString(fmt.Sprintf("  nats.url: %s\n", maskURL(c.NATS.URL)))
		b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.NATS.Timeout))
	}

	b.WriteString("\n--- Register ---\n")
	b.WriteString(fmt.Sprintf("  register.seedCatalog: %t\n", c.Register.SeedCatalog))
	b.WriteString(fmt.Sprintf("  register.openingFloat: %.2f\n", c.Register.OpeningFloat))

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.address: %s\n", c.PProf.Addr))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))

	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.NATS.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	return c.Register.Validate()
}
