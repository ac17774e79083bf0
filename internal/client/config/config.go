package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config holds runtime settings for the identity CLI.
type Config struct {
	ServerBaseURL       string
	RequestTimeout      time.Duration
	StatusCheckInterval time.Duration

	StorageDriver  string
	DatabasePath   string
	RedisAddr      string
	RedisDB        int
	RedisKeyPrefix string

	LogLevel  string
	LogOutput string
	LogJSON   bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080/identity"
	c.RequestTimeout = 10 * time.Second
	c.StatusCheckInterval = 3 * time.Second
	c.StorageDriver = StorageSQLite
	c.DatabasePath = "identity.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisDB = 0
	c.RedisKeyPrefix = "identity:"
	c.LogLevel = "info"
	c.LogOutput = "stderr"
	c.LogJSON = false
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageSQLite, StorageRedis:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.ServerBaseURL == "" {
		return fmt.Errorf("server base URL must be set")
	}
	u, err := url.Parse(c.ServerBaseURL)
	if err != nil {
		return fmt.Errorf("server base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server base URL %q must be an absolute http(s) URL", c.ServerBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.StatusCheckInterval <= 0 {
		return fmt.Errorf("status check interval must be positive")
	}
	return nil
}

// Load builds a Config from args (without the program name): defaults,
// then JSON, then flags. Later sources take precedence over earlier ones.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg, args)
	parseFlags(cfg, args)
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig is Load over os.Args.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}
