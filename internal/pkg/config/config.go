package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Dev fallbacks used when no explicit URL is configured. The device URL
// points at the workstation running the backend on the local network.
const (
	devWebURL      = "http://localhost:8000"
	devEmulatorURL = "http://10.0.2.2:8000"
	devDeviceURL   = "http://192.168.1.182:8000"
)

type Config struct {
	// Target selects which base URL the client talks to: web, emulator
	// or device. An explicit APIURL always wins over the target mapping.
	Target   string        `env:"ELOMIND_TARGET,       default=device"`
	APIURL   string        `env:"ELOMIND_API_URL"`
	WebURL   string        `env:"ELOMIND_API_URL_WEB"`
	EmuURL   string        `env:"ELOMIND_API_URL_EMULATOR"`
	DevURL   string        `env:"ELOMIND_API_URL_DEVICE"`
	Timeout  time.Duration `env:"ELOMIND_HTTP_TIMEOUT, default=15s"`
	Env      string        `env:"ENV,                  default=development"`
	LogLevel string        `env:"LOG_LEVEL,            default=info"`

	Storage StorageConfig
	Redis   RedisConfig
}

type StorageConfig struct {
	// Backend picks where session state lives: file, redis or memory.
	Backend string `env:"ELOMIND_STORAGE, default=file"`
	// Dir is the directory for the file backend. Empty means ~/.elomind.
	Dir string `env:"ELOMIND_STORAGE_DIR"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=elomind"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// BaseURL resolves the backend base URL once at startup.
//
// Explicit ELOMIND_API_URL short-circuits everything. Otherwise the target
// decides: web runs against localhost, the Android emulator reaches the host
// through 10.0.2.2, and everything else uses the device URL.
func (c *Config) BaseURL() string {
	if c.APIURL != "" {
		return c.APIURL
	}

	switch c.Target {
	case "web":
		if c.WebURL != "" {
			return c.WebURL
		}
		return devWebURL
	case "emulator":
		if c.EmuURL != "" {
			return c.EmuURL
		}
		return devEmulatorURL
	default:
		if c.DevURL != "" {
			return c.DevURL
		}
		return devDeviceURL
	}
}
