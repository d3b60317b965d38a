// Package config loads lectern's runtime configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. LECTERN_HTTP_PORT.
const EnvPrefix = "LECTERN"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Store StoreConfig `mapstructure:"store"`
	HTTP  HTTPConfig  `mapstructure:"http"`
	MCP   MCPConfig   `mapstructure:"mcp"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

// StoreConfig selects the variable store backend.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds redis store settings.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTPConfig holds settings of the serve command.
type HTTPConfig struct {
	Port    int  `mapstructure:"port"`
	Metrics bool `mapstructure:"metrics"`
}

// MCPConfig holds settings of the mcp command.
type MCPConfig struct {
	Transport string `mapstructure:"transport"` // stdio | sse
	Port      int    `mapstructure:"port"`
}

// Defaults applies default values to v.
func Defaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "lectern:var:")
	v.SetDefault("store.redis.ttl", "0s")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.metrics", true)
	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.port", 8081)
}

// Load reads configuration from defaults, an optional file and the
// environment. An explicit path must exist; otherwise lectern.yaml is looked
// up in the working directory and skipped when absent.
func Load(path string) (Config, error) {
	v := viper.New()
	Defaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("lectern")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects unknown backends and formats.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		errs = append(errs, fmt.Errorf("mcp.transport: unknown transport %q", c.MCP.Transport))
	}
	return errors.Join(errs...)
}
