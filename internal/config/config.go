// Package config loads tasklane server configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	// ConfigDir is the name of the config directory in home.
	ConfigDir = ".tasklane"

	// ConfigFileName is the name of the config file inside ConfigDir.
	ConfigFileName = "config.toml"

	// DefaultServerHost is the default server host
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default server port
	DefaultServerPort = 7432

	// DefaultDBFile is the SQLite file name used when no path is configured.
	DefaultDBFile = "tasklane.db"

	// DefaultRedisAddr is the default Redis address for the redis backend.
	DefaultRedisAddr = "localhost:6379"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the fully resolved configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Storage Storage `toml:"storage"`
	Log     Log     `toml:"log"`
}

// Server represents the [server] section.
type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Storage represents the [storage] section.
type Storage struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Log represents the [log] section.
type Log struct {
	Level string `toml:"level"`
}

// configFile is the raw TOML structure. Pointers distinguish "unset" from
// zero values so a partial file only overrides what it names.
type configFile struct {
	Server struct {
		Host string `toml:"host"`
		Port *int   `toml:"port"`
	} `toml:"server"`
	Storage struct {
		Backend       string `toml:"backend"`
		Path          string `toml:"path"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       *int   `toml:"redis_db"`
	} `toml:"storage"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Default returns the built-in configuration rooted at homeDir.
func Default(homeDir string) *Config {
	return &Config{
		Server: Server{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
		Storage: Storage{
			Backend:   BackendSQLite,
			Path:      filepath.Join(homeDir, ConfigDir, DefaultDBFile),
			RedisAddr: DefaultRedisAddr,
		},
		Log: Log{Level: DefaultLogLevel},
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Validate checks the configuration for values the server cannot use.
func (c *Config) Validate() error {
	if err := validatePort(c.Server.Port); err != nil {
		return err
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage path cannot be empty for the sqlite backend")
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("redis_addr cannot be empty for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q: must be %q or %q", c.Storage.Backend, BackendSQLite, BackendRedis)
	}
	return nil
}

// ParseFile reads the TOML file at path and applies it over cfg.
func ParseFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var raw configFile
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}

	if raw.Server.Port != nil {
		if err := validatePort(*raw.Server.Port); err != nil {
			return err
		}
		cfg.Server.Port = *raw.Server.Port
	}
	if raw.Server.Host != "" {
		cfg.Server.Host = raw.Server.Host
	}
	if raw.Storage.Backend != "" {
		cfg.Storage.Backend = raw.Storage.Backend
	}
	if raw.Storage.Path != "" {
		cfg.Storage.Path = raw.Storage.Path
	}
	if raw.Storage.RedisAddr != "" {
		cfg.Storage.RedisAddr = raw.Storage.RedisAddr
	}
	if raw.Storage.RedisPassword != "" {
		cfg.Storage.RedisPassword = raw.Storage.RedisPassword
	}
	if raw.Storage.RedisDB != nil {
		cfg.Storage.RedisDB = *raw.Storage.RedisDB
	}
	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
	return nil
}

// validatePort checks if the port is in the valid range (1-65535)
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}
