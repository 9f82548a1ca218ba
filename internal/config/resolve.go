package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
)

// Environment variables that override file configuration.
const (
	EnvBind        = "TASKLANE_BIND"
	EnvStoragePath = "TASKLANE_STORAGE_PATH"
	EnvRedisAddr   = "TASKLANE_REDIS_ADDR"
	EnvLogLevel    = "TASKLANE_LOG_LEVEL"
)

// Resolve builds the configuration with precedence (highest to lowest):
//  1. Environment variables
//  2. The config file (explicitPath, or ~/.tasklane/config.toml)
//  3. Built-in defaults
func Resolve(explicitPath string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return ResolveWithHome(homeDir, explicitPath, os.Getenv)
}

// ResolveWithHome resolves config using a specified home directory and
// environment lookup. This is useful for testing.
//
// A missing default config file is not an error; a missing explicit one is.
func ResolveWithHome(homeDir, explicitPath string, getenv func(string) string) (*Config, error) {
	cfg := Default(homeDir)

	path := explicitPath
	if path == "" {
		path = filepath.Join(homeDir, ConfigDir, ConfigFileName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}
	if path != "" {
		if err := ParseFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if bind := getenv(EnvBind); bind != "" {
		if err := cfg.SetBind(bind); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvBind, err)
		}
	}
	if path := getenv(EnvStoragePath); path != "" {
		cfg.Storage.Path = path
	}
	if addr := getenv(EnvRedisAddr); addr != "" {
		cfg.Storage.Backend = BackendRedis
		cfg.Storage.RedisAddr = addr
	}
	if level := getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
	return nil
}

// SetBind overrides host and port from a host:port string.
func (c *Config) SetBind(bind string) error {
	host, portStr, err := net.SplitHostPort(bind)
	if err != nil {
		return err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port %q", portStr)
	}
	if err := validatePort(port); err != nil {
		return err
	}
	c.Server.Host = host
	c.Server.Port = port
	return nil
}
