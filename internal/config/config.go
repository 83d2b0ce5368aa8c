// Package config loads hostbridge settings from a YAML or JSON file and HOSTBRIDGE_*
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/hostbridge/internal/logging"
	"github.com/aretw0/hostbridge/pkg/adapters/native"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Environment variables applied over the file.
const (
	EnvHost      = "HOSTBRIDGE_HOST"
	EnvPort      = "HOSTBRIDGE_PORT"
	EnvAPIBase   = "HOSTBRIDGE_API_BASE"
	EnvRedisAddr = "HOSTBRIDGE_REDIS_ADDR"
	EnvLogLevel  = "HOSTBRIDGE_LOG_LEVEL"
	// EnvEncryptionKey keeps the settings key out of config files.
	EnvEncryptionKey = "HOSTBRIDGE_ENCRYPTION_KEY"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig               `yaml:"server" json:"server"`
	APIBase   string                     `yaml:"api_base" json:"api_base"`
	Store     StoreConfig                `yaml:"store" json:"store"`
	Log       LogConfig                  `yaml:"log" json:"log"`
	App       AppConfig                  `yaml:"app" json:"app"`
	Launchers map[string]native.Launcher `yaml:"launchers" json:"launchers"`
}

// ServerConfig configures `hostbridge serve`.
type ServerConfig struct {
	Host        string   `yaml:"host" json:"host"`
	Port        int      `yaml:"port" json:"port"`
	CORSEnabled bool     `yaml:"cors_enabled" json:"cors_enabled"`
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`
}

// StoreConfig selects the settings store.
type StoreConfig struct {
	Driver    string `yaml:"driver" json:"driver"`
	RedisAddr string `yaml:"redis_addr" json:"redis_addr"`
	Prefix    string `yaml:"prefix" json:"prefix"`

	// EncryptionKey is a base64 AES-256 key; when set, setting values are encrypted at rest.
	EncryptionKey string   `yaml:"encryption_key" json:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys" json:"fallback_keys"`
	// MaskPatterns are regular expressions; matching keys are stored as "***".
	MaskPatterns []string `yaml:"mask_patterns" json:"mask_patterns"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// AppConfig describes the desktop application for native collaborators.
type AppConfig struct {
	Name string `yaml:"name" json:"name"`
	// UpdateRepo is the "owner/repo" checked for releases; empty disables update checks.
	UpdateRepo string `yaml:"update_repo" json:"update_repo"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3000,
			CORSEnabled: true,
			CORSOrigins: []string{"*"},
		},
		APIBase: "http://localhost:3000/api",
		Store:   StoreConfig{Driver: StoreMemory},
		Log:     LogConfig{Level: "info", Format: "text"},
		App:     AppConfig{Name: "hostbridge"},
	}
}

// Load reads path (missing file means defaults) and applies environment overrides.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults.
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode fills cfg from data, keeping defaults for absent fields.
func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvHost); ok {
		cfg.Server.Host = v
	}
	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		cfg.Server.Port = port
	}
	if v, ok := get(EnvAPIBase); ok {
		cfg.APIBase = v
	}
	if v, ok := get(EnvRedisAddr); ok {
		cfg.Store.Driver = StoreRedis
		cfg.Store.RedisAddr = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := get(EnvEncryptionKey); ok {
		cfg.Store.EncryptionKey = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("store.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Addr is the listen address for the server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
