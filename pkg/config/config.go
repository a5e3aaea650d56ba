// Package config manages governance engine configuration.
//
// Configuration is loaded from a YAML file and overridden by environment
// variables. Each attribute remembers where its value came from (default,
// file, or environment) for operator display.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/govern/config"
	ConfigFileName    = "govern.yml"
)

// Config holds all governance engine settings.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `yaml:"database_url"`

	// RedisAddr is the address of the cache invalidation Redis, empty to
	// disable cache invalidation.
	RedisAddr string `yaml:"redis_addr"`

	// RedisDB is the Redis database number.
	RedisDB int `yaml:"redis_db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ReconcileSchedule is a cron expression for the counter reconciliation
	// job; empty disables scheduling.
	ReconcileSchedule string `yaml:"reconcile_schedule"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func newDefault() *Config {
	return &Config{
		LogLevel:          "info",
		RedisDB:           0,
		ReconcileSchedule: "",
		sources:           make(map[string]string),
	}
}

func attributeNames() []string {
	return []string{"database_url", "redis_addr", "redis_db", "log_level", "reconcile_schedule"}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("GOVERN_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func (c *Config) applyFileConfig(file *Config) {
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.RedisAddr != "" {
		c.RedisAddr = file.RedisAddr
		c.sources["redis_addr"] = "file"
	}
	if file.RedisDB != 0 {
		c.RedisDB = file.RedisDB
		c.sources["redis_db"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.ReconcileSchedule != "" {
		c.ReconcileSchedule = file.ReconcileSchedule
		c.sources["reconcile_schedule"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("GOVERN_REDIS_ADDR"); val != "" {
		c.RedisAddr = val
		c.sources["redis_addr"] = "environment"
	}
	if val := os.Getenv("GOVERN_REDIS_DB"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.RedisDB = i
			c.sources["redis_db"] = "environment"
		}
	}
	if val := os.Getenv("GOVERN_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("GOVERN_RECONCILE_SCHEDULE"); val != "" {
		c.ReconcileSchedule = val
		c.sources["reconcile_schedule"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	if c.ReconcileSchedule != "" {
		if _, err := cron.ParseStandard(c.ReconcileSchedule); err != nil {
			return fmt.Errorf("invalid reconcile_schedule: %w", err)
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "database_url", Value: redactURL(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "redis_addr", Value: c.RedisAddr, Source: c.Source("redis_addr")},
		{Name: "redis_db", Value: strconv.Itoa(c.RedisDB), Source: c.Source("redis_db")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "reconcile_schedule", Value: c.ReconcileSchedule, Source: c.Source("reconcile_schedule")},
	}
}

// FormatText returns a text representation of the configuration.
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-25s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-25s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration.
func (c *Config) FormatJSON() (string, error) {
	out, err := json.MarshalIndent(c.Attributes(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// redactURL hides credentials embedded in a connection URL.
func redactURL(url string) string {
	if url == "" {
		return ""
	}
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}
