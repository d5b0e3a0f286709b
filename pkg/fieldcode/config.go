package fieldcode

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all configuration options for field recognition
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// MatchTimeout bounds a single grammar match against one instruction
	MatchTimeout time.Duration `yaml:"match_timeout"`
	// MaxNestingDepth limits how deeply nested complex fields are followed
	MaxNestingDepth int `yaml:"max_nesting_depth"`
	// CacheMaxSize is the number of classified instructions to memoize. 0 disables caching.
	CacheMaxSize int `yaml:"cache_max_size"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		MatchTimeout:    500 * time.Millisecond,
		MaxNestingDepth: 32,
		CacheMaxSize:    256,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// FIELDCODE_LOG_LEVEL
	if val := os.Getenv("FIELDCODE_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// FIELDCODE_MATCH_TIMEOUT
	if val := os.Getenv("FIELDCODE_MATCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			config.MatchTimeout = d
		}
	}

	// FIELDCODE_MAX_NESTING_DEPTH
	if val := os.Getenv("FIELDCODE_MAX_NESTING_DEPTH"); val != "" {
		if depth, err := strconv.Atoi(val); err == nil {
			config.MaxNestingDepth = depth
		}
	}

	// FIELDCODE_CACHE_MAX_SIZE
	if val := os.Getenv("FIELDCODE_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	return config
}

// LoadConfigFile reads a YAML configuration file. Keys missing from the file
// keep the values of base (or the defaults when base is nil).
func LoadConfigFile(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read config", path, err)
	}

	config := DefaultConfig()
	if base != nil {
		*config = *base
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, NewDocumentError("parse config", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// NewConfigWithDefaults creates a new configuration with defaults applied to
// unset or out-of-range fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.MatchTimeout <= 0 {
		config.MatchTimeout = defaults.MatchTimeout
	}

	if config.MaxNestingDepth <= 0 {
		config.MaxNestingDepth = defaults.MaxNestingDepth
	}

	if config.CacheMaxSize < 0 {
		config.CacheMaxSize = 0
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.MatchTimeout <= 0 {
		return errors.New("match timeout must be positive")
	}

	if c.MaxNestingDepth <= 0 {
		return errors.New("max nesting depth must be positive")
	}

	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger and defaults outside the lock; both read the config back
	UpdateLoggerFromConfig()
	resetDefaultParser()
}
