// Package config provides configuration management for the LinkedIn outreach runner.
// It supports YAML configuration files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the outreach runner
type Config struct {
	// LinkedIn credentials
	LinkedIn LinkedInConfig `yaml:"linkedin"`

	// Browser launch configuration
	Browser BrowserConfig `yaml:"browser"`

	// Login flow settings
	Auth AuthConfig `yaml:"auth"`

	// Outreach loop budget and pacing
	Outreach OutreachConfig `yaml:"outreach"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// LinkedInConfig holds LinkedIn-specific settings
type LinkedInConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// BrowserConfig holds browser automation settings
type BrowserConfig struct {
	Headless       bool   `yaml:"headless"`
	BinPath        string `yaml:"bin_path"`
	SlowMotion     int    `yaml:"slow_motion_ms"`
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`
	ActionTimeout  int    `yaml:"action_timeout_seconds"`
}

// AuthConfig holds login settings
type AuthConfig struct {
	WaitTimeout int `yaml:"wait_timeout_seconds"`
}

// DelayRange is a closed interval of seconds used for randomized pauses
type DelayRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Bounds returns the range as durations
func (r DelayRange) Bounds() (time.Duration, time.Duration) {
	return seconds(r.Min), seconds(r.Max)
}

func (r DelayRange) validate(name string) error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("%s must not be negative", name)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%s min (%.2f) must not exceed max (%.2f)", name, r.Min, r.Max)
	}
	return nil
}

// within reports an error unless r lies inside outer
func (r DelayRange) within(name string, outer DelayRange) error {
	if err := r.validate(name); err != nil {
		return err
	}
	if r.Min < outer.Min || r.Max > outer.Max {
		return fmt.Errorf("%s must stay within [%.2f, %.2f], got [%.2f, %.2f]",
			name, outer.Min, outer.Max, r.Min, r.Max)
	}
	return nil
}

// Fixed pacing windows. Configured action and iteration delays may narrow
// these but never leave them.
var (
	ActionDelayBounds    = DelayRange{Min: 1.5, Max: 3.5}
	IterationDelayBounds = DelayRange{Min: 2, Max: 5}
)

// OutreachConfig holds the request budget and pacing ranges
type OutreachConfig struct {
	MaxRequests    int        `yaml:"max_requests"`
	PageSettle     DelayRange `yaml:"page_settle_seconds"`
	ActionDelay    DelayRange `yaml:"action_delay_seconds"`
	IterationDelay DelayRange `yaml:"iteration_delay_seconds"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	OutputFile string `yaml:"output_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       true,
			ViewportWidth:  1366,
			ViewportHeight: 768,
			ActionTimeout:  5,
		},
		Auth: AuthConfig{
			WaitTimeout: 10,
		},
		Outreach: OutreachConfig{
			MaxRequests:    20,
			PageSettle:     DelayRange{Min: 2, Max: 4},
			ActionDelay:    ActionDelayBounds,
			IterationDelay: IterationDelayBounds,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			OutputFile: "",
			MaxSizeMB:  100,
			MaxBackups: 5,
		},
	}
}

// LoadConfig loads configuration from a YAML file and applies environment variable overrides
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// File doesn't exist, use defaults
		} else {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	config.applyEnvOverrides()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func (c *Config) applyEnvOverrides() {
	// LinkedIn credentials (most commonly overridden via env)
	if email := os.Getenv("LINKEDIN_EMAIL"); email != "" {
		c.LinkedIn.Email = email
	}
	if password := os.Getenv("LINKEDIN_PASSWORD"); password != "" {
		c.LinkedIn.Password = password
	}

	if headless := os.Getenv("BROWSER_HEADLESS"); headless != "" {
		if val, err := strconv.ParseBool(headless); err == nil {
			c.Browser.Headless = val
		}
	}
	if bin := os.Getenv("BROWSER_BIN"); bin != "" {
		c.Browser.BinPath = bin
	}

	if maxReq := os.Getenv("MAX_REQUESTS"); maxReq != "" {
		if val, err := strconv.Atoi(maxReq); err == nil {
			c.Outreach.MaxRequests = val
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		c.Logging.OutputFile = logFile
	}
}

// Validate checks if the configuration is valid.
// Credentials are deliberately not required here: a missing credential is
// reported as a failed login, not as a startup error.
func (c *Config) Validate() error {
	if c.Outreach.MaxRequests < 0 || c.Outreach.MaxRequests > 100 {
		return fmt.Errorf("max_requests must be between 0 and 100")
	}
	if err := c.Outreach.PageSettle.validate("page_settle_seconds"); err != nil {
		return err
	}
	if err := c.Outreach.ActionDelay.within("action_delay_seconds", ActionDelayBounds); err != nil {
		return err
	}
	if err := c.Outreach.IterationDelay.within("iteration_delay_seconds", IterationDelayBounds); err != nil {
		return err
	}

	if c.Auth.WaitTimeout <= 0 {
		return fmt.Errorf("wait_timeout_seconds must be positive")
	}

	if c.Browser.ActionTimeout <= 0 {
		return fmt.Errorf("action_timeout_seconds must be positive")
	}

	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return fmt.Errorf("viewport dimensions must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	return nil
}

// GetWaitTimeout returns the login wait timeout as a time.Duration
func (c *Config) GetWaitTimeout() time.Duration {
	return time.Duration(c.Auth.WaitTimeout) * time.Second
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
