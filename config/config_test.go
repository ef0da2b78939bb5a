// Package config - Tests for configuration management
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig should not return nil")
	}

	if !cfg.Browser.Headless {
		t.Error("Browser should be headless by default")
	}

	if cfg.Outreach.MaxRequests != 20 {
		t.Errorf("Expected default budget of 20, got %d", cfg.Outreach.MaxRequests)
	}

	if cfg.Auth.WaitTimeout != 10 {
		t.Errorf("Expected default wait timeout of 10, got %d", cfg.Auth.WaitTimeout)
	}

	if cfg.Outreach.ActionDelay != (DelayRange{Min: 1.5, Max: 3.5}) {
		t.Errorf("Unexpected default action delay: %+v", cfg.Outreach.ActionDelay)
	}

	if cfg.Outreach.IterationDelay != (DelayRange{Min: 2, Max: 5}) {
		t.Errorf("Unexpected default iteration delay: %+v", cfg.Outreach.IterationDelay)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()

	// Missing credentials are a login failure, not a config error
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validation should pass without credentials: %v", err)
	}

	cfg.Outreach.MaxRequests = 200
	if err := cfg.Validate(); err == nil {
		t.Error("Validation should fail with max requests > 100")
	}
	cfg.Outreach.MaxRequests = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validation should fail with negative max requests")
	}
	cfg.Outreach.MaxRequests = 20 // Reset

	cfg.Outreach.ActionDelay = DelayRange{Min: 4, Max: 1}
	if err := cfg.Validate(); err == nil {
		t.Error("Validation should fail when min exceeds max")
	}
	cfg.Outreach.ActionDelay = DelayRange{Min: -1, Max: 1}
	if err := cfg.Validate(); err == nil {
		t.Error("Validation should fail with negative delay")
	}
	cfg.Outreach.ActionDelay = DelayRange{Min: 1.5, Max: 3.5} // Reset

	cfg.Auth.WaitTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validation should fail with zero wait timeout")
	}
	cfg.Auth.WaitTimeout = 10 // Reset

	cfg.Browser.ActionTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validation should fail with zero action timeout")
	}
	cfg.Browser.ActionTimeout = 5 // Reset

	cfg.Logging.Level = "invalid"
	if err := cfg.Validate(); err == nil {
		t.Error("Validation should fail with invalid log level")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LINKEDIN_EMAIL", "env_email@test.com")
	t.Setenv("LINKEDIN_PASSWORD", "env_password")
	t.Setenv("MAX_REQUESTS", "7")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.LinkedIn.Email != "env_email@test.com" {
		t.Errorf("Email should be overridden from env, got %s", cfg.LinkedIn.Email)
	}

	if cfg.LinkedIn.Password != "env_password" {
		t.Error("Password should be overridden from env")
	}

	if cfg.Outreach.MaxRequests != 7 {
		t.Errorf("Max requests should be 7 from env, got %d", cfg.Outreach.MaxRequests)
	}

	if cfg.Browser.Headless {
		t.Error("Headless should be disabled from env")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Log level should be debug from env, got %s", cfg.Logging.Level)
	}
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("MAX_REQUESTS", "lots")
	t.Setenv("BROWSER_HEADLESS", "maybe")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Outreach.MaxRequests != 20 {
		t.Errorf("Invalid MAX_REQUESTS should be ignored, got %d", cfg.Outreach.MaxRequests)
	}
	if !cfg.Browser.Headless {
		t.Error("Invalid BROWSER_HEADLESS should be ignored")
	}
}

func TestGetWaitTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth.WaitTimeout = 15

	if cfg.GetWaitTimeout() != 15*time.Second {
		t.Errorf("Expected 15s, got %s", cfg.GetWaitTimeout())
	}
}

func TestDelayRangeBounds(t *testing.T) {
	lo, hi := DelayRange{Min: 1.5, Max: 3.5}.Bounds()
	if lo != 1500*time.Millisecond || hi != 3500*time.Millisecond {
		t.Errorf("Unexpected bounds: %s - %s", lo, hi)
	}
}

func TestLoadConfigNonExistent(t *testing.T) {
	cfg, err := LoadConfig("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Should not error for non-existent file: %v", err)
	}

	if cfg.Outreach.MaxRequests != 20 {
		t.Error("Should have default budget")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
outreach:
  max_requests: 3
  iteration_delay_seconds:
    min: 2.5
    max: 4
browser:
  action_timeout_seconds: 8
`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Outreach.MaxRequests != 3 {
		t.Errorf("Expected budget 3, got %d", loaded.Outreach.MaxRequests)
	}
	if loaded.Outreach.IterationDelay.Max != 4 {
		t.Errorf("Expected iteration max 4, got %f", loaded.Outreach.IterationDelay.Max)
	}
	if loaded.Browser.ActionTimeout != 8 {
		t.Errorf("Expected action timeout 8, got %d", loaded.Browser.ActionTimeout)
	}
	if loaded.Outreach.ActionDelay != ActionDelayBounds {
		t.Errorf("Unset action delay should keep defaults, got %+v", loaded.Outreach.ActionDelay)
	}
}

func TestPacingMustStayWithinFixedWindows(t *testing.T) {
	tests := []struct {
		name      string
		action    DelayRange
		iteration DelayRange
		wantErr   bool
	}{
		{"defaults", ActionDelayBounds, IterationDelayBounds, false},
		{"narrowed", DelayRange{Min: 2, Max: 3}, DelayRange{Min: 3, Max: 4}, false},
		{"fixed point", DelayRange{Min: 2, Max: 2}, DelayRange{Min: 5, Max: 5}, false},
		{"zero action", DelayRange{Min: 0, Max: 0}, IterationDelayBounds, true},
		{"action too long", DelayRange{Min: 1.5, Max: 4}, IterationDelayBounds, true},
		{"iteration too short", ActionDelayBounds, DelayRange{Min: 0, Max: 0.1}, true},
		{"iteration too long", ActionDelayBounds, DelayRange{Min: 2, Max: 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Outreach.ActionDelay = tt.action
			cfg.Outreach.IterationDelay = tt.iteration

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Validate should reject action=%+v iteration=%+v", tt.action, tt.iteration)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate returned unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("outreach: [not, a, map"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig should fail on malformed YAML")
	}
}
