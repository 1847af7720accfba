package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	if cfg.Engine.ResetInterval != 3 {
		t.Errorf("reset interval = %d, want 3", cfg.Engine.ResetInterval)
	}
	if cfg.Matcher.Threshold != 70 {
		t.Errorf("threshold = %d, want 70", cfg.Matcher.Threshold)
	}
	if cfg.Fetcher.DelayMin != 2*time.Second || cfg.Fetcher.DelayMax != 8*time.Second {
		t.Errorf("pacing delay bounds = %v..%v, want 2s..8s", cfg.Fetcher.DelayMin, cfg.Fetcher.DelayMax)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero viewport", func(c *Config) { c.Browser.ViewportWidth = 0 }},
		{"zero timeout", func(c *Config) { c.Fetcher.NavigationTimeout = 0 }},
		{"delay max below min", func(c *Config) { c.Fetcher.DelayMax = c.Fetcher.DelayMin - time.Second }},
		{"threshold above 100", func(c *Config) { c.Matcher.Threshold = 101 }},
		{"negative threshold", func(c *Config) { c.Matcher.Threshold = -1 }},
		{"zero reset interval", func(c *Config) { c.Engine.ResetInterval = 0 }},
		{"template without placeholder", func(c *Config) { c.Target.SearchURLTemplate = "https://example.com/search" }},
		{"bad base url", func(c *Config) { c.Source.BaseURL = "not a url" }},
		{"bad wait event", func(c *Config) { c.Fetcher.WaitEvent = "networkidle" }},
		{"empty sku file", func(c *Config) { c.Input.SKUFile = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Target.SearchURLTemplate == "" {
		t.Error("defaults not applied")
	}
	if len(cfg.Browser.UserAgents) == 0 {
		t.Error("user-agent pool empty by default")
	}
}
