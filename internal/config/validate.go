package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Browser.ViewportWidth < 1 {
		return fmt.Errorf("browser.viewport_width must be >= 1, got %d", cfg.Browser.ViewportWidth)
	}
	if cfg.Browser.ViewportHeight < 1 {
		return fmt.Errorf("browser.viewport_height must be >= 1, got %d", cfg.Browser.ViewportHeight)
	}

	if cfg.Fetcher.NavigationTimeout <= 0 {
		return fmt.Errorf("fetcher.navigation_timeout must be > 0")
	}
	if cfg.Fetcher.WaitEvent != "load" && cfg.Fetcher.WaitEvent != "stable" && cfg.Fetcher.WaitEvent != "" {
		return fmt.Errorf("fetcher.wait_event must be 'load' or 'stable', got %q", cfg.Fetcher.WaitEvent)
	}
	if cfg.Fetcher.DelayMin < 0 {
		return fmt.Errorf("fetcher.delay_min must be >= 0")
	}
	if cfg.Fetcher.DelayMax < cfg.Fetcher.DelayMin {
		return fmt.Errorf("fetcher.delay_max must be >= fetcher.delay_min")
	}

	if err := ValidateURL(cfg.Source.BaseURL); err != nil {
		return fmt.Errorf("invalid source.base_url %q: %w", cfg.Source.BaseURL, err)
	}
	if err := ValidateURL(cfg.Target.BaseURL); err != nil {
		return fmt.Errorf("invalid target.base_url %q: %w", cfg.Target.BaseURL, err)
	}
	if !strings.Contains(cfg.Target.SearchURLTemplate, "%s") {
		return fmt.Errorf("target.search_url_template must contain a %%s placeholder for the query")
	}
	if cfg.Target.ScrollDownWait < 0 || cfg.Target.ScrollUpWait < 0 {
		return fmt.Errorf("target scroll waits must be >= 0")
	}

	if cfg.Matcher.Threshold < 0 || cfg.Matcher.Threshold > 100 {
		return fmt.Errorf("matcher.threshold must be in [0, 100], got %d", cfg.Matcher.Threshold)
	}

	if cfg.Engine.ResetInterval < 1 {
		return fmt.Errorf("engine.reset_interval must be >= 1, got %d", cfg.Engine.ResetInterval)
	}

	if cfg.Input.SKUFile == "" {
		return fmt.Errorf("input.sku_file must not be empty")
	}
	if cfg.Output.SourceReportPath == "" || cfg.Output.ComparisonReportPath == "" {
		return fmt.Errorf("output report paths must not be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level %q is not supported (valid: debug, info, warn, error)", cfg.Logging.Level)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be a valid port, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks that a string is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL host must not be empty")
	}
	return nil
}
