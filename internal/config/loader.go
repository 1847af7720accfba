package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flag overrides are applied by the command layer afterwards.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("PRICESTALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("pricestalk")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".pricestalk"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.bin", cfg.Browser.Bin)
	v.SetDefault("browser.user_agents", cfg.Browser.UserAgents)
	v.SetDefault("browser.viewport_width", cfg.Browser.ViewportWidth)
	v.SetDefault("browser.viewport_height", cfg.Browser.ViewportHeight)

	v.SetDefault("fetcher.navigation_timeout", cfg.Fetcher.NavigationTimeout)
	v.SetDefault("fetcher.wait_event", cfg.Fetcher.WaitEvent)
	v.SetDefault("fetcher.delay_min", cfg.Fetcher.DelayMin)
	v.SetDefault("fetcher.delay_max", cfg.Fetcher.DelayMax)

	v.SetDefault("source.base_url", cfg.Source.BaseURL)

	v.SetDefault("target.base_url", cfg.Target.BaseURL)
	v.SetDefault("target.search_url_template", cfg.Target.SearchURLTemplate)
	v.SetDefault("target.scroll_down_wait", cfg.Target.ScrollDownWait)
	v.SetDefault("target.scroll_up_wait", cfg.Target.ScrollUpWait)

	v.SetDefault("matcher.threshold", cfg.Matcher.Threshold)

	v.SetDefault("engine.reset_interval", cfg.Engine.ResetInterval)

	v.SetDefault("input.sku_file", cfg.Input.SKUFile)

	v.SetDefault("output.source_report_path", cfg.Output.SourceReportPath)
	v.SetDefault("output.comparison_report_path", cfg.Output.ComparisonReportPath)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
