package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for pricestalk.
type Config struct {
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Source  SourceConfig  `mapstructure:"source"  yaml:"source"`
	Target  TargetConfig  `mapstructure:"target"  yaml:"target"`
	Matcher MatcherConfig `mapstructure:"matcher" yaml:"matcher"`
	Engine  EngineConfig  `mapstructure:"engine"  yaml:"engine"`
	Input   InputConfig   `mapstructure:"input"   yaml:"input"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// BrowserConfig controls the shared headless browser process and the
// per-session defaults (user-agent pool, viewport).
type BrowserConfig struct {
	Headless       bool     `mapstructure:"headless"        yaml:"headless"`
	Bin            string   `mapstructure:"bin"             yaml:"bin"`
	UserAgents     []string `mapstructure:"user_agents"     yaml:"user_agents"`
	ViewportWidth  int      `mapstructure:"viewport_width"  yaml:"viewport_width"`
	ViewportHeight int      `mapstructure:"viewport_height" yaml:"viewport_height"`
}

// FetcherConfig controls page navigation and the human-like pacing delay.
type FetcherConfig struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	WaitEvent         string        `mapstructure:"wait_event"         yaml:"wait_event"`
	DelayMin          time.Duration `mapstructure:"delay_min"          yaml:"delay_min"`
	DelayMax          time.Duration `mapstructure:"delay_max"          yaml:"delay_max"`
}

// SourceConfig controls the source site (detail pages addressed by SKU).
type SourceConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// ProductURLs overrides the built-in SKU to product-URL mapping.
	ProductURLs map[string]string `mapstructure:"product_urls" yaml:"product_urls"`
}

// TargetConfig controls the target site (full-text product search).
type TargetConfig struct {
	BaseURL           string        `mapstructure:"base_url"            yaml:"base_url"`
	SearchURLTemplate string        `mapstructure:"search_url_template" yaml:"search_url_template"`
	ScrollDownWait    time.Duration `mapstructure:"scroll_down_wait"    yaml:"scroll_down_wait"`
	ScrollUpWait      time.Duration `mapstructure:"scroll_up_wait"      yaml:"scroll_up_wait"`
}

// MatcherConfig controls fuzzy candidate selection.
type MatcherConfig struct {
	Threshold int `mapstructure:"threshold" yaml:"threshold"`
}

// EngineConfig controls the comparison run.
type EngineConfig struct {
	// ResetInterval is the number of SKUs processed between full browser
	// restarts. The value is an empirical anti-tracking heuristic.
	ResetInterval int `mapstructure:"reset_interval" yaml:"reset_interval"`
}

// InputConfig locates the SKU list.
type InputConfig struct {
	SKUFile string `mapstructure:"sku_file" yaml:"sku_file"`
}

// OutputConfig locates the two report files.
type OutputConfig struct {
	SourceReportPath     string `mapstructure:"source_report_path"     yaml:"source_report_path"`
	ComparisonReportPath string `mapstructure:"comparison_report_path" yaml:"comparison_report_path"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the metrics exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless: true,
			// Modern desktop user agents; stale entries get flagged by
			// anti-bot checks, so keep these reasonably current.
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:115.0) Gecko/20100101 Firefox/115.0",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:116.0) Gecko/20100101 Firefox/116.0",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:117.0) Gecko/20100101 Firefox/117.0",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:118.0) Gecko/20100101 Firefox/118.0",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:119.0) Gecko/20100101 Firefox/119.0",
			},
			ViewportWidth:  1920,
			ViewportHeight: 1080,
		},
		Fetcher: FetcherConfig{
			NavigationTimeout: 30 * time.Second,
			WaitEvent:         "load",
			DelayMin:          2 * time.Second,
			DelayMax:          8 * time.Second,
		},
		Source: SourceConfig{
			BaseURL: "https://www.rejectshop.com.au",
		},
		Target: TargetConfig{
			BaseURL:           "https://www.woolworths.com.au",
			SearchURLTemplate: "https://www.woolworths.com.au/shop/search/products?searchTerm=%s",
			ScrollDownWait:    3 * time.Second,
			ScrollUpWait:      4 * time.Second,
		},
		Matcher: MatcherConfig{
			Threshold: 70,
		},
		Engine: EngineConfig{
			ResetInterval: 3,
		},
		Input: InputConfig{
			SKUFile: "skus.txt",
		},
		Output: OutputConfig{
			SourceReportPath:     "phase1_results.json",
			ComparisonReportPath: "phase2_results.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
