package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pricestalk/pricestalk/internal/browser"
	"github.com/pricestalk/pricestalk/internal/catalog"
	"github.com/pricestalk/pricestalk/internal/config"
	"github.com/pricestalk/pricestalk/internal/engine"
	"github.com/pricestalk/pricestalk/internal/fetcher"
	"github.com/pricestalk/pricestalk/internal/matcher"
	"github.com/pricestalk/pricestalk/internal/observability"
	"github.com/pricestalk/pricestalk/internal/scraper"
	"github.com/pricestalk/pricestalk/internal/storage"
)

var (
	cfgFile       string
	verbose       bool
	skuFile       string
	threshold     int
	resetInterval int
	headful       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pricestalk",
		Short: "Cross-site retail price comparison scraper",
		Long: `pricestalk scrapes a fixed set of SKUs from The Reject Shop,
cross-references each product on Woolworths via full-text search and
fuzzy name matching, and writes a price-comparison report.

Pages are rendered through a shared headless browser with rotating
user-agents, randomized pacing, and periodic session resets to stay
under basic anti-bot detection.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// compareCmd creates the "compare" subcommand, the main run.
func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the price comparison over the configured SKU list",
		RunE:  runCompare,
	}

	cmd.Flags().StringVarP(&skuFile, "sku-file", "s", "", "newline-delimited SKU list (default from config)")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", -1, "fuzzy-match acceptance threshold 0-100 (-1 = config default)")
	cmd.Flags().IntVarP(&resetInterval, "reset-interval", "r", 0, "SKUs between full browser restarts (0 = config default)")
	cmd.Flags().BoolVar(&headful, "headful", false, "run the browser with a visible window")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(&cfg.Logging)

	skus, err := catalog.LoadSKUs(cfg.Input.SKUFile)
	if err != nil {
		return err
	}
	if len(skus) == 0 {
		logger.Info("no SKUs found, exiting", "path", cfg.Input.SKUFile)
		return nil
	}

	logger.Info("starting comparison run",
		"skus", len(skus),
		"threshold", cfg.Matcher.Threshold,
		"reset_interval", cfg.Engine.ResetInterval,
	)

	metrics := observability.NewMetrics(logger)
	client := browser.NewClient(&cfg.Browser, logger)
	pages := fetcher.New(&cfg.Fetcher, metrics, logger)
	mapping := catalog.NewMapping(cfg.Source.ProductURLs, logger)
	match := matcher.New(matcher.WRatioScorer{}, cfg.Matcher.Threshold, logger)

	source := scraper.NewRejectShop(client, pages, mapping, &cfg.Browser, metrics, logger)
	target := scraper.NewWoolworths(client, pages, match, &cfg.Target, &cfg.Browser, metrics, logger)

	sink := storage.NewJSONAppender(logger)
	if cfg.Metrics.Enabled {
		serveMetrics(cfg, metrics, logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(cfg, source, target, client, sink, metrics, logger)
	return eng.Run(ctx, skus)
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pricestalk %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand, printing the effective
// configuration after file, env, and flag merging.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyCLIOverrides(cfg)

			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

// serveMetrics exposes the counters on the configured port.
func serveMetrics(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics)
	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	logger.Info("metrics endpoint up", "addr", addr, "path", cfg.Metrics.Path)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
}

// setupLogger builds the process logger from the logging config. The
// --verbose flag forces debug level regardless of the configured one.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	out := os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if skuFile != "" {
		cfg.Input.SKUFile = skuFile
	}
	if threshold >= 0 {
		cfg.Matcher.Threshold = threshold
	}
	if resetInterval > 0 {
		cfg.Engine.ResetInterval = resetInterval
	}
	if headful {
		cfg.Browser.Headless = false
	}
}
