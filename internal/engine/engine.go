// Package engine drives the comparison pipeline: scrape each SKU on the
// source site, search and fuzzy-match it on the target site, and emit the
// price-comparison report. Processing is strictly sequential; the system
// is throughput-limited on purpose so that traffic does not look
// automated.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pricestalk/pricestalk/internal/config"
	"github.com/pricestalk/pricestalk/internal/observability"
	"github.com/pricestalk/pricestalk/internal/types"
)

// SourceScraper scrapes one product record per SKU from the source site.
type SourceScraper interface {
	ScrapeBySKU(ctx context.Context, sku string) *types.ProductRecord
	ResetSession() error
	Close()
}

// TargetScraper finds the best-matching product for a name on the target
// site.
type TargetScraper interface {
	SearchAndMatch(ctx context.Context, query string) (name, price string, ok bool)
	ResetSession() error
	Close()
}

// BrowserControl exposes the shared browser process lifecycle. Only the
// engine may trigger a restart, and only after closing all dependent
// sessions.
type BrowserControl interface {
	Shutdown()
}

// Sink persists a batch of records to a report file.
type Sink interface {
	Append(records any, path string) error
}

// Engine runs a comparison batch over a SKU list.
type Engine struct {
	cfg     *config.Config
	source  SourceScraper
	target  TargetScraper
	browser BrowserControl
	sink    Sink
	metrics *observability.Metrics
	logger  *slog.Logger

	cleanupOnce sync.Once
}

// New creates an engine.
func New(cfg *config.Config, source SourceScraper, target TargetScraper, browser BrowserControl, sink Sink, metrics *observability.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		source:  source,
		target:  target,
		browser: browser,
		sink:    sink,
		metrics: metrics,
		logger:  logger.With("component", "engine"),
	}
}

// Run processes every SKU in order and writes the two report files. A
// failure local to one SKU is logged and skipped; only setup and report
// persistence errors abort the run. Sessions and the shared browser are
// released on every exit path.
func (e *Engine) Run(ctx context.Context, skus []string) error {
	defer e.cleanup()

	var products []types.ProductRecord
	var comparisons []types.ComparisonRecord

	sinceReset := 0
	for _, sku := range skus {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("run cancelled", "next_sku", sku)
			return err
		}

		// Periodic full teardown to reset whatever request-correlation
		// state the sites accumulate. Sessions close before the process
		// stops so none are left pointing at a dead browser.
		if sinceReset >= e.cfg.Engine.ResetInterval {
			e.restartBrowser()
			sinceReset = 0
		}
		// Counts attempted SKUs, not successful ones; a skipped SKU
		// still advances the reset schedule.
		sinceReset++

		record := e.source.ScrapeBySKU(ctx, sku)
		if record == nil {
			e.logger.Info("skipping SKU, no source data", "sku", sku)
			e.metrics.SKUsSkipped.Add(1)
			continue
		}
		products = append(products, *record)
		e.metrics.ProductsScraped.Add(1)

		targetName, targetPrice, ok := e.target.SearchAndMatch(ctx, record.Name)
		if !ok {
			targetName = types.NotFound
			targetPrice = types.NotFound
			e.metrics.NoMatches.Add(1)
		} else {
			e.metrics.MatchesFound.Add(1)
		}

		comparisons = append(comparisons, types.ComparisonRecord{
			SKU:         sku,
			SourceName:  record.Name,
			SourcePrice: record.Price,
			TargetName:  targetName,
			TargetPrice: targetPrice,
			PriceDelta:  types.CalculatePriceDelta(record.Price, targetPrice),
			Date:        record.Date,
		})
	}

	if err := e.sink.Append(products, e.cfg.Output.SourceReportPath); err != nil {
		return &types.StorageError{Path: e.cfg.Output.SourceReportPath, Err: err}
	}
	if err := e.sink.Append(comparisons, e.cfg.Output.ComparisonReportPath); err != nil {
		return &types.StorageError{Path: e.cfg.Output.ComparisonReportPath, Err: err}
	}

	e.metrics.LogSummary()
	return nil
}

// restartBrowser tears down both scrapers' sessions and the shared
// browser process, then brings fresh sessions back up. Reset errors are
// logged; the next scrape attempt will retry session creation anyway.
func (e *Engine) restartBrowser() {
	e.logger.Info("restarting browser to reset anti-bot tracking")

	e.source.Close()
	e.target.Close()
	e.browser.Shutdown()

	if err := e.source.ResetSession(); err != nil {
		e.logger.Error("failed to recreate source session", "error", err)
	}
	if err := e.target.ResetSession(); err != nil {
		e.logger.Error("failed to recreate target session", "error", err)
	}
	// Each ResetSession counts itself toward the session-reset counter.
	e.metrics.BrowserRestarts.Add(1)
}

// cleanup closes both scrapers and stops the shared browser exactly once.
func (e *Engine) cleanup() {
	e.cleanupOnce.Do(func() {
		e.source.Close()
		e.target.Close()
		e.browser.Shutdown()
		e.logger.Info("scrapers closed and browser shut down")
	})
}
