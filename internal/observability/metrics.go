package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for a comparison run. The fetcher
// and scrapers increment the transport-level counters; the engine owns
// the per-SKU outcome counters.
type Metrics struct {
	PagesFetched        atomic.Int64
	PagesFailed         atomic.Int64
	CandidatesExtracted atomic.Int64
	ProductsScraped     atomic.Int64
	SKUsSkipped         atomic.Int64
	MatchesFound        atomic.Int64
	NoMatches           atomic.Int64
	SessionResets       atomic.Int64
	BrowserRestarts     atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves the counters in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"pricestalk_pages_fetched_total", "Pages navigated and rendered successfully", m.PagesFetched.Load()},
		{"pricestalk_pages_failed_total", "Page fetches that failed to navigate or render", m.PagesFailed.Load()},
		{"pricestalk_candidates_extracted_total", "Product candidates extracted from search-results pages", m.CandidatesExtracted.Load()},
		{"pricestalk_products_scraped_total", "Source-site products scraped successfully", m.ProductsScraped.Load()},
		{"pricestalk_skus_skipped_total", "SKUs skipped due to lookup, fetch, or parse failure", m.SKUsSkipped.Load()},
		{"pricestalk_matches_found_total", "Target-site matches above the similarity threshold", m.MatchesFound.Load()},
		{"pricestalk_no_matches_total", "Searches with no candidate above the threshold", m.NoMatches.Load()},
		{"pricestalk_session_resets_total", "Browser session resets, per-search and restart-driven", m.SessionResets.Load()},
		{"pricestalk_browser_restarts_total", "Full browser process restarts", m.BrowserRestarts.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// LogSummary emits a one-line run summary.
func (m *Metrics) LogSummary() {
	m.logger.Info("run summary",
		"pages_fetched", m.PagesFetched.Load(),
		"pages_failed", m.PagesFailed.Load(),
		"products_scraped", m.ProductsScraped.Load(),
		"skus_skipped", m.SKUsSkipped.Load(),
		"matches_found", m.MatchesFound.Load(),
		"no_matches", m.NoMatches.Load(),
		"browser_restarts", m.BrowserRestarts.Load(),
	)
}
