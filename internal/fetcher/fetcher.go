package fetcher

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pricestalk/pricestalk/internal/browser"
	"github.com/pricestalk/pricestalk/internal/config"
	"github.com/pricestalk/pricestalk/internal/observability"
	"github.com/pricestalk/pricestalk/internal/types"
)

// PageFetcher navigates a session to a URL and returns the rendered
// markup. Every successful fetch is followed by a randomized delay to
// decorrelate request timing from automated patterns; the delay is part
// of the contract, not an optimization knob.
type PageFetcher struct {
	cfg     *config.FetcherConfig
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates a page fetcher.
func New(cfg *config.FetcherConfig, metrics *observability.Metrics, logger *slog.Logger) *PageFetcher {
	return &PageFetcher{
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With("component", "page_fetcher"),
	}
}

// Fetch navigates the session's page to rawURL, waits for the configured
// load event bounded by the navigation timeout, applies the human-like
// delay, and returns the rendered HTML. Navigation and load failures are
// returned as a FetchError; callers treat them as a skipped unit of work.
func (f *PageFetcher) Fetch(ctx context.Context, sess *browser.Session, rawURL string) (string, error) {
	if sess == nil {
		f.metrics.PagesFailed.Add(1)
		return "", &types.FetchError{URL: rawURL, Err: types.ErrNoSession}
	}

	page := sess.Page().Context(ctx)
	timeout := f.cfg.NavigationTimeout

	if err := page.Timeout(timeout).Navigate(rawURL); err != nil {
		f.logger.Error("navigation failed", "url", rawURL, "error", err)
		f.metrics.PagesFailed.Add(1)
		return "", &types.FetchError{URL: rawURL, Err: err}
	}

	switch f.cfg.WaitEvent {
	case "stable":
		if err := page.Timeout(timeout).WaitStable(300 * time.Millisecond); err != nil {
			f.logger.Warn("page stability timeout, continuing", "url", rawURL, "error", err)
		}
	default: // "load"
		if err := page.Timeout(timeout).WaitLoad(); err != nil {
			f.logger.Error("page load timed out", "url", rawURL, "error", err)
			f.metrics.PagesFailed.Add(1)
			return "", &types.FetchError{URL: rawURL, Err: err}
		}
	}

	f.humanDelay()

	html, err := page.HTML()
	if err != nil {
		f.logger.Error("failed to read rendered page", "url", rawURL, "error", err)
		f.metrics.PagesFailed.Add(1)
		return "", &types.FetchError{URL: rawURL, Err: err}
	}

	f.metrics.PagesFetched.Add(1)
	f.logger.Debug("page fetched", "url", rawURL, "size", len(html))
	return html, nil
}

// humanDelay sleeps for a duration sampled uniformly from
// [DelayMin, DelayMax].
func (f *PageFetcher) humanDelay() {
	delay := f.cfg.DelayMin
	if span := f.cfg.DelayMax - f.cfg.DelayMin; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span) + 1))
	}
	f.logger.Debug("pacing delay before next request", "delay", delay)
	time.Sleep(delay)
}
