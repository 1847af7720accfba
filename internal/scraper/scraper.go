// Package scraper holds the per-site extraction logic. Each site gets an
// independent strategy type over a common session/fetch capability, with
// its own markup selectors.
package scraper

import (
	"context"
	"log/slog"

	"github.com/pricestalk/pricestalk/internal/browser"
	"github.com/pricestalk/pricestalk/internal/observability"
)

// Fetcher retrieves rendered markup for a URL through a session.
type Fetcher interface {
	Fetch(ctx context.Context, sess *browser.Session, rawURL string) (string, error)
}

// Resolver maps a SKU to its product-page URL.
type Resolver interface {
	Resolve(sku string) (string, error)
}

// siteSession manages the single active session a site scraper holds.
type siteSession struct {
	client     *browser.Client
	userAgents []string
	session    *browser.Session
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// ensureSession returns the active session, opening one with a random
// user-agent if none exists. The shared browser process is launched
// lazily by the client when needed.
func (s *siteSession) ensureSession() (*browser.Session, error) {
	if s.session != nil {
		return s.session, nil
	}
	sess, err := s.client.NewSession(browser.RandomUserAgent(s.userAgents))
	if err != nil {
		return nil, err
	}
	s.session = sess
	return sess, nil
}

// ResetSession tears down the current session and opens a fresh one with
// a new random user-agent and cleared cookies, so the next request looks
// like a new anonymous visitor.
func (s *siteSession) ResetSession() error {
	s.client.CloseSession(s.session)
	s.session = nil

	sess, err := s.ensureSession()
	if err != nil {
		return err
	}
	if err := sess.ClearCookies(); err != nil {
		s.logger.Warn("failed to clear session cookies", "error", err)
	}
	s.metrics.SessionResets.Add(1)
	s.logger.Debug("session reset", "user_agent", sess.UserAgent())
	return nil
}

// Close releases the scraper's session. Safe to call repeatedly.
func (s *siteSession) Close() {
	s.client.CloseSession(s.session)
	s.session = nil
}
