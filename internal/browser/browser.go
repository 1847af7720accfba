package browser

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/pricestalk/pricestalk/internal/config"
)

// Client owns the single shared headless browser process and hands out
// isolated sessions. The process is launched lazily on the first session
// and torn down by Shutdown; restarting it is the orchestrator's call,
// never an individual scraper's.
type Client struct {
	mu      sync.Mutex
	browser *rod.Browser
	cfg     *config.BrowserConfig
	logger  *slog.Logger
}

// NewClient creates a render client. No browser process is started yet.
func NewClient(cfg *config.BrowserConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger.With("component", "browser_client"),
	}
}

// NewSession opens an isolated browser context (own cookies, user-agent,
// viewport) with a single stealth-patched page, launching the shared
// browser process first if it is not running.
func (c *Client) NewSession(userAgent string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser == nil {
		if err := c.launch(); err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
	}

	incognito, err := c.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("create incognito context: %w", err)
	}

	page, err := stealth.Page(incognito)
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("create stealth page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		c.logger.Warn("failed to set user agent", "error", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             c.cfg.ViewportWidth,
		Height:            c.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}); err != nil {
		c.logger.Warn("failed to set viewport", "error", err)
	}

	c.logger.Debug("session started",
		"user_agent", userAgent,
		"viewport_width", c.cfg.ViewportWidth,
		"viewport_height", c.cfg.ViewportHeight,
	)

	return &Session{
		context:        incognito,
		page:           page,
		userAgent:      userAgent,
		viewportWidth:  c.cfg.ViewportWidth,
		viewportHeight: c.cfg.ViewportHeight,
	}, nil
}

// CloseSession disposes a session's page and context. Failures are logged
// and swallowed: cleanup must never abort an in-progress batch.
func (c *Client) CloseSession(s *Session) {
	if s == nil {
		return
	}
	if err := s.close(); err != nil {
		c.logger.Warn("failed to close session", "error", err)
	}
}

// Shutdown stops the shared browser process and invalidates all sessions.
// Safe to call when the process is already stopped.
func (c *Client) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser == nil {
		return
	}
	if err := c.browser.Close(); err != nil {
		c.logger.Warn("failed to close browser", "error", err)
	}
	c.browser = nil
	c.logger.Info("browser process stopped")
}

// launch starts the shared browser process. Caller holds c.mu.
func (c *Client) launch() error {
	l := launcher.New().
		Headless(c.cfg.Headless).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled")

	if c.cfg.Bin != "" {
		l = l.Bin(c.cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return err
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return err
	}

	c.browser = b
	c.logger.Info("browser process started", "headless", c.cfg.Headless)
	return nil
}
