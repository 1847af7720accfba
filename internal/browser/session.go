package browser

import (
	"errors"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Session is one isolated browser context with a single page. A scraper
// holds at most one session at a time; a session never outlives the
// scraper's Close call or the shared process it belongs to.
type Session struct {
	context        *rod.Browser
	page           *rod.Page
	userAgent      string
	viewportWidth  int
	viewportHeight int
}

// Page returns the session's page handle.
func (s *Session) Page() *rod.Page { return s.page }

// UserAgent returns the user-agent this session identifies as.
func (s *Session) UserAgent() string { return s.userAgent }

// Viewport returns the session's viewport dimensions.
func (s *Session) Viewport() (width, height int) {
	return s.viewportWidth, s.viewportHeight
}

// HTML returns the current rendered markup of the session's page.
func (s *Session) HTML() (string, error) {
	return s.page.HTML()
}

// ClearCookies drops all cookies held by the session.
func (s *Session) ClearCookies() error {
	return proto.NetworkClearBrowserCookies{}.Call(s.page)
}

// ScrollToBottom scrolls the page to its full height, triggering
// lazy-loaded content.
func (s *Session) ScrollToBottom() error {
	_, err := s.page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

// ScrollToTop scrolls back to the top of the page.
func (s *Session) ScrollToTop() error {
	_, err := s.page.Eval(`() => window.scrollTo(0, 0)`)
	return err
}

// MoveMouse moves the pointer to page coordinates.
func (s *Session) MoveMouse(x, y float64) error {
	return s.page.Mouse.MoveTo(proto.Point{X: x, Y: y})
}

// close disposes the page and its incognito context. Closing the context
// of an incognito-derived browser only disposes that context, not the
// shared process.
func (s *Session) close() error {
	var errs []error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, err)
		}
		s.page = nil
	}
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, err)
		}
		s.context = nil
	}
	return errors.Join(errs...)
}
