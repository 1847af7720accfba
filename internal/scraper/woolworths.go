package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pricestalk/pricestalk/internal/browser"
	"github.com/pricestalk/pricestalk/internal/config"
	"github.com/pricestalk/pricestalk/internal/matcher"
	"github.com/pricestalk/pricestalk/internal/observability"
	"github.com/pricestalk/pricestalk/internal/types"
)

// Search-results selectors, determined by inspecting the rendered markup.
const (
	tileSelector      = "wc-product-tile"
	tilePriceSelector = ".product-tile-price .primary"
)

// Woolworths searches the target site and matches candidates against a
// source product name.
type Woolworths struct {
	siteSession
	fetcher Fetcher
	matcher *matcher.Matcher
	cfg     *config.TargetConfig
	logger  *slog.Logger
}

// NewWoolworths creates the target-site scraper.
func NewWoolworths(client *browser.Client, f Fetcher, m *matcher.Matcher, cfg *config.TargetConfig, bcfg *config.BrowserConfig, metrics *observability.Metrics, logger *slog.Logger) *Woolworths {
	l := logger.With("component", "woolworths_scraper")
	return &Woolworths{
		siteSession: siteSession{
			client:     client,
			userAgents: bcfg.UserAgents,
			metrics:    metrics,
			logger:     l,
		},
		fetcher: f,
		matcher: m,
		cfg:     cfg,
		logger:  l,
	}
}

// BuildSearchURL percent-encodes the query into the search endpoint
// template.
func (w *Woolworths) BuildSearchURL(query string) string {
	return fmt.Sprintf(w.cfg.SearchURLTemplate, url.QueryEscape(query))
}

// SearchAndMatch searches the target site for query and returns the best
// matching candidate's name and price. ok is false when the search page
// fails to load or no candidate clears the similarity threshold.
//
// Each search runs in a freshly reset session (new random user-agent,
// cleared cookies) so consecutive queries cannot be correlated into one
// browsing pattern.
func (w *Woolworths) SearchAndMatch(ctx context.Context, query string) (name, price string, ok bool) {
	if err := w.ResetSession(); err != nil {
		w.logger.Error("failed to reset session for search", "query", query, "error", err)
		return "", "", false
	}
	sess := w.session

	searchURL := w.BuildSearchURL(query)
	w.logger.Info("searching target site", "query", query, "url", searchURL)

	html, err := w.fetcher.Fetch(ctx, sess, searchURL)
	if err != nil {
		w.logger.Warn("failed to fetch search results page", "query", query, "error", err)
		return "", "", false
	}

	// Candidate tiles populate asynchronously as the page scrolls, so
	// force them to render before reading the markup back.
	html = w.triggerLazyLoad(sess, html)

	w.wiggleMouse(sess)

	candidates := w.ExtractCandidates(html)
	w.logger.Debug("candidates extracted", "query", query, "count", len(candidates))

	best := w.matcher.SelectBest(query, candidates)
	if best == nil {
		w.logger.Warn("no exact nor similar match on target site", "query", query)
		return "", "", false
	}
	return best.Name, best.Price, true
}

// triggerLazyLoad scrolls to the bottom and back to the top with fixed
// waits, then re-reads the rendered markup. On any failure it returns the
// markup it already has.
func (w *Woolworths) triggerLazyLoad(sess *browser.Session, html string) string {
	if err := sess.ScrollToBottom(); err != nil {
		w.logger.Warn("scroll to bottom failed", "error", err)
		return html
	}
	time.Sleep(w.cfg.ScrollDownWait)

	if err := sess.ScrollToTop(); err != nil {
		w.logger.Warn("scroll to top failed", "error", err)
	}
	time.Sleep(w.cfg.ScrollUpWait)

	rendered, err := sess.HTML()
	if err != nil {
		w.logger.Warn("failed to re-read page after scrolling", "error", err)
		return html
	}
	return rendered
}

// wiggleMouse moves the pointer to a random point inside the viewport.
func (w *Woolworths) wiggleMouse(sess *browser.Session) {
	width, height := sess.Viewport()
	x := float64(rand.Intn(width))
	y := float64(rand.Intn(height))
	if err := sess.MoveMouse(x, y); err != nil {
		w.logger.Warn("mouse move failed", "error", err)
	}
}

// ExtractCandidates parses search-results markup into candidate products.
// A tile missing any of name, price, or URL is dropped whole rather than
// emitted partially filled, and one bad tile never aborts the rest.
func (w *Woolworths) ExtractCandidates(html string) []types.Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		w.logger.Error("failed to parse search-results markup", "error", err)
		return nil
	}

	base, err := url.Parse(w.cfg.BaseURL)
	if err != nil {
		w.logger.Error("invalid target base URL", "base_url", w.cfg.BaseURL, "error", err)
		return nil
	}

	var candidates []types.Candidate
	doc.Find(tileSelector).Each(func(i int, tile *goquery.Selection) {
		candidate, ok := w.extractTile(i, tile, base)
		if ok {
			candidates = append(candidates, candidate)
		}
	})
	w.metrics.CandidatesExtracted.Add(int64(len(candidates)))
	return candidates
}

// extractTile reads one product tile. Recovered panics count as a dropped
// tile.
func (w *Woolworths) extractTile(idx int, tile *goquery.Selection, base *url.URL) (candidate types.Candidate, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			w.logger.Error("error extracting candidate from tile", "tile", idx, "cause", p)
			ok = false
		}
	}()

	link := tile.Find("a").First()
	if link.Length() == 0 {
		w.logger.Warn("tile has no link element", "tile", idx)
		return types.Candidate{}, false
	}

	name := strings.TrimSpace(link.Text())
	if name == "" {
		// Image-only tiles carry the product name in the image title.
		name = strings.TrimSpace(link.Find("img").First().AttrOr("title", ""))
	}

	href := strings.TrimSpace(link.AttrOr("href", ""))

	price := ""
	if priceNode := tile.Find(tilePriceSelector).First(); priceNode.Length() > 0 {
		price = strings.TrimSpace(priceNode.Text())
	}

	if name == "" || href == "" || price == "" {
		w.logger.Warn("dropping tile with missing fields",
			"tile", idx, "name", name, "href", href, "price", price)
		return types.Candidate{}, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		w.logger.Warn("dropping tile with unparseable href", "tile", idx, "href", href)
		return types.Candidate{}, false
	}

	return types.Candidate{
		Name:  name,
		Price: price,
		URL:   base.ResolveReference(ref).String(),
	}, true
}
