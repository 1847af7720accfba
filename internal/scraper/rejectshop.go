package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/pricestalk/pricestalk/internal/browser"
	"github.com/pricestalk/pricestalk/internal/config"
	"github.com/pricestalk/pricestalk/internal/observability"
	"github.com/pricestalk/pricestalk/internal/types"
)

// Sentinel field values emitted when a detail page is missing an expected
// node. A partially readable page still yields a usable record.
const (
	UnknownProduct = "Unknown Product"
	SKUNotFound    = "SKU Not Found"
	PriceNotFound  = "Price Not Found"
)

// Detail-page selectors, determined by inspecting the rendered markup.
// Class names carry build hashes, so matching is by stable substring.
const (
	detailNameXPath  = `//h1[@data-testid="product-title"]`
	detailSKUXPath   = `//p[contains(@class, "pdp-sku")]`
	detailPriceXPath = `//div[contains(@class, "product-price")]`
)

// RejectShop scrapes product detail pages from the source site.
type RejectShop struct {
	siteSession
	fetcher  Fetcher
	resolver Resolver
	logger   *slog.Logger
}

// NewRejectShop creates the source-site scraper.
func NewRejectShop(client *browser.Client, f Fetcher, r Resolver, cfg *config.BrowserConfig, metrics *observability.Metrics, logger *slog.Logger) *RejectShop {
	l := logger.With("component", "rejectshop_scraper")
	return &RejectShop{
		siteSession: siteSession{
			client:     client,
			userAgents: cfg.UserAgents,
			metrics:    metrics,
			logger:     l,
		},
		fetcher:  f,
		resolver: r,
		logger:   l,
	}
}

// ScrapeBySKU resolves a SKU to its product URL, fetches the rendered
// detail page, and parses it. Any stage failure logs the reason and
// returns nil so the caller can skip the SKU and move on.
func (r *RejectShop) ScrapeBySKU(ctx context.Context, sku string) *types.ProductRecord {
	productURL, err := r.resolver.Resolve(sku)
	if err != nil {
		r.logger.Error("no product URL for SKU", "sku", sku, "error", err)
		return nil
	}

	sess, err := r.ensureSession()
	if err != nil {
		r.logger.Error("failed to open session", "sku", sku, "error", err)
		return nil
	}

	r.logger.Info("scraping product page", "sku", sku, "url", productURL)
	html, err := r.fetcher.Fetch(ctx, sess, productURL)
	if err != nil {
		r.logger.Error("failed to fetch product page", "sku", sku, "error", err)
		return nil
	}

	rec, err := r.ParseDetailPage(html, sku)
	if err != nil {
		r.logger.Error("failed to parse product page", "sku", sku, "error", err)
		return nil
	}
	r.logger.Info("scraped product", "sku", rec.SKU, "name", rec.Name, "price", rec.Price)
	return rec
}

// ParseDetailPage extracts a product record from detail-page markup.
// Missing nodes degrade to sentinel values; an unexpected structural
// failure returns a ParseError, never a panic. expectedSKU is used only
// to cross-check the extracted SKU, not to override it.
func (r *RejectShop) ParseDetailPage(markup, expectedSKU string) (rec *types.ProductRecord, err error) {
	defer func() {
		if p := recover(); p != nil {
			rec = nil
			err = &types.ParseError{Err: fmt.Errorf("unexpected parse failure: %v", p)}
		}
	}()

	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, &types.ParseError{Err: err}
	}

	name := UnknownProduct
	if text := queryText(doc, detailNameXPath); text != "" {
		name = text
	}

	sku := SKUNotFound
	if text := queryText(doc, detailSKUXPath); text != "" {
		if extracted := strings.TrimSpace(strings.TrimPrefix(text, "SKU:")); extracted != "" {
			sku = extracted
		}
	}
	if sku != expectedSKU {
		r.logger.Warn("extracted SKU differs from requested SKU",
			"expected", expectedSKU, "extracted", sku)
	}

	price := PriceNotFound
	// The price is split across spans ("$", "3", ".45"); joining the
	// fields concatenates them back.
	if text := collapseWhitespace(queryText(doc, detailPriceXPath)); text != "" {
		price = text
	}

	return types.NewProductRecord(sku, name, price), nil
}

// queryText returns the trimmed inner text of the first node matching the
// XPath expression, or "" when nothing matches.
func queryText(doc *html.Node, xpath string) string {
	node, err := htmlquery.Query(doc, xpath)
	if err != nil || node == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(node))
}

// collapseWhitespace trims and removes inner whitespace so span-split
// prices join cleanly.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
