package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pricestalk/pricestalk/internal/types"
)

// LoadSKUs reads SKU identifiers from a newline-delimited text file,
// trimming whitespace and skipping blank lines. A missing or unreadable
// file is fatal to the run, so the error is returned rather than logged
// away.
func LoadSKUs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read SKU file %s: %w", path, err)
	}

	var skus []string
	for _, line := range strings.Split(string(data), "\n") {
		sku := strings.TrimSpace(line)
		if sku == "" {
			continue
		}
		skus = append(skus, sku)
	}
	return skus, nil
}

// Mapping resolves a SKU to its product-page URL on the source site.
// The mapping is static; a dynamic site-search lookup could replace it
// behind the same Resolve signature.
type Mapping struct {
	urls   map[string]string
	logger *slog.Logger
}

// NewMapping creates a resolver over the given SKU to URL map, falling
// back to the built-in product set when the map is empty.
func NewMapping(urls map[string]string, logger *slog.Logger) *Mapping {
	if len(urls) == 0 {
		urls = DefaultProductURLs()
	}
	return &Mapping{
		urls:   urls,
		logger: logger.With("component", "catalog"),
	}
}

// Resolve returns the product-page URL for a SKU.
func (m *Mapping) Resolve(sku string) (string, error) {
	u, ok := m.urls[sku]
	if !ok {
		m.logger.Error("SKU not found in the URL mapping", "sku", sku)
		return "", fmt.Errorf("resolve SKU %s: %w", sku, types.ErrUnmappedSKU)
	}
	return u, nil
}

// DefaultProductURLs returns the built-in SKU to product-URL mapping.
func DefaultProductURLs() map[string]string {
	return map[string]string{
		"30061292": "https://www.rejectshop.com.au/p/palmolive-naturals-shampoo-coconut-cream-350ml",
		"30113527": "https://www.rejectshop.com.au/p/whiskas-jellymeat-400g",
		"30115549": "https://www.rejectshop.com.au/p/twisties-party-bag-cheese-270g",
		"30043588": "https://www.rejectshop.com.au/p/quilton-aloe-vera-tissue-3ply-95pk",
		"30087959": "https://www.rejectshop.com.au/p/jif-surface-cleaner-lemon-scent-500ml",
	}
}
