package types

import (
	"time"
)

// DateFormat is the observation-date layout used in all output records.
const DateFormat = "2006-01-02"

// NotFound marks a target-site field that could not be matched.
const NotFound = "Not Found"

// ProductRecord is a single product observation from the source site.
// JSON keys match the phase-1 report format.
type ProductRecord struct {
	SKU   string `json:"SKU"`
	Name  string `json:"Product Name"`
	Price string `json:"Price"`
	Date  string `json:"Date"`
}

// NewProductRecord creates a record observed now.
func NewProductRecord(sku, name, price string) *ProductRecord {
	return &ProductRecord{
		SKU:   sku,
		Name:  name,
		Price: price,
		Date:  time.Now().Format(DateFormat),
	}
}

// Candidate is one product entry extracted from a search-results page,
// pending match evaluation. List order follows page render order.
type Candidate struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// ComparisonRecord joins a source-site product with its best target-site
// match. JSON keys match the phase-2 report format.
type ComparisonRecord struct {
	SKU         string `json:"SKU"`
	SourceName  string `json:"Product Name The Reject Shop"`
	SourcePrice string `json:"Price_RejectShop"`
	TargetName  string `json:"Product Name Woolworths"`
	TargetPrice string `json:"Price_Woolworths"`
	PriceDelta  string `json:"Price Difference"`
	Date        string `json:"Date"`
}
