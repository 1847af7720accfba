package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PriceDeltaUnavailable is emitted when either price cannot be parsed.
const PriceDeltaUnavailable = "N/A"

// CalculatePriceDelta returns the absolute difference between two
// currency-formatted prices (e.g. "$3.45"), formatted as "$%.2f".
// If either input is missing the "$" marker or does not parse as a
// number, it returns PriceDeltaUnavailable. The result is symmetric.
func CalculatePriceDelta(a, b string) string {
	pa, okA := parseCurrency(a)
	pb, okB := parseCurrency(b)
	if !okA || !okB {
		return PriceDeltaUnavailable
	}
	return fmt.Sprintf("$%.2f", math.Abs(pa-pb))
}

// parseCurrency extracts the numeric value from a "$x.yz" string.
func parseCurrency(s string) (float64, bool) {
	if !strings.Contains(s, "$") {
		return 0, false
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, "$", ""))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
