package types

import (
	"testing"
)

func TestCalculatePriceDelta(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"simple difference", "$3.45", "$4.00", "$0.55"},
		{"equal prices", "$5.00", "$5.00", "$0.00"},
		{"whitespace tolerated", " $3.45 ", "$4.00", "$0.55"},
		{"missing dollar sign left", "3.45", "$4.00", "N/A"},
		{"missing dollar sign right", "$3.45", "4.00", "N/A"},
		{"non-numeric", "$abc", "$4.00", "N/A"},
		{"empty left", "", "$4.00", "N/A"},
		{"empty both", "", "", "N/A"},
		{"sentinel price", "Price Not Found", "$4.00", "N/A"},
		{"not found sentinel", "$3.45", "Not Found", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePriceDelta(tt.a, tt.b); got != tt.want {
				t.Errorf("CalculatePriceDelta(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCalculatePriceDeltaSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"$3.45", "$4.00"},
		{"$10.00", "$2.50"},
		{"$0.00", "$0.00"},
		{"garbage", "$1.00"},
		{"", ""},
	}

	for _, p := range pairs {
		ab := CalculatePriceDelta(p[0], p[1])
		ba := CalculatePriceDelta(p[1], p[0])
		if ab != ba {
			t.Errorf("delta not symmetric for (%q, %q): %q vs %q", p[0], p[1], ab, ba)
		}
	}
}

func TestNewProductRecordDateFormat(t *testing.T) {
	rec := NewProductRecord("30061292", "Palmolive Naturals Shampoo 350ml", "$3.45")

	if len(rec.Date) != len("2006-01-02") {
		t.Errorf("unexpected date format: %q", rec.Date)
	}
	if rec.SKU != "30061292" || rec.Price != "$3.45" {
		t.Errorf("unexpected record: %+v", rec)
	}
}
