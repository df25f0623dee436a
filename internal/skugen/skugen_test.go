package skugen

import (
	"regexp"
	"testing"
)

var skuPattern = regexp.MustCompile(`^[A-Z]{1,3}-\d{6}$`)

func TestPrefix(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Blue Cushion Cover", "BCC"},
		{"Saree", "S"},
		{"Silk Saree Premium Edition", "SSP"},
		{"  towel  ", "T"},
		{"123 456", "P"},
		{"", "P"},
	}

	for _, tt := range tests {
		if got := Prefix(tt.name); got != tt.want {
			t.Errorf("Prefix(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDeriveFormat(t *testing.T) {
	names := []string{"Blue Cushion Cover", "Saree", "handwoven towel", "x"}
	for _, name := range names {
		sku := Derive(name, 1718000000123456789, 0)
		if !skuPattern.MatchString(sku) {
			t.Errorf("Derive(%q) = %q, want match for %s", name, sku, skuPattern)
		}
	}
}

func TestDeriveAttemptShiftsSuffix(t *testing.T) {
	first := Derive("Towel", 42, 0)
	second := Derive("Towel", 42, 1)
	if first == second {
		t.Errorf("expected different SKUs across attempts, both %q", first)
	}
}
