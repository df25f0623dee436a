// Package skugen derives SKU codes for products created without one.
package skugen

import (
	"fmt"
	"strings"
	"unicode"
)

// Prefix takes the first alphabetic character of up to three words of the
// name, uppercased. A name with no alphabetic characters falls back to "P".
func Prefix(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if b.Len() >= 3 {
			break
		}
	}
	if b.Len() == 0 {
		return "P"
	}
	return b.String()
}

// Derive builds a SKU of the form PREFIX-NNNNNN from the product name and
// a time-derived seed. Attempt shifts the suffix so collisions can be
// retried without waiting.
func Derive(name string, seed int64, attempt int) string {
	suffix := (seed + int64(attempt)) % 1_000_000
	return fmt.Sprintf("%s-%06d", Prefix(name), suffix)
}
