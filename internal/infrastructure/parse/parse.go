// Package parse holds the field-level text normalizers shared by the
// marketplace scrapers. These are pure functions with no rejection
// policy; deciding what to do with a zero value belongs to callers.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	nonPriceChars  = regexp.MustCompile(`[^0-9.]`)
	ratingPattern  = regexp.MustCompile(`(\d+\.?\d*)\s*out of`)
	reviewsPattern = regexp.MustCompile(`([\d,]+)`)
)

// Price normalizes a raw price string by stripping every character except
// digits and decimal points, then parsing the remainder as a decimal
// amount. A parse failure yields 0, the "unresolved" sentinel, never an
// error. Normalization is idempotent: an already-clean numeric string
// round-trips to the same value.
func Price(text string) float64 {
	cleaned := nonPriceChars.ReplaceAllString(text, "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// CombineWholeFraction joins the split price representation some listing
// markup uses. The whole part sometimes carries its own trailing decimal
// point, so it is stripped before joining; a missing fraction means even
// dollars.
func CombineWholeFraction(whole, fraction string) string {
	whole = strings.TrimSuffix(strings.TrimSpace(whole), ".")
	if fraction == "" {
		fraction = "00"
	}
	return whole + "." + fraction
}

// Rating matches the "X out of 5" pattern in review alt text. Missing,
// unparseable, or out-of-range ratings yield 0.
func Rating(text string) float64 {
	m := ratingPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	rating, err := strconv.ParseFloat(m[1], 64)
	if err != nil || rating < 0 || rating > 5 {
		return 0
	}
	return rating
}

// ReviewCount matches the leading integer group with thousands
// separators stripped.
func ReviewCount(text string) int {
	m := reviewsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	count, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || count < 0 {
		return 0
	}
	return count
}
