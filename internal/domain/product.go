package domain

import "math"

// Product is the canonical output unit of the discovery pipeline.
// A zero Price means the price could not be resolved; it is a sentinel,
// not an error.
type Product struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	URL         string  `json:"url"`
	Retailer    string  `json:"retailer"` // e.g. "Amazon", "eBay"
	ASIN        string  `json:"asin,omitempty"`
	Image       string  `json:"image,omitempty"`
	Rating      float64 `json:"rating,omitempty"`      // 0-5 scale
	ReviewCount int     `json:"reviewCount,omitempty"` // non-negative
}

// MinTitleLength rejects noise matches during listing extraction.
const MinTitleLength = 5

// HighBudget is the ceiling above which searches are biased toward
// premium results (price-descending sort, accessory filtering).
const HighBudget = 150.0

// Budget is the spending ceiling parsed out of a free-text query.
// Max is +Inf when the query names no limit.
type Budget struct {
	Min float64
	Max float64
}

// UnboundedBudget returns a budget with no spending ceiling.
func UnboundedBudget() Budget {
	return Budget{Max: math.Inf(1)}
}

// IsBounded reports whether the query named an explicit ceiling.
func (b Budget) IsBounded() bool {
	return !math.IsInf(b.Max, 1)
}

// IsHigh reports whether the budget qualifies for the premium search bias.
func (b Budget) IsHigh() bool {
	return b.IsBounded() && b.Max >= HighBudget
}

// PriceResolution is the ephemeral result of resolving one catalog
// identifier to its authoritative price. CanonicalASIN differs from the
// requested identifier when the fetched listing is a variant of a parent
// listing.
type PriceResolution struct {
	Price         float64
	CanonicalASIN string
}

// SearchRequest is the inbound payload for a discovery query.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}
