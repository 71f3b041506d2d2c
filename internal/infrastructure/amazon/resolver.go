package amazon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopscout/backend/internal/domain"
)

const (
	defaultDetailTimeout = 10 * time.Second

	// Variant chains are short in practice; a depth of 2 covers
	// child -> parent -> grandparent and guarantees termination on
	// cyclic references.
	defaultMaxDepth = 2
)

// parentRefPatterns find a parent-listing identifier embedded in a detail
// page, checked in order. Both forms are ten uppercase alphanumerics.
var parentRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"parentAsin":"([A-Z0-9]{10})"`),
	regexp.MustCompile(`data-dp-twister-parent-asin="([A-Z0-9]{10})"`),
}

// Resolver determines the buy-box price of a listing by fetching its
// detail page, following parent-listing references when the page belongs
// to a variant of a multi-variant listing.
type Resolver struct {
	client       Doer
	baseURL      string
	affiliateTag string
	timeout      time.Duration
	maxDepth     int
}

// ResolverConfig configures a Resolver. BaseURL is required; zero values
// elsewhere fall back to defaults.
type ResolverConfig struct {
	BaseURL      string
	AffiliateTag string
	Timeout      time.Duration
	MaxDepth     int
}

// NewResolver creates a detail-page price resolver.
func NewResolver(client Doer, cfg ResolverConfig) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultDetailTimeout
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = defaultMaxDepth
	}
	return &Resolver{
		client:       client,
		baseURL:      cfg.BaseURL,
		affiliateTag: cfg.AffiliateTag,
		timeout:      cfg.Timeout,
		maxDepth:     cfg.MaxDepth,
	}
}

// Resolve fetches the detail page for asin and determines its buy-box
// price. Every failure mode degrades to a zero price with the input
// identifier; Resolve never returns an error because an unresolved price
// only demotes a product, it does not invalidate it.
func (r *Resolver) Resolve(ctx context.Context, asin string) domain.PriceResolution {
	return r.resolve(ctx, asin, 0)
}

// ProductURL builds the canonical deep link for a listing identifier,
// carrying the affiliate tag when one is configured.
func (r *Resolver) ProductURL(asin string) string {
	link := fmt.Sprintf("%s/dp/%s", r.baseURL, asin)
	if r.affiliateTag != "" {
		link += "?tag=" + r.affiliateTag
	}
	return link
}

func (r *Resolver) resolve(ctx context.Context, asin string, depth int) domain.PriceResolution {
	unresolved := domain.PriceResolution{Price: 0, CanonicalASIN: asin}

	if depth > r.maxDepth {
		log.Printf("[RESOLVE] %s: depth ceiling reached, giving up", asin)
		return unresolved
	}

	headers := http.Header{}
	headers.Set("Referer", r.baseURL+"/")
	headers.Set("Cache-Control", "no-cache")

	resp, err := r.client.Get(ctx, r.baseURL+"/dp/"+asin, r.timeout, headers)
	if err != nil {
		log.Printf("[RESOLVE] %s: fetch failed: %v", asin, err)
		return unresolved
	}
	if !resp.OK() {
		log.Printf("[RESOLVE] %s: status %d", asin, resp.StatusCode)
		return unresolved
	}

	html := string(resp.Body)

	// A parent reference means this page describes one variant of a
	// multi-variant listing and its price may not be the one shoppers
	// see. Prefer the parent's resolved price; keep the parent as the
	// canonical identifier even when its own price cannot be resolved.
	canonical := asin
	for _, pattern := range parentRefPatterns {
		m := pattern.FindStringSubmatch(html)
		if m == nil || m[1] == asin {
			continue
		}
		canonical = m[1]
		log.Printf("[RESOLVE] %s: variant of %s (depth %d)", asin, canonical, depth)
		parent := r.resolve(ctx, canonical, depth+1)
		if parent.Price > 0 {
			return parent
		}
		log.Printf("[RESOLVE] %s: parent %s unpriced, falling back to variant page", asin, canonical)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("[RESOLVE] %s: parse failed: %v", asin, err)
		return unresolved
	}

	prices := collectDetailPrices(doc)
	if len(prices) == 0 {
		log.Printf("[RESOLVE] %s: no buy-box price found", asin)
		return unresolved
	}

	price, source := selectPrice(prices)
	log.Printf("[RESOLVE] %s: $%.2f via %s (canonical %s)", asin, price, source, canonical)
	return domain.PriceResolution{Price: price, CanonicalASIN: canonical}
}

// selectPrice picks the buy-box price from the tagged candidates. A price
// from one of the core buy-box regions is trusted outright; otherwise the
// most frequently occurring value wins, and a frequency tie goes to the
// higher price since promotional strikethrough values typically sit below
// the real one.
func selectPrice(prices []taggedPrice) (float64, string) {
	for _, p := range prices {
		if strings.HasPrefix(p.source, "core_display") || strings.HasPrefix(p.source, "core_desktop") {
			return p.value, p.source
		}
	}

	counts := make(map[float64]int, len(prices))
	for _, p := range prices {
		counts[p.value]++
	}

	var best float64
	bestCount := 0
	for value, count := range counts {
		if count > bestCount || (count == bestCount && value > best) {
			best = value
			bestCount = count
		}
	}
	return best, "frequency"
}
