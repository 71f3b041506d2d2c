package amazon

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopscout/backend/internal/domain"
	"github.com/shopscout/backend/internal/infrastructure/fetch"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxItems = 25

	// Listings with fewer reviews than this are too thinly validated to
	// surface as recommendations.
	minReviewCount = 10
)

// resultSelectors locate listing nodes on a search results page. Layout
// experiments mean no single selector is reliable across sessions; the
// first selector that matches any node is used for the whole page.
var resultSelectors = []string{
	".s-result-item[data-asin]:not([data-asin=''])",
	"div[data-component-type='s-search-result']",
	".sg-col-inner .s-card-container",
}

// Doer is the transport dependency shared by the scraper and resolver.
// *fetch.Client satisfies it.
type Doer interface {
	Get(ctx context.Context, rawURL string, timeout time.Duration, extra http.Header) (*fetch.Response, error)
}

// Scraper extracts product listings from marketplace search result pages.
type Scraper struct {
	client       Doer
	baseURL      string
	affiliateTag string
	timeout      time.Duration
	maxItems     int
}

// ScraperConfig configures a Scraper. Zero values fall back to defaults;
// BaseURL is required.
type ScraperConfig struct {
	BaseURL      string
	AffiliateTag string
	Timeout      time.Duration
	MaxItems     int
}

// NewScraper creates a search scraper for the given marketplace endpoint.
func NewScraper(client Doer, cfg ScraperConfig) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = defaultMaxItems
	}
	return &Scraper{
		client:       client,
		baseURL:      cfg.BaseURL,
		affiliateTag: cfg.AffiliateTag,
		timeout:      cfg.Timeout,
		maxItems:     cfg.MaxItems,
	}
}

// Name identifies the source in logs and degradation decisions.
func (s *Scraper) Name() string {
	return "amazon"
}

// Search fetches a search results page and extracts up to maxItems
// qualifying listings. Failures degrade to an empty slice; the search as
// a whole must survive a single source going dark.
func (s *Scraper) Search(ctx context.Context, query string, budget domain.Budget) []domain.Product {
	searchURL := fmt.Sprintf("%s/s?k=%s", s.baseURL, url.QueryEscape(query))
	if budget.IsHigh() {
		// High-budget intent flips the result ordering so premium
		// listings land in the scrape window.
		searchURL += "&s=price-desc-rank"
	}

	headers := http.Header{}
	headers.Set("Referer", "https://www.google.com/")

	resp, err := s.client.Get(ctx, searchURL, s.timeout, headers)
	if err != nil {
		log.Printf("[AMAZON] search %q failed: %v", query, err)
		return nil
	}
	if !resp.OK() {
		log.Printf("[AMAZON] search %q returned status %d", query, resp.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		log.Printf("[AMAZON] parse failed for %q: %v", query, err)
		return nil
	}

	for _, selector := range resultSelectors {
		nodes := doc.Find(selector)
		if nodes.Length() == 0 {
			continue
		}
		products := s.collectListings(nodes, budget)
		log.Printf("[AMAZON] %q matched %d nodes via %q, kept %d", query, nodes.Length(), selector, len(products))
		return products
	}

	log.Printf("[AMAZON] no listing nodes found for %q", query)
	return nil
}

// collectListings walks the matched nodes in page order, extracting and
// gating each one, and stops once maxItems listings qualify.
func (s *Scraper) collectListings(nodes *goquery.Selection, budget domain.Budget) []domain.Product {
	var products []domain.Product

	nodes.EachWithBreak(func(_ int, node *goquery.Selection) bool {
		asin := node.AttrOr("data-asin", "")
		if asin == "" {
			asin = node.Find("[data-asin]").First().AttrOr("data-asin", "")
		}
		if asin == "" {
			return true
		}

		title := extractTitle(node)
		if len(title) < domain.MinTitleLength {
			return true
		}

		price, source := extractListingPrice(node)
		if price <= 0 {
			return true
		}
		if !withinBudget(price, budget) {
			return true
		}

		rating := extractRating(node)
		reviews := extractReviewCount(node)
		if rating <= 0 || reviews < minReviewCount {
			return true
		}

		products = append(products, domain.Product{
			Title:       title,
			Price:       price,
			URL:         s.ProductURL(asin),
			Retailer:    "Amazon",
			ASIN:        asin,
			Image:       extractImage(node),
			Rating:      rating,
			ReviewCount: reviews,
		})
		log.Printf("[AMAZON] kept %s at $%.2f (%s)", asin, price, source)

		return len(products) < s.maxItems
	})

	return products
}

// ProductURL builds the canonical deep link for a listing identifier,
// carrying the affiliate tag when one is configured.
func (s *Scraper) ProductURL(asin string) string {
	link := fmt.Sprintf("%s/dp/%s", s.baseURL, asin)
	if s.affiliateTag != "" {
		link += "?tag=" + s.affiliateTag
	}
	return link
}

// withinBudget applies the price-band gates: anything more than 20% over
// the ceiling is out, and for high budgets anything under 20% of the
// ceiling is treated as an accessory rather than the product itself.
func withinBudget(price float64, budget domain.Budget) bool {
	if !budget.IsBounded() {
		return true
	}
	if price > budget.Max*1.2 {
		return false
	}
	if budget.IsHigh() && price < budget.Max*0.2 {
		return false
	}
	return true
}
