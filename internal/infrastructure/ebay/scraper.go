package ebay

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopscout/backend/internal/domain"
	"github.com/shopscout/backend/internal/infrastructure/fetch"
	"github.com/shopscout/backend/internal/infrastructure/parse"
)

const (
	defaultTimeout  = 8 * time.Second
	defaultMaxItems = 10

	// The first .s-item on a results page is a promotional placeholder
	// carrying this title rather than a listing.
	placeholderTitle = "Shop on eBay"
)

// Doer is the transport dependency. *fetch.Client satisfies it.
type Doer interface {
	Get(ctx context.Context, rawURL string, timeout time.Duration, extra http.Header) (*fetch.Response, error)
}

// Scraper extracts product listings from eBay search result pages. It is
// the secondary source: a smaller result window, no rating gate because
// listing cards rarely carry seller ratings, and no identifier since eBay
// item numbers play no role downstream.
type Scraper struct {
	client   Doer
	baseURL  string
	timeout  time.Duration
	maxItems int
}

// ScraperConfig configures a Scraper. Zero values fall back to defaults;
// BaseURL is required.
type ScraperConfig struct {
	BaseURL  string
	Timeout  time.Duration
	MaxItems int
}

// NewScraper creates a search scraper for the given eBay endpoint.
func NewScraper(client Doer, cfg ScraperConfig) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = defaultMaxItems
	}
	return &Scraper{
		client:   client,
		baseURL:  cfg.BaseURL,
		timeout:  cfg.Timeout,
		maxItems: cfg.MaxItems,
	}
}

// Name identifies the source in logs and degradation decisions.
func (s *Scraper) Name() string {
	return "ebay"
}

// Search fetches a search results page and extracts up to maxItems
// qualifying listings. Failures degrade to an empty slice.
func (s *Scraper) Search(ctx context.Context, query string, budget domain.Budget) []domain.Product {
	searchURL := fmt.Sprintf("%s/sch/i.html?_nkw=%s&_sacat=0", s.baseURL, url.QueryEscape(query))

	resp, err := s.client.Get(ctx, searchURL, s.timeout, nil)
	if err != nil {
		log.Printf("[EBAY] search %q failed: %v", query, err)
		return nil
	}
	if !resp.OK() {
		log.Printf("[EBAY] search %q returned status %d", query, resp.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		log.Printf("[EBAY] parse failed for %q: %v", query, err)
		return nil
	}

	var products []domain.Product
	doc.Find(".s-item").EachWithBreak(func(_ int, node *goquery.Selection) bool {
		title := strings.TrimSpace(node.Find(".s-item__title").Text())
		if title == placeholderTitle || len(title) < domain.MinTitleLength {
			return true
		}

		price := parse.Price(node.Find(".s-item__price").First().Text())
		if price <= 0 {
			return true
		}
		if !withinBudget(price, budget) {
			return true
		}

		link, _ := node.Find(".s-item__link").First().Attr("href")
		if link == "" {
			return true
		}
		image, _ := node.Find(".s-item__image-img").First().Attr("src")

		products = append(products, domain.Product{
			Title:    title,
			Price:    price,
			URL:      link,
			Retailer: "eBay",
			Image:    image,
		})

		return len(products) < s.maxItems
	})

	log.Printf("[EBAY] %q kept %d listings", query, len(products))
	return products
}

// withinBudget applies the same price bands as the primary source: over
// 20% above the ceiling is out, and for high budgets anything under 20%
// of the ceiling is treated as an accessory.
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
