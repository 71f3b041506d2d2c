package amazon

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopscout/backend/internal/infrastructure/parse"
)

// textStrategy produces one candidate value for a field from a listing
// node. Strategies for a field are tried in a fixed priority order; the
// first non-empty result wins. The ordering encodes which markup variant
// is most authoritative for the field.
type textStrategy func(*goquery.Selection) string

var titleStrategies = []textStrategy{
	func(s *goquery.Selection) string { return strings.TrimSpace(s.Find("h2 a span").Text()) },
	func(s *goquery.Selection) string { return strings.TrimSpace(s.Find(".a-size-medium").Text()) },
	func(s *goquery.Selection) string { return strings.TrimSpace(s.Find(".a-size-base-plus").Text()) },
}

func firstNonEmpty(node *goquery.Selection, strategies []textStrategy) string {
	for _, strategy := range strategies {
		if value := strategy(node); value != "" {
			return value
		}
	}
	return ""
}

func extractTitle(node *goquery.Selection) string {
	return firstNonEmpty(node, titleStrategies)
}

// extractListingPrice runs the listing-level price chain: the composite
// whole+fraction representation is the most authoritative, then the
// screen-reader offscreen text, then a loose match on the price span.
// Returns the price and the name of the strategy that produced it.
func extractListingPrice(node *goquery.Selection) (float64, string) {
	whole := strings.TrimSpace(node.Find(".a-price-whole").First().Text())
	if whole != "" {
		fraction := strings.TrimSpace(node.Find(".a-price-fraction").First().Text())
		if price := parse.Price(parse.CombineWholeFraction(whole, fraction)); price > 0 {
			return price, "whole+fraction"
		}
	}

	if offscreen := strings.TrimSpace(node.Find(".a-price .a-offscreen").First().Text()); offscreen != "" {
		if price := parse.Price(offscreen); price > 0 {
			return price, "a-offscreen"
		}
	}

	if general := strings.TrimSpace(node.Find("span.a-price").First().Text()); general != "" {
		if price := parse.Price(general); price > 0 {
			return price, "a-price-general"
		}
	}

	return 0, ""
}

func extractRating(node *goquery.Selection) float64 {
	return parse.Rating(strings.TrimSpace(node.Find(".a-icon-alt").First().Text()))
}

func extractReviewCount(node *goquery.Selection) int {
	return parse.ReviewCount(strings.TrimSpace(node.Find(".a-size-base.s-underline-text, .a-size-small .a-link-normal").First().Text()))
}

func extractImage(node *goquery.Selection) string {
	if src, ok := node.Find("img.s-image").First().Attr("src"); ok && src != "" {
		return src
	}
	if src, ok := node.Find("img").First().Attr("src"); ok {
		return src
	}
	return ""
}

// taggedPrice is one detail-page price together with the name of the
// buy-box region that produced it. The tag drives the resolver's
// tie-break policy.
type taggedPrice struct {
	value  float64
	source string
}

// buyBoxSelectors are the pre-combined price representations across the
// detail-page layout variants, most authoritative first.
var buyBoxSelectors = []struct {
	selector string
	name     string
}{
	{"#corePriceDisplay_desktop_feature_div .a-price .a-offscreen", "core_display_main"},
	{"#corePrice_desktop .a-price .a-offscreen", "core_desktop_main"},
	{".a-price.aok-align-center.reinventPricePriceToPayMargin .a-offscreen", "reinvent_price"},
	{"#apex_offerDisplay_desktop .a-price .a-offscreen", "apex_desktop_offscreen"},
	{"#apex_desktop .a-price .a-offscreen", "apex_alt_offscreen"},
	{"#price_inside_buybox", "classic_buybox"},
	{"#priceblock_ourprice", "priceblock_ourprice"},
	{"#priceblock_dealprice", "priceblock_dealprice"},
}

// compositeSelectors are the whole+fraction split representations of the
// same buy-box regions.
var compositeSelectors = []struct {
	whole    string
	fraction string
	name     string
}{
	{"#corePriceDisplay_desktop_feature_div .a-price-whole", "#corePriceDisplay_desktop_feature_div .a-price-fraction", "core_display_composite"},
	{"#corePrice_desktop .a-price-whole", "#corePrice_desktop .a-price-fraction", "core_desktop_composite"},
	{"#apex_offerDisplay_desktop .a-price-whole", "#apex_offerDisplay_desktop .a-price-fraction", "apex_composite"},
	{"#apex_desktop .a-price-whole", "#apex_desktop .a-price-fraction", "apex_alt_composite"},
	{"#corePrice_feature_div .a-price-whole", "#corePrice_feature_div .a-price-fraction", "core_price"},
}

// collectDetailPrices runs every buy-box strategy against a detail page
// and collects each positive price tagged by the strategy that found it.
func collectDetailPrices(doc *goquery.Document) []taggedPrice {
	var prices []taggedPrice

	for _, bb := range buyBoxSelectors {
		text := strings.TrimSpace(doc.Find(bb.selector).First().Text())
		if text == "" {
			continue
		}
		if price := parse.Price(text); price > 0 {
			prices = append(prices, taggedPrice{value: price, source: bb.name})
		}
	}

	for _, cs := range compositeSelectors {
		whole := strings.TrimSpace(doc.Find(cs.whole).First().Text())
		if whole == "" {
			continue
		}
		fraction := strings.TrimSpace(doc.Find(cs.fraction).First().Text())
		if price := parse.Price(parse.CombineWholeFraction(whole, fraction)); price > 0 {
			prices = append(prices, taggedPrice{value: price, source: cs.name})
		}
	}

	return prices
}
