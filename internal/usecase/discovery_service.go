package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shopscout/backend/internal/domain"
)

const (
	// Primary-source result counts at or above this skip the backfill
	// path entirely.
	sufficientCandidates = 10

	defaultThrottle = 300 * time.Millisecond
)

// DiscoveryService drives a query through the pipeline: primary search,
// fallback-query retry, secondary-source backfill, deduplication,
// ranking, diversification, and the sequential price-resolution pass.
// The service holds no per-query state; every invocation owns its
// candidate list end-to-end.
type DiscoveryService struct {
	preprocessor *QueryPreprocessor
	ranking      *RankingService
	primary      domain.ProductSource
	secondary    domain.ProductSource
	resolver     domain.PriceResolver
	throttle     *rate.Limiter
}

// NewDiscoveryService creates the pipeline orchestrator. The throttle
// interval spaces successive detail-page fetches during price resolution.
func NewDiscoveryService(primary, secondary domain.ProductSource, resolver domain.PriceResolver, throttle time.Duration) *DiscoveryService {
	if throttle <= 0 {
		throttle = defaultThrottle
	}
	return &DiscoveryService{
		preprocessor: NewQueryPreprocessor(),
		ranking:      NewRankingService(),
		primary:      primary,
		secondary:    secondary,
		resolver:     resolver,
		throttle:     rate.NewLimiter(rate.Every(throttle), 1),
	}
}

// Discover runs the full pipeline for one free-text query. An empty
// result is a valid outcome, never an error: source failures degrade to
// empty lists and the state machine works with whatever survives.
func (s *DiscoveryService) Discover(ctx context.Context, query string) []domain.Product {
	budget := s.preprocessor.ExtractBudget(query)
	cleaned := s.preprocessor.CleanQuery(query)
	log.Printf("[DISCOVER] query=%q cleaned=%q budget_max=%v", query, cleaned, budget.Max)

	candidates := s.primary.Search(ctx, cleaned, budget)
	log.Printf("[DISCOVER] %s returned %d candidates", s.primary.Name(), len(candidates))

	switch {
	case len(candidates) >= sufficientCandidates:
		final := s.ranking.Diversify(s.ranking.Rank(candidates))
		return s.resolvePrices(ctx, final)

	case len(candidates) == 0:
		// A fallback attempt is only worthwhile when relaxing actually
		// changes the query.
		if relaxed := s.preprocessor.FallbackQuery(cleaned); relaxed != cleaned {
			log.Printf("[DISCOVER] retrying with relaxed query %q", relaxed)
			fallback := s.primary.Search(ctx, relaxed, budget)
			if len(fallback) > 0 {
				final := s.ranking.Diversify(s.ranking.Rank(fallback))
				return s.resolvePrices(ctx, final)
			}
		}
	}

	// Thin or empty primary results: backfill from the secondary source
	// and return the deduplicated union without re-diversifying.
	backfill := s.secondary.Search(ctx, cleaned, budget)
	log.Printf("[DISCOVER] %s backfilled %d candidates", s.secondary.Name(), len(backfill))

	merged := dedupeByTitle(append(candidates, backfill...))
	return s.resolvePrices(ctx, merged)
}

// dedupeByTitle drops later entries whose normalized title matches an
// earlier one. First-source-wins: primary-source entries precede backfill
// entries in the merged list.
func dedupeByTitle(products []domain.Product) []domain.Product {
	seen := make(map[string]struct{}, len(products))
	unique := make([]domain.Product, 0, len(products))

	for _, p := range products {
		key := strings.ToLower(strings.TrimSpace(p.Title))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p)
	}

	return unique
}

// resolvePrices runs the final pass over candidates that carry a catalog
// identifier. Resolution is strictly sequential: the limiter is a
// deliberate serialization point spacing detail-page fetches, and
// parallelizing it would defeat the throttle.
func (s *DiscoveryService) resolvePrices(ctx context.Context, products []domain.Product) []domain.Product {
	for i := range products {
		if products[i].ASIN == "" {
			continue
		}

		if err := s.throttle.Wait(ctx); err != nil {
			log.Printf("[DISCOVER] resolution pass cancelled: %v", err)
			break
		}

		res := s.resolver.Resolve(ctx, products[i].ASIN)
		if res.Price <= 0 {
			continue
		}

		products[i].Price = res.Price
		if res.CanonicalASIN != "" && res.CanonicalASIN != products[i].ASIN {
			products[i].ASIN = res.CanonicalASIN
			products[i].URL = s.resolver.ProductURL(res.CanonicalASIN)
		}
	}

	return products
}
