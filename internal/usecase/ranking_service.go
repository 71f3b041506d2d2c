package usecase

import (
	"math"
	"sort"

	"github.com/shopscout/backend/internal/domain"
)

const (
	// Result sets at or below this size are returned as-is; there is
	// nothing to diversify.
	diversifyThreshold = 10

	// Upper bound on the diversified result set.
	maxDiversified = 15

	// A price spread wider than this switches the band split from
	// 30/40/30 to quartile-based, widening the middle band.
	wideSpread = 100.0
)

// RankingService orders candidates by review confidence and selects a
// price-diverse subset spanning budget, mid, and premium tiers.
type RankingService struct{}

// NewRankingService creates a new ranking service
func NewRankingService() *RankingService {
	return &RankingService{}
}

// Rank sorts candidates by descending confidence score. The sort is
// stable: items with identical scores keep their relative input order,
// which preserves the upstream relevance ordering as a tie-break.
func (s *RankingService) Rank(products []domain.Product) []domain.Product {
	ranked := make([]domain.Product, len(products))
	copy(ranked, products)

	sort.SliceStable(ranked, func(i, j int) bool {
		return confidenceScore(ranked[i]) > confidenceScore(ranked[j])
	})

	return ranked
}

// confidenceScore weighs rating strength against review volume. Unrated
// or unreviewed items score zero on the respective term: for scraped
// listings the absence of rating data is itself a quality signal, so no
// baseline credit is given.
func confidenceScore(p domain.Product) float64 {
	var score float64
	if p.Rating > 0 {
		score = p.Rating / 5 * 50
	}

	switch {
	case p.ReviewCount >= 1000:
		score += 30
	case p.ReviewCount >= 500:
		score += 25
	case p.ReviewCount >= 100:
		score += 20
	case p.ReviewCount >= 50:
		score += 15
	case p.ReviewCount >= 10:
		score += 10
	}

	return score
}

// Diversify selects a subset spanning the observed price range instead of
// the single highest-scoring cluster. Identity for small inputs; larger
// inputs are split into three price bands whose boundaries depend on the
// absolute spread, concatenated budget tier first, and truncated. Both
// price extremes always survive.
func (s *RankingService) Diversify(products []domain.Product) []domain.Product {
	if len(products) <= diversifyThreshold {
		return products
	}

	byPrice := make([]domain.Product, len(products))
	copy(byPrice, products)
	sort.SliceStable(byPrice, func(i, j int) bool {
		return byPrice[i].Price < byPrice[j].Price
	})

	n := len(byPrice)
	spread := byPrice[n-1].Price - byPrice[0].Price

	var lowCut, highCut int
	if spread > wideSpread {
		lowCut = int(math.Ceil(0.25 * float64(n)))
		highCut = int(math.Floor(0.75 * float64(n)))
	} else {
		lowCut = int(math.Ceil(0.3 * float64(n)))
		highCut = int(math.Floor(0.7 * float64(n)))
	}

	budgetTier := byPrice[:lowCut]
	midTier := byPrice[lowCut:highCut]
	premiumTier := byPrice[highCut:]

	diverse := make([]domain.Product, 0, n)
	diverse = append(diverse, budgetTier...)
	diverse = append(diverse, midTier...)
	diverse = append(diverse, premiumTier...)

	if len(diverse) > maxDiversified {
		diverse = diverse[:maxDiversified]
		// Truncation must not drop the top of the price range
		diverse[maxDiversified-1] = byPrice[n-1]
	}

	return diverse
}
