package usecase

import (
	"testing"

	"github.com/shopscout/backend/internal/domain"
)

func TestRank(t *testing.T) {
	s := NewRankingService()

	t.Run("orders by rating and review volume", func(t *testing.T) {
		products := []domain.Product{
			{Title: "Middling Option", Rating: 4.0, ReviewCount: 80},    // 40 + 15 = 55
			{Title: "Crowd Favorite", Rating: 4.8, ReviewCount: 12000},  // 48 + 30 = 78
			{Title: "Unrated Newcomer", Rating: 0, ReviewCount: 0},      // 0
			{Title: "Solid Performer", Rating: 4.5, ReviewCount: 600},   // 45 + 25 = 70
		}

		ranked := s.Rank(products)

		want := []string{"Crowd Favorite", "Solid Performer", "Middling Option", "Unrated Newcomer"}
		for i, title := range want {
			if ranked[i].Title != title {
				t.Errorf("ranked[%d].Title = %q, want %q", i, ranked[i].Title, title)
			}
		}
	})

	t.Run("stable for equal scores", func(t *testing.T) {
		products := []domain.Product{
			{Title: "First In", Rating: 4.0, ReviewCount: 100},
			{Title: "Second In", Rating: 4.0, ReviewCount: 100},
			{Title: "Third In", Rating: 4.0, ReviewCount: 100},
		}

		ranked := s.Rank(products)

		for i, title := range []string{"First In", "Second In", "Third In"} {
			if ranked[i].Title != title {
				t.Errorf("ranked[%d].Title = %q, want %q (input order must survive ties)", i, ranked[i].Title, title)
			}
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		products := []domain.Product{
			{Title: "Low Scorer", Rating: 1.0},
			{Title: "High Scorer", Rating: 5.0},
		}

		s.Rank(products)

		if products[0].Title != "Low Scorer" {
			t.Error("Rank mutated its input slice")
		}
	})

	t.Run("no baseline credit for missing data", func(t *testing.T) {
		rated := domain.Product{Rating: 1.0, ReviewCount: 0}
		unrated := domain.Product{Rating: 0, ReviewCount: 0}

		if confidenceScore(unrated) != 0 {
			t.Errorf("confidenceScore(unrated) = %v, want 0", confidenceScore(unrated))
		}
		if confidenceScore(rated) != 10 {
			t.Errorf("confidenceScore(rated 1.0) = %v, want 10", confidenceScore(rated))
		}
	})
}

func TestDiversify(t *testing.T) {
	s := NewRankingService()

	priced := func(prices ...float64) []domain.Product {
		products := make([]domain.Product, len(prices))
		for i, p := range prices {
			products[i] = domain.Product{Title: "Item", Price: p}
		}
		return products
	}

	priceRange := func(products []domain.Product) (min, max float64) {
		min, max = products[0].Price, products[0].Price
		for _, p := range products[1:] {
			if p.Price < min {
				min = p.Price
			}
			if p.Price > max {
				max = p.Price
			}
		}
		return min, max
	}

	t.Run("identity at or below ten items", func(t *testing.T) {
		products := priced(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)

		result := s.Diversify(products)

		if len(result) != len(products) {
			t.Fatalf("Diversify changed length for small input: got %d, want %d", len(result), len(products))
		}
		for i := range products {
			if result[i].Price != products[i].Price {
				t.Errorf("result[%d].Price = %v, want %v (order must be untouched)", i, result[i].Price, products[i].Price)
			}
		}
	})

	t.Run("caps large inputs at fifteen", func(t *testing.T) {
		var prices []float64
		for i := 0; i < 25; i++ {
			prices = append(prices, float64(10+i*20))
		}

		result := s.Diversify(priced(prices...))

		if len(result) > maxDiversified {
			t.Errorf("Diversify returned %d items, want at most %d", len(result), maxDiversified)
		}
	})

	t.Run("retains both price extremes", func(t *testing.T) {
		var prices []float64
		for i := 0; i < 25; i++ {
			prices = append(prices, float64(5+i*37))
		}
		products := priced(prices...)
		wantMin, wantMax := priceRange(products)

		result := s.Diversify(products)

		gotMin, gotMax := priceRange(result)
		if gotMin != wantMin {
			t.Errorf("minimum price %v dropped, want %v retained", gotMin, wantMin)
		}
		if gotMax != wantMax {
			t.Errorf("maximum price %v dropped, want %v retained", gotMax, wantMax)
		}
	})

	t.Run("retains extremes on narrow spreads too", func(t *testing.T) {
		var prices []float64
		for i := 0; i < 20; i++ {
			prices = append(prices, float64(50+i*2)) // spread 38, narrow split
		}
		products := priced(prices...)
		wantMin, wantMax := priceRange(products)

		result := s.Diversify(products)

		gotMin, gotMax := priceRange(result)
		if gotMin != wantMin || gotMax != wantMax {
			t.Errorf("price range [%v, %v], want [%v, %v]", gotMin, gotMax, wantMin, wantMax)
		}
	})

	t.Run("orders budget tier first", func(t *testing.T) {
		result := s.Diversify(priced(500, 10, 300, 40, 200, 90, 700, 20, 150, 60, 400, 80))

		if result[0].Price != 10 {
			t.Errorf("result[0].Price = %v, want the cheapest item first", result[0].Price)
		}
	})
}
