package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain dollars", "$29.99", 29.99},
		{"thousands separator", "$1,299.99", 1299.99},
		{"currency prefix", "US $24.99", 24.99},
		{"surrounding text", "Price: 45.50 USD", 45.50},
		{"already clean is idempotent", "123.45", 123.45},
		{"integer", "99", 99},
		{"empty", "", 0},
		{"no digits", "see price in cart", 0},
		{"two decimal points", "$12.34.56", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Price(tt.input))
		})
	}
}

func TestCombineWholeFraction(t *testing.T) {
	tests := []struct {
		name     string
		whole    string
		fraction string
		want     string
	}{
		{"trailing dot stripped", "279.", "99", "279.99"},
		{"no trailing dot", "42", "50", "42.50"},
		{"missing fraction", "42", "", "42.00"},
		{"whitespace trimmed", " 19. ", "95", "19.95"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CombineWholeFraction(tt.whole, tt.fraction))
		})
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"decimal rating", "4.5 out of 5 stars", 4.5},
		{"integer rating", "4 out of 5 stars", 4},
		{"empty", "", 0},
		{"no pattern", "best seller", 0},
		{"over scale", "7.5 out of 5 stars", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rating(tt.input))
		})
	}
}

func TestReviewCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"thousands separator", "1,234", 1234},
		{"trailing text", "456 ratings", 456},
		{"empty", "", 0},
		{"no digits", "be the first to review", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReviewCount(tt.input))
		})
	}
}
