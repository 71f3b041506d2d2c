package usecase

import (
	"math"
	"testing"

	"github.com/shopscout/backend/internal/domain"
)

func TestExtractBudget(t *testing.T) {
	p := NewQueryPreprocessor()

	tests := []struct {
		name  string
		query string
		want  float64 // math.Inf(1) for unbounded
	}{
		{"under phrase", "noise canceling headphones under $100", 100},
		{"under without dollar sign", "headphones under 80", 80},
		{"below phrase", "laptop below $750", 750},
		{"max phrase", "monitor max $300", 300},
		{"budget phrase", "budget $50 speaker", 50},
		{"bare dollar amount", "gaming mouse $45", 45},
		{"dollars word", "keyboard 60 dollars", 60},
		{"no budget", "mechanical keyboard", math.Inf(1)},
		{"phrase wins over bare amount", "tv under $500 not $900", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ExtractBudget(tt.query)
			if got.Max != tt.want {
				t.Errorf("ExtractBudget(%q).Max = %v, want %v", tt.query, got.Max, tt.want)
			}
		})
	}
}

func TestExtractBudget_Boundedness(t *testing.T) {
	p := NewQueryPreprocessor()

	if b := p.ExtractBudget("headphones under $100"); !b.IsBounded() {
		t.Error("budgeted query should be bounded")
	}
	if b := p.ExtractBudget("headphones"); b.IsBounded() {
		t.Error("unbudgeted query should be unbounded")
	}
	if b := p.ExtractBudget("tv under $500"); !b.IsHigh() {
		t.Error("budget of 500 should qualify as high")
	}
	if b := p.ExtractBudget("mouse under $40"); b.IsHigh() {
		t.Error("budget of 40 should not qualify as high")
	}
}

func TestCleanQuery(t *testing.T) {
	p := NewQueryPreprocessor()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"strips under phrase", "noise canceling headphones under $100", "noise canceling headphones"},
		{"strips marketing words", "best cheap affordable laptop", "laptop"},
		{"strips budget word", "budget gaming monitor", "gaming monitor"},
		{"keeps brand vocabulary", "sony wireless headphones", "sony wireless headphones"},
		{"collapses whitespace", "tv   under $500   for gaming", "tv for gaming"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CleanQuery(tt.query); got != tt.want {
				t.Errorf("CleanQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestFallbackQuery(t *testing.T) {
	p := NewQueryPreprocessor()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"strips light feature qualifier", "philips tv with ambilight", "philips tv"},
		{"strips sync feature qualifier", "monitor with gsync 27 inch", "monitor 27 inch"},
		{"brand keeps restrictive words", "samsung tv but only oled", "samsung tv but only oled"},
		{"no brand strips restrictive words", "tv but only oled", "tv oled"},
		{"nothing to relax", "wireless headphones", "wireless headphones"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.FallbackQuery(tt.query); got != tt.want {
				t.Errorf("FallbackQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestFallbackQuery_UnchangedMeansNoFallback(t *testing.T) {
	p := NewQueryPreprocessor()

	query := "sony headphones"
	if got := p.FallbackQuery(query); got != query {
		t.Errorf("FallbackQuery(%q) = %q, want the input unchanged", query, got)
	}
}

func TestExtractBudget_UnboundedHasNoCeiling(t *testing.T) {
	b := domain.UnboundedBudget()
	if b.IsBounded() {
		t.Error("UnboundedBudget() should not be bounded")
	}
	if b.IsHigh() {
		t.Error("UnboundedBudget() should not be high")
	}
}
