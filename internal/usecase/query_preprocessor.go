package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopscout/backend/internal/domain"
)

// QueryPreprocessor turns a free-text shopping query into a search term
// and a budget. Budget qualifier phrases ("under $100") carry intent but
// pollute a text search, so they are parsed out first and stripped from
// the term sent upstream.
type QueryPreprocessor struct{}

// Compiled regex patterns for query preprocessing
var (
	// Explicit ceiling phrases, checked before the looser money patterns
	budgetPhrasePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)under \$?(\d+)`),
		regexp.MustCompile(`(?i)below \$?(\d+)`),
		regexp.MustCompile(`(?i)max \$?(\d+)`),
		regexp.MustCompile(`(?i)budget \$?(\d+)`),
	}

	// Bare money mentions like "$100" or "100 dollars"
	bareMoneyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$(\d+)`),
		regexp.MustCompile(`(?i)(\d+)\s*dollars?`),
	}

	// Terms that shape the budget or add marketing noise but carry no
	// product vocabulary
	budgetNoisePattern = regexp.MustCompile(`(?i)under \$?\d+|\bbudget\b|\bbest\b|\bcheap\b|\baffordable\b`)

	// Narrow feature qualifiers stripped when relaxing a failed query
	featureQualifierPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)with\s+\w+light`),
		regexp.MustCompile(`(?i)with\s+\w+sync`),
	}

	// Restrictive qualifier words, only safe to strip when no brand
	// anchors the query
	restrictiveWordsPattern = regexp.MustCompile(`(?i)\b(just|but|only)\b`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// brandKeywords anchor a query to a manufacturer. A query naming a brand
// keeps its restrictive words during fallback relaxation, since the brand
// already narrows the result space.
var brandKeywords = []string{
	"philips", "samsung", "lg", "sony", "tcl", "vizio", "hisense",
	"apple", "dell", "hp", "asus", "lenovo",
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor() *QueryPreprocessor {
	return &QueryPreprocessor{}
}

// ExtractBudget parses the spending ceiling out of a query. Explicit
// ceiling phrases win over bare money mentions; a query with neither
// yields an unbounded budget.
func (p *QueryPreprocessor) ExtractBudget(query string) domain.Budget {
	for _, pattern := range budgetPhrasePatterns {
		if m := pattern.FindStringSubmatch(query); m != nil {
			if max, err := strconv.ParseFloat(m[1], 64); err == nil && max > 0 {
				return domain.Budget{Max: max}
			}
		}
	}

	for _, pattern := range bareMoneyPatterns {
		if m := pattern.FindStringSubmatch(query); m != nil {
			if max, err := strconv.ParseFloat(m[1], 64); err == nil && max > 0 {
				return domain.Budget{Max: max}
			}
		}
	}

	return domain.UnboundedBudget()
}

// CleanQuery strips budget phrases and marketing noise from a query,
// keeping the brand and category vocabulary that actually drives a text
// search.
func (p *QueryPreprocessor) CleanQuery(query string) string {
	cleaned := budgetNoisePattern.ReplaceAllString(query, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// FallbackQuery derives a relaxed variant of a query that returned
// nothing: narrow feature qualifiers are dropped, and when no brand
// anchors the query, restrictive words are dropped too. Returns the input
// unchanged when nothing can be relaxed, which callers treat as "no
// fallback attempt".
func (p *QueryPreprocessor) FallbackQuery(query string) string {
	relaxed := query
	for _, pattern := range featureQualifierPatterns {
		relaxed = pattern.ReplaceAllString(relaxed, " ")
	}

	if !containsBrand(relaxed) {
		relaxed = restrictiveWordsPattern.ReplaceAllString(relaxed, " ")
	}

	relaxed = multiSpacePattern.ReplaceAllString(relaxed, " ")
	relaxed = strings.TrimSpace(relaxed)
	if relaxed == "" {
		return query
	}
	return relaxed
}

func containsBrand(query string) bool {
	lowered := strings.ToLower(query)
	for _, brand := range brandKeywords {
		if strings.Contains(lowered, brand) {
			return true
		}
	}
	return false
}
