package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopscout/backend/config"
	"github.com/shopscout/backend/internal/domain"
	"github.com/shopscout/backend/internal/infrastructure/cache"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeDiscovery returns canned results and counts invocations.
type fakeDiscovery struct {
	results []domain.Product
	calls   int
}

func (f *fakeDiscovery) Discover(_ context.Context, _ string) []domain.Product {
	f.calls++
	return f.results
}

func newTestRouter(handler *Handler) *gin.Engine {
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	return SetupRouter(cfg, handler)
}

func postSearch(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type searchResponse struct {
	Products []domain.Product `json:"products"`
	Cached   bool             `json:"cached"`
}

func TestSearchProducts(t *testing.T) {
	t.Run("returns the pipeline's products", func(t *testing.T) {
		discovery := &fakeDiscovery{results: []domain.Product{
			{Title: "Sony WH-1000XM5", Price: 279.99, Retailer: "Amazon", ASIN: "B0SONY0001"},
			{Title: "Bose QuietComfort 45", Price: 199.00, Retailer: "eBay"},
		}}
		router := newTestRouter(NewHandler(discovery, nil, 0))

		w := postSearch(router, `{"query": "noise canceling headphones"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp searchResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not valid JSON: %v", err)
		}
		if len(resp.Products) != 2 {
			t.Fatalf("got %d products, want 2", len(resp.Products))
		}
		if resp.Products[0].Title != "Sony WH-1000XM5" {
			t.Errorf("products[0].Title = %q", resp.Products[0].Title)
		}
		if resp.Cached {
			t.Error("first response should not be marked cached")
		}
	})

	t.Run("empty result is a valid response", func(t *testing.T) {
		router := newTestRouter(NewHandler(&fakeDiscovery{}, nil, 0))

		w := postSearch(router, `{"query": "nonexistent gadget xyz"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 for an empty result", w.Code)
		}
	})

	t.Run("rejects a missing body", func(t *testing.T) {
		router := newTestRouter(NewHandler(&fakeDiscovery{}, nil, 0))

		w := postSearch(router, ``)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("rejects a blank query", func(t *testing.T) {
		router := newTestRouter(NewHandler(&fakeDiscovery{}, nil, 0))

		w := postSearch(router, `{"query": "   "}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("serves repeated queries from the cache", func(t *testing.T) {
		discovery := &fakeDiscovery{results: []domain.Product{
			{Title: "Keychron K2", Price: 79, Retailer: "Amazon"},
		}}
		router := newTestRouter(NewHandler(discovery, cache.NewMemoryCache(), time.Minute))

		first := postSearch(router, `{"query": "Mechanical Keyboard"}`)
		second := postSearch(router, `{"query": "mechanical keyboard"}`) // case-insensitive key

		if first.Code != http.StatusOK || second.Code != http.StatusOK {
			t.Fatalf("statuses = %d, %d, want 200 for both", first.Code, second.Code)
		}
		if discovery.calls != 1 {
			t.Errorf("pipeline invoked %d times, want 1 (second request served from cache)", discovery.calls)
		}

		var resp searchResponse
		if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
			t.Fatalf("cached response is not valid JSON: %v", err)
		}
		if !resp.Cached {
			t.Error("second response should be marked cached")
		}
		if len(resp.Products) != 1 || resp.Products[0].Title != "Keychron K2" {
			t.Errorf("cached products = %+v, want the original result", resp.Products)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(NewHandler(&fakeDiscovery{}, nil, 0))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("health response is not valid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}
