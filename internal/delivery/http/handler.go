package http

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopscout/backend/internal/domain"
)

// Discoverer runs the product discovery pipeline for one query.
type Discoverer interface {
	Discover(ctx context.Context, query string) []domain.Product
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	discovery Discoverer
	cache     domain.CacheRepository
	cacheTTL  time.Duration
}

// NewHandler creates a new HTTP handler. A nil cache disables response
// caching; the pipeline itself stays stateless either way.
func NewHandler(discovery Discoverer, cache domain.CacheRepository, cacheTTL time.Duration) *Handler {
	return &Handler{
		discovery: discovery,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopscout-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles product discovery requests
func (h *Handler) SearchProducts(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": domain.ErrInvalidQuery.Error(),
		})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": domain.ErrInvalidQuery.Error(),
		})
		return
	}

	cacheKey := "search:" + strings.ToLower(query)
	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), cacheKey); err == nil {
			log.Printf("[HTTP] cache hit for %q", query)
			count := 0
			if list, ok := cached.([]interface{}); ok {
				count = len(list)
			}
			c.JSON(http.StatusOK, gin.H{
				"query":    query,
				"count":    count,
				"products": cached,
				"cached":   true,
			})
			return
		}
	}

	products := h.discovery.Discover(c.Request.Context(), query)

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cacheKey, products, h.cacheTTL); err != nil {
			log.Printf("[HTTP] failed to cache %q: %v", query, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"count":    len(products),
		"products": products,
		"cached":   false,
	})
}
