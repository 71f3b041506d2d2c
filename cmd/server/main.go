package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shopscout/backend/config"
	httpDelivery "github.com/shopscout/backend/internal/delivery/http"
	"github.com/shopscout/backend/internal/domain"
	"github.com/shopscout/backend/internal/infrastructure/amazon"
	"github.com/shopscout/backend/internal/infrastructure/cache"
	"github.com/shopscout/backend/internal/infrastructure/ebay"
	"github.com/shopscout/backend/internal/infrastructure/fetch"
	"github.com/shopscout/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShopScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// One fetch client is shared by every scraping component
	client := fetch.NewClient()

	primary := amazon.NewScraper(client, amazon.ScraperConfig{
		BaseURL:      cfg.Sources.AmazonBaseURL,
		AffiliateTag: cfg.Sources.AffiliateTag,
		Timeout:      cfg.Sources.AmazonTimeout,
		MaxItems:     cfg.Sources.AmazonMaxItems,
	})
	secondary := ebay.NewScraper(client, ebay.ScraperConfig{
		BaseURL:  cfg.Sources.EbayBaseURL,
		Timeout:  cfg.Sources.EbayTimeout,
		MaxItems: cfg.Sources.EbayMaxItems,
	})
	resolver := amazon.NewResolver(client, amazon.ResolverConfig{
		BaseURL:      cfg.Sources.AmazonBaseURL,
		AffiliateTag: cfg.Sources.AffiliateTag,
		Timeout:      cfg.Resolver.DetailTimeout,
		MaxDepth:     cfg.Resolver.MaxDepth,
	})

	log.Printf("Sources: %s (max %d), %s (max %d)",
		cfg.Sources.AmazonBaseURL, cfg.Sources.AmazonMaxItems,
		cfg.Sources.EbayBaseURL, cfg.Sources.EbayMaxItems)
	log.Printf("Resolver: depth=%d, throttle=%s", cfg.Resolver.MaxDepth, cfg.Resolver.Throttle)

	// Initialize usecase layer
	discovery := usecase.NewDiscoveryService(primary, secondary, resolver, cfg.Resolver.Throttle)

	// Response cache sits at the delivery boundary so the pipeline core
	// stays stateless per invocation
	var responseCache domain.CacheRepository
	if cfg.Cache.Enabled {
		responseCache = cache.NewMemoryCache()
		log.Printf("Response cache enabled, TTL: %s", cfg.Cache.TTL)
	} else {
		log.Printf("Response cache disabled")
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(discovery, responseCache, cfg.Cache.TTL)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
