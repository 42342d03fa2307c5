package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"otter/server/internal/auth"
	"otter/server/internal/config"
	"otter/server/internal/db"
	"otter/server/internal/mcp"
	"otter/server/internal/middleware"
	"otter/server/internal/observability"
	"otter/server/internal/scraper"
	"otter/server/internal/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize observability (Loki)
	observability.Init(observability.LokiConfig{
		URL:        cfg.LokiURL,
		User:       cfg.LokiUser,
		APIKey:     cfg.LokiAPIKey,
		AppName:    cfg.AppName(),
		InstanceID: cfg.InstanceID,
		Region:     cfg.InstanceRegion,
	})
	log.Printf("Instance: %s (region: %s)", cfg.InstanceID, cfg.InstanceRegion)

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	store := db.NewBookmarkStore(database)

	verifier, err := auth.NewVerifier(auth.Config{
		Secret:  cfg.JWTSecret,
		JWKSURL: cfg.JWKSURL,
		Issuer:  cfg.JWTIssuer,
	})
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	authorizer := middleware.NewAuthorizer(verifier, store)

	registry := tools.NewRegistry(tools.Deps{
		Scraper: scraper.New(cfg.ScrapeTimeout, cfg.ScrapeUserAgent),
	})
	log.Printf("Registered tools: %v", tools.Names)

	// Create router (Go 1.22+ method-aware patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Instance-ID", cfg.InstanceID)
		w.Header().Set("X-Instance-Region", cfg.InstanceRegion)

		if err := store.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"degraded","instance":%q,"region":%q,"db":"unavailable"}`, cfg.InstanceID, cfg.InstanceRegion)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","instance":%q,"region":%q,"db":"ok"}`, cfg.InstanceID, cfg.InstanceRegion)
	})

	// MCP endpoint: recovery wraps the stateless transport, which authenticates,
	// rate limits and dispatches each POST.
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond)
	mcpHandler := mcp.NewHandler(registry)
	mux.Handle(cfg.MCPPath, middleware.Recovery(middleware.Transport(mcpHandler, authorizer, rateLimiter)))

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting MCP server on %s (path %s)", cfg.ListenAddr, cfg.MCPPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal %s, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Printf("Server stopped")
}
