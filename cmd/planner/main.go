package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tokenserve/capacity-planner/internal/planner/capacity"
	"github.com/tokenserve/capacity-planner/internal/planner/catalog"
	"github.com/tokenserve/capacity-planner/internal/planner/handlers"
	"github.com/tokenserve/capacity-planner/internal/planner/revenue"
	"github.com/tokenserve/capacity-planner/internal/shared/config"
	"github.com/tokenserve/capacity-planner/internal/shared/database"
	"github.com/tokenserve/capacity-planner/internal/shared/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting capacity planner on port %s (env: %s)", cfg.Port, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("✓ Connected to PostgreSQL")

	if cfg.SeedDefaults {
		if err := catalog.SeedDefaults(ctx, db); err != nil {
			log.Fatalf("Failed to seed defaults: %v", err)
		}
		log.Println("✓ Seeded default reference data")
	}

	// Initialize Redis (optional hot layer + rate limiting)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("✓ Connected to Redis")
	}

	// Capacity cache: Redis in front of the persistent memo table
	var hot capacity.HotLayer
	if redisClient != nil && cfg.CapacityCacheEnabled {
		hot = redisClient
	}
	capacityCache := capacity.NewCache(db, db, hot, time.Duration(cfg.CapacityCacheTTLSeconds)*time.Second)

	// Revenue model
	revenueModel := revenue.NewModel(capacityCache, db, cfg.ElectricityRatePerKWh)

	// Optional model catalog endpoint
	var lister catalog.ModelLister
	if cfg.CatalogBaseURL != "" {
		lister = catalog.NewLister(cfg.CatalogBaseURL, cfg.CatalogAPIKey)
		log.Println("✓ Catalog endpoint configured")
	}

	handler := handlers.New(db, capacityCache, revenueModel, lister)
	middleware := handlers.NewMiddleware(redisClient, cfg.AdminToken, cfg.DefaultRateLimit)

	// Setup router
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit)

		r.Get("/hardware", handler.HandleListHardware)
		r.Get("/models", handler.HandleListModels)
		r.Get("/models/stats", handler.HandlePricingStats)
		r.Get("/service-levels", handler.HandleListServiceLevels)
		r.Post("/capacity", handler.HandleCapacity)
		r.Post("/projections", handler.HandleProjection)

		// Mutating routes require the admin token
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth)

			r.Put("/hardware/{name}", handler.HandleUpsertHardware)
			r.Put("/models/{key}/pricing", handler.HandleUpsertPricing)
			r.Put("/benchmarks", handler.HandleUpsertBenchmark)
			r.Post("/catalog/sync", handler.HandleCatalogSync)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on http://localhost:%s", cfg.Port)
		log.Println("   POST /v1/capacity     - Derive or look up effective capacity")
		log.Println("   POST /v1/projections  - Lifecycle revenue projection")
		log.Println("   GET  /v1/models       - Model pricing catalog")
		log.Println("   GET  /health          - Health check")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
