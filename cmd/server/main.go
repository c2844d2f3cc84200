package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/quantpulse/Trading-Signals-Backend/internal/advisor"
	"github.com/quantpulse/Trading-Signals-Backend/internal/api"
	"github.com/quantpulse/Trading-Signals-Backend/internal/config"
	"github.com/quantpulse/Trading-Signals-Backend/internal/database"
	"github.com/quantpulse/Trading-Signals-Backend/internal/quote"
	"github.com/quantpulse/Trading-Signals-Backend/internal/repository"
	"github.com/quantpulse/Trading-Signals-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	instrumentRepo := repository.NewInstrumentRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	signalRepo := repository.NewSignalRepository(db)
	rateLimitRepo := repository.NewRateLimitRepository(db)

	// Advisory client is optional; without an API key the service falls
	// back to rule-based signals and templated insights.
	var advisorClient advisor.Client
	if cfg.Advisor.APIKey != "" {
		advisorClient = advisor.NewOpenAIClient(cfg.Advisor.APIKey,
			advisor.WithModel(cfg.Advisor.Model),
			advisor.WithTimeout(cfg.Advisor.Timeout),
			advisor.WithRateLimit(cfg.Advisor.RequestsPerSecond),
		)
		log.Printf("Advisory client enabled with model %s", cfg.Advisor.Model)
	} else {
		log.Println("No advisory API key configured, using rule-based signals")
	}

	// Create services
	systemService := service.NewSystemService(db)
	marketService := service.NewMarketService(
		instrumentRepo,
		holdingRepo,
		portfolioRepo,
		quote.NewSimulator(cfg.Market.Volatility),
	)
	signalService := service.NewSignalService(
		instrumentRepo,
		signalRepo,
		rateLimitRepo,
		advisorClient,
		cfg.RateLimit.MaxRequests,
		cfg.RateLimit.Window,
	)

	// Periodic market synchronization
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Market.SyncSchedule, func() {
		if _, err := marketService.RunSync(context.Background()); err != nil {
			log.Printf("Scheduled sync failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Invalid sync schedule %q: %v", cfg.Market.SyncSchedule, err)
	}
	scheduler.Start()
	log.Printf("Market sync scheduled: %s", cfg.Market.SyncSchedule)

	// Create router
	router := api.NewRouter(systemService, marketService, signalService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop the scheduler and wait for a running sync to finish
	<-scheduler.Stop().Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
