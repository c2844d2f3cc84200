package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quantpulse/Trading-Signals-Backend/internal/api/handlers"
	custommiddleware "github.com/quantpulse/Trading-Signals-Backend/internal/api/middleware"
	"github.com/quantpulse/Trading-Signals-Backend/internal/config"
	"github.com/quantpulse/Trading-Signals-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	marketService *service.MarketService,
	signalService *service.SignalService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(marketService)
			r.Get("/", marketHandler.Instruments)
			r.Post("/sync", marketHandler.Sync)
			r.Get("/{symbol}", marketHandler.Instrument)
		})

		r.Route("/signals", func(r chi.Router) {
			signalHandler := handlers.NewSignalHandler(signalService)
			r.Get("/", signalHandler.ActiveSignals)
			r.Post("/generate", signalHandler.Generate)
		})

		r.Route("/insights", func(r chi.Router) {
			insightHandler := handlers.NewInsightHandler(signalService)
			r.Post("/", insightHandler.Insights)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(marketService)
			r.Get("/", portfolioHandler.Portfolios)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/holdings", portfolioHandler.PortfolioHoldings)
			})
		})
	})

	return r
}
