package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fintrackhq/fintrack/internal/adapter/http/handler"
	"github.com/fintrackhq/fintrack/internal/adapter/http/middleware"
	"github.com/fintrackhq/fintrack/internal/infrastructure/auth"
	"github.com/fintrackhq/fintrack/internal/infrastructure/metrics"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	AccountHandler     *handler.AccountHandler
	CreditCardHandler  *handler.CreditCardHandler
	CategoryHandler    *handler.CategoryHandler
	TransactionHandler *handler.TransactionHandler
	TransferHandler    *handler.TransferHandler
	ReportHandler      *handler.ReportHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler

	JWTManager       *auth.JWTManager
	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
	Registry         *prometheus.Registry
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		if cfg.Metrics != nil {
			limiter = limiter.WithMetrics(cfg.Metrics)
		}
		r.Use(limiter.Limit)

		// Keep the per-IP limiter map from growing without bound.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				limiter.CleanupLimiters()
			}
		}()
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	// Public auth endpoints
	r.Post("/api/v1/auth/register", cfg.AuthHandler.Register)
	r.Post("/api/v1/auth/login", cfg.AuthHandler.Login)

	// Authenticated API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Get("/auth/me", cfg.AuthHandler.Me)

		// Bank accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Put("/{id}", cfg.AccountHandler.Update)
			r.Post("/{id}/archive", cfg.AccountHandler.Archive)
			r.Post("/{id}/activate", cfg.AccountHandler.Activate)
		})

		// Credit cards
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cfg.CreditCardHandler.Create)
			r.Get("/", cfg.CreditCardHandler.List)
			r.Get("/{id}", cfg.CreditCardHandler.Get)
			r.Put("/{id}", cfg.CreditCardHandler.Update)
			r.Post("/{id}/archive", cfg.CreditCardHandler.Archive)
			r.Post("/{id}/activate", cfg.CreditCardHandler.Activate)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", cfg.CategoryHandler.Create)
			r.Get("/", cfg.CategoryHandler.List)
			r.Get("/{id}", cfg.CategoryHandler.Get)
			r.Put("/{id}", cfg.CategoryHandler.Update)
			r.Delete("/{id}", cfg.CategoryHandler.Delete)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/", cfg.TransferHandler.List)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Put("/{id}", cfg.TransferHandler.Update)
			r.Delete("/{id}", cfg.TransferHandler.Delete)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/cashflow", cfg.ReportHandler.Cashflow)
			r.Get("/expenses", cfg.ReportHandler.Expenses)
			r.Get("/net-worth", cfg.ReportHandler.NetWorth)
		})

		// Operational endpoints, admin only
		r.Route("/ledger", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/recalculate", cfg.LedgerHandler.Recalculate)
		})
	})

	return r
}
