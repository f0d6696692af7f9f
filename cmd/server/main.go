package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpAdapter "github.com/fintrackhq/fintrack/internal/adapter/http"
	"github.com/fintrackhq/fintrack/internal/adapter/http/handler"
	postgresRepo "github.com/fintrackhq/fintrack/internal/adapter/repository/postgres"
	redisRepo "github.com/fintrackhq/fintrack/internal/adapter/repository/redis"
	"github.com/fintrackhq/fintrack/internal/infrastructure/auth"
	"github.com/fintrackhq/fintrack/internal/infrastructure/config"
	"github.com/fintrackhq/fintrack/internal/infrastructure/logger"
	"github.com/fintrackhq/fintrack/internal/infrastructure/metrics"
	"github.com/fintrackhq/fintrack/internal/infrastructure/postgres"
	"github.com/fintrackhq/fintrack/internal/infrastructure/redis"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis is optional: reports fall back to the database and
	// idempotency is skipped when it is down.
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, caching and idempotency disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			appMetrics.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	bankRepo := postgresRepo.NewBankAccountRepository(pool)
	cardRepo := postgresRepo.NewCreditCardRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	reportRepo := postgresRepo.NewReportingRepository(pool)
	controlRepo := postgresRepo.NewControlAccountRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log).WithMetrics(appMetrics)

	controls, err := controlRepo.EnsureDefaults(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap control accounts")
	}

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)
	if redisClient != nil {
		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, journalRepo, balanceRepo, bankRepo, cardRepo, controls).WithMetrics(appMetrics)
	accountUC := usecase.NewAccountUseCase(txManager, bankRepo, cardRepo, balanceRepo).WithMetrics(appMetrics)
	txnUC := usecase.NewTransactionUseCase(txManager, txnRepo, categoryRepo, ledgerUC, idGen).WithRetrier(retrier).WithMetrics(appMetrics)
	transferUC := usecase.NewTransferUseCase(txManager, transferRepo, ledgerUC, idGen).WithRetrier(retrier).WithMetrics(appMetrics)
	recalcUC := usecase.NewRecalculationUseCase(txManager, bankRepo, cardRepo, balanceRepo, journalRepo).WithMetrics(appMetrics)
	userUC := usecase.NewUserUseCase(userRepo).WithMetrics(appMetrics)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	reportingUC := usecase.NewReportingUseCase(reportRepo, bankRepo, balanceRepo, cache).WithMetrics(appMetrics)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Handlers
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		CreditCardHandler:  handler.NewCreditCardHandler(accountUC),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC),
		TransactionHandler: handler.NewTransactionHandler(txnUC),
		TransferHandler:    handler.NewTransferHandler(transferUC),
		ReportHandler:      handler.NewReportHandler(reportingUC),
		LedgerHandler:      handler.NewLedgerHandler(recalcUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
		Logger:             log,
		Metrics:            appMetrics,
		Registry:           registry,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
