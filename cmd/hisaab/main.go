package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/hisaab-cloud/hisaab/internal/app"
	"github.com/hisaab-cloud/hisaab/internal/auth"
	"github.com/hisaab-cloud/hisaab/internal/banking"
	"github.com/hisaab-cloud/hisaab/internal/billing"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/clients"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/companies"
	"github.com/hisaab-cloud/hisaab/internal/masterdata/items"
	"github.com/hisaab-cloud/hisaab/internal/payments"
	"github.com/hisaab-cloud/hisaab/internal/platform/cache"
	"github.com/hisaab-cloud/hisaab/internal/platform/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	companiesRepo := companies.NewRepository(pool)
	companiesService := companies.NewService(companiesRepo)
	companiesHandler := companies.NewHandler(logger, companiesService)

	clientsRepo := clients.NewRepository(pool)
	clientsService := clients.NewService(clientsRepo)
	clientsHandler := clients.NewHandler(logger, clientsService)

	itemsRepo := items.NewRepository(pool)
	itemsService := items.NewService(itemsRepo)
	itemsHandler := items.NewHandler(logger, itemsService)

	billingRepo := billing.NewRepository(pool)
	billingService := billing.NewService(billingRepo, clientsRepo, itemsRepo, companiesRepo)
	billingHandler := billing.NewHandler(logger, billingService)

	paymentsRepo := payments.NewRepository(pool)
	paymentsService := payments.NewService(paymentsRepo)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	bankingRepo := banking.NewRepository(pool)
	bankingService := banking.NewService(bankingRepo)
	bankingHandler := banking.NewHandler(logger, bankingService)

	tenants := cache.NewTenantCache(redisClient, cfg.TenantCacheTTL)
	authMiddleware := auth.NewMiddleware(logger, companiesRepo, tenants)

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,
		Pool:   pool,

		Auth:             authMiddleware,
		CompaniesHandler: companiesHandler,
		ClientsHandler:   clientsHandler,
		ItemsHandler:     itemsHandler,
		BillingHandler:   billingHandler,
		PaymentsHandler:  paymentsHandler,
		BankingHandler:   bankingHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
