package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prostore/cashdesk/docs"
	"github.com/prostore/cashdesk/internal/config"
	"github.com/prostore/cashdesk/internal/guard"
	"github.com/prostore/cashdesk/internal/handler"
	"github.com/prostore/cashdesk/internal/logging"
	"github.com/prostore/cashdesk/internal/middleware"
	"github.com/prostore/cashdesk/internal/repository"
	"github.com/prostore/cashdesk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("cashdesk-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	walletRepo := repository.NewWalletRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	debtRepo := repository.NewDebtRepository(db)

	walletGuard := guard.New(cfg.LockWait())

	ledgerSvc := service.NewLedgerService(walletRepo)
	shiftSvc := service.NewShiftService(shiftRepo, walletRepo, walletGuard, db)
	transactionSvc := service.NewTransactionService(
		transactionRepo, walletRepo, shiftRepo, ledgerSvc, walletGuard, db, cfg.RequireOpenShift,
	)
	reconcileSvc := service.NewReconcileService(shiftRepo, transactionRepo, walletRepo)
	debtSvc := service.NewDebtService(debtRepo, db)

	walletHandler := handler.NewWalletHandler(ledgerSvc)
	shiftHandler := handler.NewShiftHandler(shiftSvc, reconcileSvc)
	transactionHandler := handler.NewTransactionHandler(transactionSvc)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	debtHandler := handler.NewDebtHandler(debtSvc)
	authHandler := handler.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiry())
	userHandler := handler.NewUserHandler(userRepo)
	healthHandler := handler.NewHealthHandler(db)

	authMW := middleware.Auth(cfg.JWTSecret)
	idempotencyMW := middleware.Idempotency(idempotencyRepo, cfg.IdempotencyTTL())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)
	mux.HandleFunc("GET /docs", handler.ServeDocs())
	mux.HandleFunc("GET /docs/openapi.yaml", handler.ServeSpec(docs.OpenAPISpec))

	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("GET /api/v1/users/{id}", authMW(http.HandlerFunc(userHandler.GetByID)))

	mux.Handle("GET /api/v1/wallets", authMW(http.HandlerFunc(walletHandler.List)))
	mux.Handle("POST /api/v1/wallets", authMW(http.HandlerFunc(walletHandler.Create)))
	mux.Handle("GET /api/v1/wallets/summary", authMW(http.HandlerFunc(walletHandler.Summary)))

	mux.Handle("POST /api/v1/cash-shifts", authMW(http.HandlerFunc(shiftHandler.Open)))
	mux.Handle("GET /api/v1/cash-shifts", authMW(http.HandlerFunc(shiftHandler.List)))
	mux.Handle("GET /api/v1/cash-shifts/{id}", authMW(http.HandlerFunc(shiftHandler.Get)))
	mux.Handle("POST /api/v1/cash-shifts/{id}/close", authMW(http.HandlerFunc(shiftHandler.Close)))
	mux.Handle("GET /api/v1/cash-shifts/{id}/reconciliation", authMW(http.HandlerFunc(shiftHandler.Reconciliation)))

	// Recording money is the one endpoint where a client retry must not
	// double-book, so it alone sits behind the idempotency cache.
	mux.Handle("POST /api/v1/transactions", authMW(idempotencyMW(http.HandlerFunc(transactionHandler.Record))))
	mux.Handle("GET /api/v1/transactions", authMW(http.HandlerFunc(transactionHandler.List)))
	mux.Handle("GET /api/v1/transactions/{id}", authMW(http.HandlerFunc(transactionHandler.Get)))

	mux.Handle("GET /api/v1/transaction-categories", authMW(http.HandlerFunc(categoryHandler.List)))

	mux.Handle("POST /api/v1/debts", authMW(http.HandlerFunc(debtHandler.Create)))
	mux.Handle("GET /api/v1/debts", authMW(http.HandlerFunc(debtHandler.List)))
	mux.Handle("GET /api/v1/debts/{id}", authMW(http.HandlerFunc(debtHandler.Get)))
	mux.Handle("POST /api/v1/debts/{id}/payments", authMW(http.HandlerFunc(debtHandler.Pay)))

	// Replayed responses only matter within the retry window, sweep the
	// rest out hourly.
	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				n, err := idempotencyRepo.CleanExpired(janitorCtx)
				if err != nil {
					slog.Warn("failed to clean expired idempotency entries", "error", err)
					continue
				}
				if n > 0 {
					slog.Info("cleaned expired idempotency entries", "count", n)
				}
			}
		}
	}()

	var root http.Handler = mux
	root = middleware.Recovery(root)
	root = middleware.Logging(root)
	root = middleware.Tracing(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
