package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/ecommerce-orders/internal/order-service/adapters/stockhttp"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/app"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/httpx"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/reservelog"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/reservelog/sqlite"
	"github.com/jcmexdev/ecommerce-orders/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-orders/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("order-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "order-service"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	stockClient := stockhttp.NewClient(getEnv("PRODUCT_SERVICE_URL", "http://localhost:5001"))
	ledger := app.NewOrderLedger()

	// Reservation audit log is optional: without a path, attempts are not
	// persisted and only surface in the structured logs.
	var audit reservelog.Repository
	if path := os.Getenv("RESERVATION_LOG_PATH"); path != "" {
		repo, err := sqlite.Open(path)
		if err != nil {
			slog.Error("failed to open reservation log", "path", path, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		audit = repo
	}

	orchestrator := app.NewOrchestrator(stockClient, ledger, audit)

	// Order read cache is optional as well: without REDIS_ADDR every read
	// hits the in-memory ledger directly.
	var orderCache cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		orderCache = cache.NewRedisCache(addr, "order")
	}

	handler := httpx.NewHandler(orchestrator, ledger, orderCache)

	addr := ":" + getEnv("PORT", "5002")
	srv := &http.Server{Addr: addr, Handler: httpx.NewRouter(handler)}

	go func() {
		slog.Info("order service running", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
