package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/comprebem/comprebem/internal/app"
	"github.com/comprebem/comprebem/internal/auth"
	"github.com/comprebem/comprebem/internal/clients"
	"github.com/comprebem/comprebem/internal/dashboard"
	"github.com/comprebem/comprebem/internal/export"
	"github.com/comprebem/comprebem/internal/orders"
	"github.com/comprebem/comprebem/internal/platform/db"
	"github.com/comprebem/comprebem/internal/products"
	"github.com/comprebem/comprebem/internal/shared"
	"github.com/comprebem/comprebem/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "comprebem_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	pdfExporter := &export.PDFExporter{Endpoint: cfg.GotenbergURL, Client: http.DefaultClient}

	clientsRepo := clients.NewRepository(dbpool)
	clientsService := clients.NewService(clientsRepo)
	clientsHandler := clients.NewHandler(logger, clientsService, pdfExporter)

	productsRepo := products.NewRepository(dbpool)
	productsService := products.NewService(productsRepo)
	productsHandler := products.NewHandler(logger, productsService, pdfExporter)

	dashboardRepo := dashboard.NewRepository(dbpool)
	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(logger, dashboardRepo, dashboardCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)
	if err := dashboardCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("dashboard invalidation listener", slog.Any("error", err))
	}

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(logger, ordersRepo, productsService, clientsService, dashboardCache)
	ordersHandler := orders.NewHandler(logger, ordersService, pdfExporter)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Warn("init jobs client", slog.Any("error", err))
	} else {
		defer func() {
			if err := jobsClient.Close(); err != nil {
				logger.Warn("jobs client close", slog.Any("error", err))
			}
		}()
		if _, err := jobsClient.EnqueueDashboardWarmup(ctx, "startup"); err != nil {
			logger.Warn("enqueue dashboard warmup", slog.Any("error", err))
		}
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		AuthHandler:      authHandler,
		ClientsHandler:   clientsHandler,
		ProductsHandler:  productsHandler,
		OrdersHandler:    ordersHandler,
		DashboardHandler: dashboardHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
