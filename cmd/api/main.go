package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"perfumeadmin/cmd/app"
	"perfumeadmin/internal/config"
	handlers "perfumeadmin/internal/handler"
	"perfumeadmin/internal/jobs"
	"perfumeadmin/internal/logger"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is not set")
	}

	zapLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to start application", zap.Error(err))
	}
	defer application.Close(context.Background())

	if err := application.Bootstrap(ctx); err != nil {
		zapLogger.Error("admin bootstrap failed", zap.Error(err))
	}

	scheduler := jobs.NewScheduler(zapLogger)
	if err := scheduler.AddReconcile(cfg.Reconcile.Schedule, application.Services.Reconciler, 5*time.Minute); err != nil {
		zapLogger.Fatal("failed to schedule asset reconcile", zap.Error(err))
	}
	scheduler.Start()

	h := handlers.NewHandlers(application.Services, application.DB, zapLogger)
	h.Assets = application.AssetSource()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handlers.NewRouter(h, cfg.Server),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("addr", server.Addr),
			zap.String("db_driver", cfg.DB.Driver),
			zap.String("asset_driver", cfg.Assets.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
}
