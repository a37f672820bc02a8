package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/application/services/orchestration"
	"github.com/rvela/hemoplan/pkg/application/services/reconcile"
	"github.com/rvela/hemoplan/pkg/application/services/report"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
	"github.com/rvela/hemoplan/pkg/infrastructure/cache"
	"github.com/rvela/hemoplan/pkg/infrastructure/config"
	"github.com/rvela/hemoplan/pkg/infrastructure/events"
	"github.com/rvela/hemoplan/pkg/infrastructure/logging"
	"github.com/rvela/hemoplan/pkg/infrastructure/procurement"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/memory"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/postgres"
	"github.com/rvela/hemoplan/pkg/interfaces/httpapi"
)

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, "hemoplan-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	db, err := postgres.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("connected to postgres",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	historyRepo := postgres.NewDemandHistoryRepository(db)
	donorRepo := postgres.NewDonorRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)

	// Reports are kept in memory and served through the redis cache; the
	// latest report drives recommendation queries either way.
	var reportRepo repositories.ReportRepository = memory.NewReportRepository()
	if cfg.Redis.Addr != "" {
		client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		reportRepo = cache.NewCachedReportRepository(reportRepo, client, cfg.Redis.TTL, logger)
		logger.Info("report cache enabled", zap.String("redis", cfg.Redis.Addr))
	}

	var supplier repositories.ProcurementService
	if cfg.Supplier.BaseURL != "" {
		supplier = procurement.NewAPIClient(cfg.Supplier.BaseURL, cfg.Supplier.APIKey, logger)
		logger.Info("supplier API client configured", zap.String("base_url", cfg.Supplier.BaseURL))
	} else {
		supplier = procurement.NewInMemoryProcurement()
		logger.Warn("no supplier URL configured, purchase orders stay local")
	}

	forecaster := forecast.NewService()
	predictor := supply.NewPredictor()
	reconciler := reconcile.NewReconciler(forecaster, predictor)
	optimizer := optimize.NewService()
	reports := report.NewService(reportRepo, supplier, events.NewInMemoryExecutionLog())

	pipeline := orchestration.NewPipeline(
		historyRepo,
		donorRepo,
		inventoryRepo,
		forecaster,
		predictor,
		reconciler,
		optimizer,
		reports,
		logger,
	)

	router := mux.NewRouter()
	httpapi.SetupRoutes(router, &httpapi.Deps{
		HistoryRepo:   historyRepo,
		DonorRepo:     donorRepo,
		InventoryRepo: inventoryRepo,
		Forecaster:    forecaster,
		Predictor:     predictor,
		Reconciler:    reconciler,
		Optimizer:     optimizer,
		Reports:       reports,
		Pipeline:      pipeline,
		Logger:        logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
