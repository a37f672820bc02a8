package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/application/services/orchestration"
	"github.com/rvela/hemoplan/pkg/application/services/reconcile"
	"github.com/rvela/hemoplan/pkg/application/services/report"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
	"github.com/rvela/hemoplan/pkg/infrastructure/config"
	"github.com/rvela/hemoplan/pkg/infrastructure/events"
	"github.com/rvela/hemoplan/pkg/infrastructure/logging"
	"github.com/rvela/hemoplan/pkg/infrastructure/procurement"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/memory"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/postgres"
)

// The scheduler re-runs the optimization pipeline on a fixed interval so
// that the latest report always reflects fresh demand and donor data.
func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, "hemoplan-scheduler")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("scheduler exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	method, err := optimize.ParseMethod(cfg.Scheduler.Method)
	if err != nil {
		return fmt.Errorf("invalid scheduler method: %w", err)
	}
	if cfg.Scheduler.IntervalHours <= 0 {
		return fmt.Errorf("schedule interval must be positive, got %d hours", cfg.Scheduler.IntervalHours)
	}

	db, err := postgres.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()

	historyRepo := postgres.NewDemandHistoryRepository(db)
	donorRepo := postgres.NewDonorRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)

	var supplier repositories.ProcurementService
	if cfg.Supplier.BaseURL != "" {
		supplier = procurement.NewAPIClient(cfg.Supplier.BaseURL, cfg.Supplier.APIKey, logger)
	} else {
		supplier = procurement.NewInMemoryProcurement()
	}

	forecaster := forecast.NewService()
	predictor := supply.NewPredictor()
	reconciler := reconcile.NewReconciler(forecaster, predictor)
	optimizer := optimize.NewService()
	reports := report.NewService(memory.NewReportRepository(), supplier, events.NewInMemoryExecutionLog())

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

	interval := time.Duration(cfg.Scheduler.IntervalHours) * time.Hour
	logger.Info("starting optimization scheduler",
		zap.Duration("interval", interval),
		zap.String("method", method.String()),
		zap.Int("horizon_days", cfg.Scheduler.HorizonDays),
	)

	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, err := pipeline.Run(ctx, method, cfg.Scheduler.HorizonDays, nil)
		if err != nil {
			logger.Error("scheduled optimization failed", zap.Error(err))
			return
		}
		logger.Info("scheduled optimization completed",
			zap.String("report_id", result.Report.ReportID),
			zap.Int("recommendations", len(result.Report.Recommendations)),
			zap.Duration("elapsed", result.Elapsed),
		)
	})
	if err != nil {
		return fmt.Errorf("configuring scheduler: %w", err)
	}

	scheduler.StartAsync()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logger.Info("shutting down", zap.String("signal", sig.String()))

	scheduler.Stop()
	return nil
}
