package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/application/services/reconcile"
	"github.com/rvela/hemoplan/pkg/application/services/report"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// Pipeline coordinates one optimization run end to end: load the read
// models, forecast demand and predict supply concurrently, reconcile the
// two, optimize orders, and assemble the report. Each run is independent;
// concurrent runs for different sessions are safe.
type Pipeline struct {
	historyRepo   repositories.DemandHistoryRepository
	donorRepo     repositories.DonorRepository
	inventoryRepo repositories.InventoryRepository

	forecaster *forecast.Service
	predictor  *supply.Predictor
	reconciler *reconcile.Reconciler
	optimizer  *optimize.Service
	reports    *report.Service

	logger *zap.Logger
}

// NewPipeline creates a pipeline over the given stores and services
func NewPipeline(
	historyRepo repositories.DemandHistoryRepository,
	donorRepo repositories.DonorRepository,
	inventoryRepo repositories.InventoryRepository,
	forecaster *forecast.Service,
	predictor *supply.Predictor,
	reconciler *reconcile.Reconciler,
	optimizer *optimize.Service,
	reports *report.Service,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		historyRepo:   historyRepo,
		donorRepo:     donorRepo,
		inventoryRepo: inventoryRepo,
		forecaster:    forecaster,
		predictor:     predictor,
		reconciler:    reconciler,
		optimizer:     optimizer,
		reports:       reports,
		logger:        logger,
	}
}

// RunResult bundles the report with the intermediate stage outputs, which
// callers surface for diagnostics without re-running the stages
type RunResult struct {
	Report         *entities.OptimizationReport
	Reconciliation *dto.ReconciliationResult
	Forecasts      *dto.BatchForecastResult
	Supply         *dto.SupplyPredictionResult
	Elapsed        time.Duration
}

// Run executes one complete optimization pass. A nil constraint takes the
// operating defaults.
func (p *Pipeline) Run(
	ctx context.Context,
	method optimize.Method,
	horizonDays int,
	constraint *entities.OptimizationConstraint,
) (*RunResult, error) {
	started := time.Now()
	p.logger.Info("optimization run started",
		zap.String("method", method.String()),
		zap.Int("horizon_days", horizonDays),
	)

	snapshot, err := p.donorRepo.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading donor snapshot: %w", err)
	}

	// Demand forecasting and supply prediction are independent; run them
	// concurrently.
	var (
		wg        sync.WaitGroup
		batch     *dto.BatchForecastResult
		forecastE error
		supplyRes *dto.SupplyPredictionResult
		supplyE   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		batch, forecastE = p.forecaster.ForecastAll(ctx, p.historyRepo, horizonDays)
	}()
	go func() {
		defer wg.Done()
		supplyRes, supplyE = p.predictor.Predict(snapshot, horizonDays)
	}()
	wg.Wait()
	if forecastE != nil {
		return nil, fmt.Errorf("demand forecasting failed: %w", forecastE)
	}
	if supplyE != nil {
		return nil, fmt.Errorf("supply prediction failed: %w", supplyE)
	}
	if failed := batch.FailedTypes(); len(failed) > 0 {
		p.logger.Warn("some types reconciled against fallback estimates",
			zap.Int("failed_types", len(failed)),
		)
	}

	reconciliation, err := p.reconciler.ReconcileResults(ctx, p.historyRepo, batch, supplyRes, horizonDays)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}

	levels, err := p.inventoryRepo.GetAllLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading inventory levels: %w", err)
	}

	result, err := p.optimizer.Optimize(ctx, method, levels, reconciliation.Assessments, constraint)
	if err != nil {
		return nil, fmt.Errorf("optimization failed: %w", err)
	}

	rep, err := p.reports.Assemble(ctx, result, batch)
	if err != nil {
		return nil, fmt.Errorf("report assembly failed: %w", err)
	}

	elapsed := time.Since(started)
	p.logger.Info("optimization run completed",
		zap.String("report_id", rep.ReportID),
		zap.Int("recommendations", len(rep.Recommendations)),
		zap.String("total_cost", rep.TotalEstimatedCost.String()),
		zap.Bool("over_budget", rep.OverBudget),
		zap.Duration("elapsed", elapsed),
	)

	return &RunResult{
		Report:         rep,
		Reconciliation: reconciliation,
		Forecasts:      batch,
		Supply:         supplyRes,
		Elapsed:        elapsed,
	}, nil
}
