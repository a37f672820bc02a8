package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// assemble packages one optimization run into an immutable report. All
// aggregate fields are computed here; nothing downstream recomputes them.
func assemble(result *optimize.Result, forecasts *dto.BatchForecastResult) *entities.OptimizationReport {
	report := &entities.OptimizationReport{
		ReportID:           uuid.NewString(),
		GeneratedAt:        time.Now().UTC(),
		Recommendations:    append([]entities.Recommendation(nil), result.Recommendations...),
		TotalEstimatedCost: result.TotalCost,
		OverBudget:         result.OverBudget,
		RiskAssessment:     result.RiskAssessment,
	}

	if result.Constraint.BudgetConstraint.IsPositive() {
		utilization, _ := result.TotalCost.Div(result.Constraint.BudgetConstraint).Float64()
		report.BudgetUtilization = utilization
	}

	report.PerformanceMetrics = performanceMetrics(result, forecasts)
	return report
}

// performanceMetrics collects timing and model-quality figures for the run
func performanceMetrics(result *optimize.Result, forecasts *dto.BatchForecastResult) entities.PerformanceMetrics {
	metrics := entities.PerformanceMetrics{
		OptimizeElapsed:    result.Elapsed,
		OptimizationMethod: result.Method.String(),
	}

	var confidenceSum float64
	for _, rec := range result.Recommendations {
		confidenceSum += rec.ConfidenceScore
	}
	if len(result.Recommendations) > 0 {
		metrics.MeanConfidence = confidenceSum / float64(len(result.Recommendations))
	}

	if forecasts == nil {
		return metrics
	}
	metrics.ForecastElapsed = forecasts.Elapsed
	metrics.TotalElapsed = forecasts.Elapsed + result.Elapsed
	for _, bt := range entities.AllBloodTypes {
		res, ok := forecasts.Results[bt]
		if !ok {
			continue
		}
		if res.Status == dto.TypeOK && res.Forecast != nil {
			metrics.TypesForecasted++
			metrics.ModelDiagnostics = append(metrics.ModelDiagnostics, res.Forecast.Diagnostics)
		} else {
			metrics.TypesFailed++
		}
	}
	return metrics
}
