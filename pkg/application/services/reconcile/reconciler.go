package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
	"github.com/rvela/hemoplan/pkg/domain/services"
)

// Reconciler merges forecaster output and supply predictions into
// per-blood-type balance assessments. The classification thresholds come
// from the policy, not from constants baked into the code.
type Reconciler struct {
	forecaster *forecast.Service
	predictor  *supply.Predictor
	policy     services.Policy
}

// NewReconciler creates a reconciler with the default policy
func NewReconciler(forecaster *forecast.Service, predictor *supply.Predictor) *Reconciler {
	return NewReconcilerWithPolicy(forecaster, predictor, services.DefaultPolicy())
}

// NewReconcilerWithPolicy creates a reconciler with a custom policy
func NewReconcilerWithPolicy(forecaster *forecast.Service, predictor *supply.Predictor, policy services.Policy) *Reconciler {
	return &Reconciler{
		forecaster: forecaster,
		predictor:  predictor,
		policy:     policy,
	}
}

// Reconcile forecasts demand for every blood type, predicts supply from the
// snapshot, and classifies the balance per type. Types whose model fit
// failed reconcile against the naive fallback estimate; their status marker
// records that.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	historyRepo repositories.DemandHistoryRepository,
	snapshot []*entities.DonorRecord,
	horizonDays int,
) (*dto.ReconciliationResult, error) {
	batch, err := r.forecaster.ForecastAll(ctx, historyRepo, horizonDays)
	if err != nil {
		return nil, fmt.Errorf("demand forecasting failed: %w", err)
	}

	supplyResult, err := r.predictor.Predict(snapshot, horizonDays)
	if err != nil {
		return nil, fmt.Errorf("supply prediction failed: %w", err)
	}

	return r.ReconcileResults(ctx, historyRepo, batch, supplyResult, horizonDays)
}

// ReconcileResults classifies balances from already-computed forecast and
// supply results. Callers that run the two upstream stages concurrently use
// this instead of Reconcile.
func (r *Reconciler) ReconcileResults(
	ctx context.Context,
	historyRepo repositories.DemandHistoryRepository,
	batch *dto.BatchForecastResult,
	supplyResult *dto.SupplyPredictionResult,
	horizonDays int,
) (*dto.ReconciliationResult, error) {
	result := &dto.ReconciliationResult{
		HorizonDays:    horizonDays,
		GeneratedAt:    time.Now().UTC(),
		Assessments:    make(map[entities.BloodType]*entities.BalanceAssessment, len(entities.AllBloodTypes)),
		ForecastStatus: make(map[entities.BloodType]dto.TypeStatus, len(entities.AllBloodTypes)),
	}

	allSeries, err := historyRepo.GetAllSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load demand history: %w", err)
	}

	for _, bt := range entities.AllBloodTypes {
		slot := batch.Results[bt]
		result.ForecastStatus[bt] = slot.Status

		var demand entities.Units
		switch slot.Status {
		case dto.TypeOK:
			demand = slot.Forecast.TotalPredictedDemand()
		default:
			// Fall back to the naive estimate so one failed fit does
			// not block reconciliation for its type.
			if series := allSeries[bt]; series != nil && series.Len() > 0 {
				naive, naiveErr := r.forecaster.NaiveForecast(series, horizonDays)
				if naiveErr == nil {
					demand = naive.TotalPredictedDemand()
				}
			}
		}

		prediction := supplyResult.Predictions[bt]
		supplyUnits := prediction.PredictedDailySupply * entities.Units(horizonDays)
		result.Assessments[bt] = r.assess(bt, demand, supplyUnits, horizonDays)
	}

	result.Summary = r.summarize(result.Assessments)
	return result, nil
}

// Assess classifies one blood type's balance from already-aggregated demand
// and supply over the window
func (r *Reconciler) Assess(bloodType entities.BloodType, demand, supplyUnits entities.Units, windowDays int) *entities.BalanceAssessment {
	return r.assess(bloodType, demand, supplyUnits, windowDays)
}

func (r *Reconciler) assess(bloodType entities.BloodType, demand, supplyUnits entities.Units, windowDays int) *entities.BalanceAssessment {
	// Demand floor of 1 unit keeps the ratio defined for idle types.
	floored := float64(demand)
	if floored < 1 {
		floored = 1
	}
	ratio := float64(supplyUnits) / floored

	var status entities.BalanceStatus
	switch {
	case ratio < r.policy.ShortageRatioThreshold:
		status = entities.ShortageRisk
	case ratio > r.policy.OversupplyRatioThreshold:
		status = entities.Oversupply
	default:
		status = entities.Balanced
	}

	return &entities.BalanceAssessment{
		BloodType:         bloodType,
		Status:            status,
		SupplyDemandRatio: ratio,
		PredictedDemand:   demand,
		PredictedSupply:   supplyUnits,
		WindowDays:        windowDays,
		Insight:           insightFor(bloodType, status, ratio),
	}
}

// insightFor renders the deterministic free-text insight for a
// classification. No free-form generation: same inputs, same text.
func insightFor(bloodType entities.BloodType, status entities.BalanceStatus, ratio float64) string {
	switch status {
	case entities.ShortageRisk:
		if ratio < 0.5 {
			return fmt.Sprintf("critical shortage risk for %s: predicted supply covers %.0f%% of demand", bloodType, ratio*100)
		}
		return fmt.Sprintf("shortage risk for %s: predicted supply covers %.0f%% of demand", bloodType, ratio*100)
	case entities.Oversupply:
		return fmt.Sprintf("oversupply for %s: predicted supply is %.1fx demand, wastage likely", bloodType, ratio)
	default:
		return fmt.Sprintf("%s supply and demand balanced", bloodType)
	}
}

// summarize produces the run-level insight lines, worst first
func (r *Reconciler) summarize(assessments map[entities.BloodType]*entities.BalanceAssessment) []string {
	var shortages, oversupplies int
	var lines []string
	for _, bt := range entities.AllBloodTypes {
		a := assessments[bt]
		if a == nil {
			continue
		}
		switch a.Status {
		case entities.ShortageRisk:
			shortages++
			lines = append(lines, a.Insight)
		case entities.Oversupply:
			oversupplies++
		}
	}

	header := fmt.Sprintf("%d of %d blood types at shortage risk, %d in oversupply",
		shortages, len(entities.AllBloodTypes), oversupplies)
	return append([]string{header}, lines...)
}
