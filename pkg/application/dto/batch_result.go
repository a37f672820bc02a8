package dto

import (
	"time"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// TypeStatus marks one blood type's outcome inside a batch operation
type TypeStatus int

const (
	TypeOK TypeStatus = iota
	TypeInsufficientData
	TypeFailed
)

// String method for TypeStatus enum
func (s TypeStatus) String() string {
	switch s {
	case TypeOK:
		return "ok"
	case TypeInsufficientData:
		return "insufficient_data"
	case TypeFailed:
		return "failed"
	default:
		return "Unknown"
	}
}

// TypeForecast is one blood type's slot in a batch forecast: either a
// forecast or an error marker, never silently neither.
type TypeForecast struct {
	BloodType entities.BloodType
	Status    TypeStatus
	Forecast  *entities.Forecast // nil unless Status == TypeOK
	Err       string             // empty unless Status != TypeOK
}

// BatchForecastResult is the outcome of forecasting all blood types at once.
// Per-type failures are isolated: one failed fit never aborts the others.
type BatchForecastResult struct {
	HorizonDays int
	GeneratedAt time.Time
	Results     map[entities.BloodType]TypeForecast
	Elapsed     time.Duration
}

// FailedTypes returns the blood types that did not produce a forecast
func (r *BatchForecastResult) FailedTypes() []entities.BloodType {
	var failed []entities.BloodType
	for _, bt := range entities.AllBloodTypes {
		if res, ok := r.Results[bt]; ok && res.Status != TypeOK {
			failed = append(failed, bt)
		}
	}
	return failed
}

// PartialFailure reports whether some, but not all, types failed
func (r *BatchForecastResult) PartialFailure() bool {
	failed := len(r.FailedTypes())
	return failed > 0 && failed < len(r.Results)
}

// SupplyPredictionResult bundles per-type supply predictions with the global
// risk narrative
type SupplyPredictionResult struct {
	HorizonDays int
	GeneratedAt time.Time
	Predictions map[entities.BloodType]*entities.SupplyPrediction
	Narrative   string
}

// ReconciliationResult bundles per-type balance assessments with summary
// insights
type ReconciliationResult struct {
	HorizonDays int
	GeneratedAt time.Time
	Assessments map[entities.BloodType]*entities.BalanceAssessment
	// Forecast statuses carried through so callers can see which types
	// reconciled against a fallback estimate.
	ForecastStatus map[entities.BloodType]TypeStatus
	Summary        []string
}
