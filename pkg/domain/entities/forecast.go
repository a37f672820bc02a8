package entities

import (
	"fmt"
	"time"
)

// ForecastPoint is one day of predicted demand with its prediction interval
type ForecastPoint struct {
	Date            time.Time
	PredictedDemand Units
	LowerBound      Units
	UpperBound      Units
	ConfidenceLevel float64
}

// NewForecastPoint creates a validated ForecastPoint. Demand and bounds are
// clamped to be non-negative; the predicted value always lies inside the
// interval.
func NewForecastPoint(date time.Time, predicted, lower, upper Units, confidence float64) (*ForecastPoint, error) {
	if confidence <= 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence level must be in (0,1], got %v", confidence)
	}

	if predicted < 0 {
		predicted = 0
	}
	if lower < 0 {
		lower = 0
	}
	if upper < predicted {
		upper = predicted
	}
	if lower > predicted {
		lower = predicted
	}

	return &ForecastPoint{
		Date:            date,
		PredictedDemand: predicted,
		LowerBound:      lower,
		UpperBound:      upper,
		ConfidenceLevel: confidence,
	}, nil
}

// ModelDiagnostics carries fit quality information for one per-type model
type ModelDiagnostics struct {
	BloodType   BloodType
	ModelOrder  ModelOrder
	AIC         float64
	BIC         float64
	Seasonal    bool
	Fallback    bool // true when the naive moving-average fallback was used
	SampleSize  int
	ResidualVar float64
}

// ModelOrder identifies the (p, d, q) order of a fitted model
type ModelOrder struct {
	P int // autoregressive terms
	D int // differencing order
	Q int // moving-average terms
}

// String method for ModelOrder
func (o ModelOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// Forecast is the horizon-long prediction for one blood type
type Forecast struct {
	BloodType   BloodType
	HorizonDays int
	Points      []ForecastPoint
	Diagnostics ModelDiagnostics
	GeneratedAt time.Time
}

// TotalPredictedDemand sums predicted demand over the horizon
func (f *Forecast) TotalPredictedDemand() Units {
	var total Units
	for _, p := range f.Points {
		total += p.PredictedDemand
	}
	return total
}
