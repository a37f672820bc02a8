package entities

import (
	"testing"
	"time"
)

func TestNewForecastPoint_ClampsNegatives(t *testing.T) {
	p, err := NewForecastPoint(time.Now(), -5, -10, 3, 0.95)
	if err != nil {
		t.Fatalf("NewForecastPoint failed: %v", err)
	}
	if p.PredictedDemand != 0 {
		t.Errorf("expected predicted demand clamped to 0, got %v", p.PredictedDemand)
	}
	if p.LowerBound != 0 {
		t.Errorf("expected lower bound clamped to 0, got %v", p.LowerBound)
	}
}

func TestNewForecastPoint_BoundsContainPrediction(t *testing.T) {
	tests := []struct {
		name                    string
		predicted, lower, upper Units
	}{
		{"normal", 10, 8, 12},
		{"upper_below_prediction", 10, 8, 5},
		{"lower_above_prediction", 10, 15, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewForecastPoint(time.Now(), tt.predicted, tt.lower, tt.upper, 0.95)
			if err != nil {
				t.Fatalf("NewForecastPoint failed: %v", err)
			}
			if p.LowerBound > p.PredictedDemand || p.PredictedDemand > p.UpperBound {
				t.Errorf("prediction %v outside bounds [%v, %v]",
					p.PredictedDemand, p.LowerBound, p.UpperBound)
			}
		})
	}
}

func TestNewForecastPoint_InvalidConfidence(t *testing.T) {
	if _, err := NewForecastPoint(time.Now(), 10, 8, 12, 0); err == nil {
		t.Error("expected error for zero confidence")
	}
	if _, err := NewForecastPoint(time.Now(), 10, 8, 12, 1.2); err == nil {
		t.Error("expected error for confidence > 1")
	}
}

func TestDemandSeries_Validation(t *testing.T) {
	day := func(n int) time.Time {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	}

	_, err := NewDemandSeries(APositive, []DemandObservation{
		{Date: day(0), ObservedUnits: 10},
		{Date: day(0), ObservedUnits: 12},
	})
	if err == nil {
		t.Error("expected error for non-increasing dates")
	}

	_, err = NewDemandSeries(APositive, []DemandObservation{
		{Date: day(0), ObservedUnits: -1},
	})
	if err == nil {
		t.Error("expected error for negative observation")
	}

	series, err := NewDemandSeries(APositive, []DemandObservation{
		{Date: day(0), ObservedUnits: 10},
		{Date: day(1), ObservedUnits: 12},
	})
	if err != nil {
		t.Fatalf("NewDemandSeries failed: %v", err)
	}
	if series.Len() != 2 {
		t.Errorf("expected 2 observations, got %d", series.Len())
	}
	if got := series.Values(); got[1] != 12 {
		t.Errorf("expected second value 12, got %v", got[1])
	}
}
