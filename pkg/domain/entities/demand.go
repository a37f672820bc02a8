package entities

import (
	"fmt"
	"time"
)

// Units represents a count of blood product units
type Units float64

// DemandObservation is one day of observed demand for a blood type
type DemandObservation struct {
	Date          time.Time
	ObservedUnits Units
}

// DemandSeries is the ordered history of daily demand for one blood type.
// Observations are append-only and sorted ascending by date; the history
// store owns the data, the core only reads it.
type DemandSeries struct {
	BloodType    BloodType
	Observations []DemandObservation
}

// NewDemandSeries creates a validated DemandSeries
func NewDemandSeries(bloodType BloodType, observations []DemandObservation) (*DemandSeries, error) {
	for i, obs := range observations {
		if obs.ObservedUnits < 0 {
			return nil, fmt.Errorf("observation %d: observed units cannot be negative, got %v", i, obs.ObservedUnits)
		}
		if i > 0 && !observations[i-1].Date.Before(obs.Date) {
			return nil, fmt.Errorf("observation %d: dates must be strictly increasing", i)
		}
	}

	return &DemandSeries{
		BloodType:    bloodType,
		Observations: observations,
	}, nil
}

// Len returns the number of observations in the series
func (s *DemandSeries) Len() int {
	return len(s.Observations)
}

// Values returns the observed units as a plain slice, oldest first
func (s *DemandSeries) Values() []float64 {
	values := make([]float64, len(s.Observations))
	for i, obs := range s.Observations {
		values[i] = float64(obs.ObservedUnits)
	}
	return values
}

// LastDate returns the date of the most recent observation
func (s *DemandSeries) LastDate() time.Time {
	if len(s.Observations) == 0 {
		return time.Time{}
	}
	return s.Observations[len(s.Observations)-1].Date
}
