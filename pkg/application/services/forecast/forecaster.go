package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// Horizon limits for a forecast request, in days
const (
	MinHorizonDays = 7
	MaxHorizonDays = 90
)

// Config holds tuning for the demand forecaster
type Config struct {
	// MinSeriesLength is the fewest observations a series may have before
	// model fitting is refused.
	MinSeriesLength int
	// MaxAROrder bounds the autoregressive order candidate grid.
	MaxAROrder int
	// MaxMAOrder bounds the moving-average order candidate grid.
	MaxMAOrder int
	// MaxDifferencing bounds the differencing order.
	MaxDifferencing int
	// ConfidenceLevel sets the prediction interval coverage.
	ConfidenceLevel float64
	// SeasonalPeriod is the candidate periodicity in days.
	SeasonalPeriod int
	// SeasonalACFThreshold is the autocorrelation above which the seasonal
	// variant is used.
	SeasonalACFThreshold float64
	// NaiveWindow is the moving-average window of the fallback estimate.
	NaiveWindow int
}

// DefaultConfig returns the forecaster defaults
func DefaultConfig() Config {
	return Config{
		MinSeriesLength:      14,
		MaxAROrder:           3,
		MaxMAOrder:           1,
		MaxDifferencing:      2,
		ConfidenceLevel:      0.95,
		SeasonalPeriod:       7,
		SeasonalACFThreshold: 0.30,
		NaiveWindow:          7,
	}
}

// Service fits one time-series model per blood type and produces
// horizon-long forecasts with prediction intervals. Stateless per call:
// the fit is a pure function of the supplied series.
type Service struct {
	config Config
}

// NewService creates a forecaster with default configuration
func NewService() *Service {
	return NewServiceWithConfig(DefaultConfig())
}

// NewServiceWithConfig creates a forecaster with custom configuration
func NewServiceWithConfig(config Config) *Service {
	if config.MinSeriesLength <= 0 {
		config.MinSeriesLength = 14
	}
	if config.ConfidenceLevel <= 0 || config.ConfidenceLevel > 1 {
		config.ConfidenceLevel = 0.95
	}
	if config.NaiveWindow <= 0 {
		config.NaiveWindow = 7
	}
	return &Service{config: config}
}

// Forecast fits a model on the series and predicts the next horizonDays of
// demand. Returns *entities.InsufficientDataError when the series is too
// short or degenerate; the caller decides whether to fall back to
// NaiveForecast.
func (s *Service) Forecast(ctx context.Context, series *entities.DemandSeries, horizonDays int) (*entities.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if horizonDays < MinHorizonDays || horizonDays > MaxHorizonDays {
		return nil, fmt.Errorf("horizon must be between %d and %d days, got %d",
			MinHorizonDays, MaxHorizonDays, horizonDays)
	}
	if series == nil {
		return nil, fmt.Errorf("demand series cannot be nil")
	}

	values := series.Values()
	if len(values) < s.config.MinSeriesLength {
		return nil, &entities.InsufficientDataError{
			BloodType: series.BloodType,
			Reason:    fmt.Sprintf("series has %d points, need at least %d", len(values), s.config.MinSeriesLength),
		}
	}
	if variance(values) == 0 {
		return nil, &entities.InsufficientDataError{
			BloodType: series.BloodType,
			Reason:    "series is constant",
		}
	}

	model, err := s.fitBest(values, series.BloodType)
	if err != nil {
		return nil, err
	}

	predictions, stderrs := model.forecast(horizonDays, model.order.D)
	z := normalQuantile(0.5 + s.config.ConfidenceLevel/2)

	points := make([]entities.ForecastPoint, 0, horizonDays)
	start := series.LastDate()
	for h := 0; h < horizonDays; h++ {
		margin := z * stderrs[h]
		point, err := entities.NewForecastPoint(
			start.AddDate(0, 0, h+1),
			entities.Units(predictions[h]),
			entities.Units(predictions[h]-margin),
			entities.Units(predictions[h]+margin),
			s.config.ConfidenceLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("building forecast point %d for %s: %w", h, series.BloodType, err)
		}
		points = append(points, *point)
	}

	return &entities.Forecast{
		BloodType:   series.BloodType,
		HorizonDays: horizonDays,
		Points:      points,
		Diagnostics: entities.ModelDiagnostics{
			BloodType:   series.BloodType,
			ModelOrder:  model.order,
			AIC:         model.aic,
			BIC:         model.bic,
			Seasonal:    model.seasonal,
			SampleSize:  len(values),
			ResidualVar: model.residualVar,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// fitBest runs the candidate grid and keeps the fit with the lowest AIC
func (s *Service) fitBest(values []float64, bloodType entities.BloodType) (*fittedModel, error) {
	work := values
	seasonal := detectSeasonality(values, s.config.SeasonalPeriod, s.config.SeasonalACFThreshold)
	var seasTail []float64
	if seasonal {
		adjusted := seasonalDifference(values, s.config.SeasonalPeriod)
		if len(adjusted) >= s.config.MinSeriesLength/2 {
			seasTail = append([]float64(nil), values[len(values)-s.config.SeasonalPeriod:]...)
			work = adjusted
		} else {
			seasonal = false
		}
	}

	d := chooseDifferencing(work, s.config.MaxDifferencing)
	diffed := difference(work, d)
	if len(diffed) < 6 {
		// Differencing consumed too much of the series.
		d = 0
		diffed = work
	}

	var best *fittedModel
	for p := 0; p <= s.config.MaxAROrder; p++ {
		for q := 0; q <= s.config.MaxMAOrder; q++ {
			model, err := fitARMA(diffed, p, q)
			if err != nil {
				continue
			}
			if best == nil || model.aic < best.aic {
				model.order.D = d
				best = model
			}
		}
	}
	if best == nil {
		return nil, &entities.InsufficientDataError{
			BloodType: bloodType,
			Reason:    "no candidate model could be fitted",
		}
	}

	best.seasonal = seasonal
	best.seasonalPeriod = s.config.SeasonalPeriod
	best.seasTail = seasTail
	best.original = work
	best.diffed = diffed
	return best, nil
}

// NaiveForecast is the reduced-fidelity fallback when model fitting is
// unavailable: a flat moving average of the most recent observations with a
// variance-based interval. Never fabricates model confidence: the
// diagnostics mark it as a fallback.
func (s *Service) NaiveForecast(series *entities.DemandSeries, horizonDays int) (*entities.Forecast, error) {
	if series == nil || series.Len() == 0 {
		return nil, fmt.Errorf("cannot produce naive forecast from empty series")
	}
	if horizonDays < MinHorizonDays || horizonDays > MaxHorizonDays {
		return nil, fmt.Errorf("horizon must be between %d and %d days, got %d",
			MinHorizonDays, MaxHorizonDays, horizonDays)
	}

	values := series.Values()
	window := s.config.NaiveWindow
	if window > len(values) {
		window = len(values)
	}
	recent := values[len(values)-window:]
	level := mean(recent)
	spread := math.Sqrt(variance(recent))
	z := normalQuantile(0.5 + s.config.ConfidenceLevel/2)

	points := make([]entities.ForecastPoint, 0, horizonDays)
	start := series.LastDate()
	for h := 0; h < horizonDays; h++ {
		point, err := entities.NewForecastPoint(
			start.AddDate(0, 0, h+1),
			entities.Units(level),
			entities.Units(level-z*spread),
			entities.Units(level+z*spread),
			s.config.ConfidenceLevel,
		)
		if err != nil {
			return nil, err
		}
		points = append(points, *point)
	}

	return &entities.Forecast{
		BloodType:   series.BloodType,
		HorizonDays: horizonDays,
		Points:      points,
		Diagnostics: entities.ModelDiagnostics{
			BloodType:   series.BloodType,
			Fallback:    true,
			SampleSize:  series.Len(),
			ResidualVar: spread * spread,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// ForecastOrNaive tries a model fit and falls back to the naive estimate on
// insufficient data, so one degenerate series never blocks the pipeline
func (s *Service) ForecastOrNaive(ctx context.Context, series *entities.DemandSeries, horizonDays int) (*entities.Forecast, error) {
	forecast, err := s.Forecast(ctx, series, horizonDays)
	if err == nil {
		return forecast, nil
	}
	var insufficient *entities.InsufficientDataError
	if errors.As(err, &insufficient) {
		return s.NaiveForecast(series, horizonDays)
	}
	return nil, err
}
