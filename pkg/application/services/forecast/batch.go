package forecast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// ForecastAll fits the 8 per-type models concurrently and collects partial
// results. Failure domains are isolated: a failed or panicking fit for one
// blood type is reported as that type's status marker and never cancels the
// others.
func (s *Service) ForecastAll(ctx context.Context, historyRepo repositories.DemandHistoryRepository, horizonDays int) (*dto.BatchForecastResult, error) {
	if horizonDays < MinHorizonDays || horizonDays > MaxHorizonDays {
		return nil, fmt.Errorf("horizon must be between %d and %d days, got %d",
			MinHorizonDays, MaxHorizonDays, horizonDays)
	}

	allSeries, err := historyRepo.GetAllSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load demand history: %w", err)
	}

	started := time.Now()
	result := &dto.BatchForecastResult{
		HorizonDays: horizonDays,
		GeneratedAt: started.UTC(),
		Results:     make(map[entities.BloodType]dto.TypeForecast, len(entities.AllBloodTypes)),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, bloodType := range entities.AllBloodTypes {
		wg.Add(1)
		go func(bt entities.BloodType) {
			defer wg.Done()
			slot := s.forecastOne(ctx, bt, allSeries[bt], horizonDays)
			mu.Lock()
			result.Results[bt] = slot
			mu.Unlock()
		}(bloodType)
	}
	wg.Wait()

	result.Elapsed = time.Since(started)
	return result, nil
}

// forecastOne runs a single per-type fit with panic isolation
func (s *Service) forecastOne(ctx context.Context, bloodType entities.BloodType, series *entities.DemandSeries, horizonDays int) (slot dto.TypeForecast) {
	slot = dto.TypeForecast{BloodType: bloodType}

	defer func() {
		if r := recover(); r != nil {
			slot.Status = dto.TypeFailed
			slot.Err = fmt.Sprintf("model fit panicked: %v", r)
			slot.Forecast = nil
		}
	}()

	if series == nil || series.Len() == 0 {
		slot.Status = dto.TypeInsufficientData
		slot.Err = (&entities.InsufficientDataError{BloodType: bloodType, Reason: "no demand history"}).Error()
		return slot
	}

	forecast, err := s.Forecast(ctx, series, horizonDays)
	if err != nil {
		var insufficient *entities.InsufficientDataError
		if errors.As(err, &insufficient) {
			slot.Status = dto.TypeInsufficientData
		} else {
			slot.Status = dto.TypeFailed
		}
		slot.Err = err.Error()
		return slot
	}

	slot.Status = dto.TypeOK
	slot.Forecast = forecast
	return slot
}
