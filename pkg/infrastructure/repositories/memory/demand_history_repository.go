package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// DemandHistoryRepository provides in-memory demand series storage
type DemandHistoryRepository struct {
	mu     sync.RWMutex
	series map[entities.BloodType]*entities.DemandSeries
}

// NewDemandHistoryRepository creates a new in-memory demand history repository
func NewDemandHistoryRepository() *DemandHistoryRepository {
	return &DemandHistoryRepository{
		series: make(map[entities.BloodType]*entities.DemandSeries),
	}
}

// Verify interface compliance
var _ repositories.DemandHistoryRepository = (*DemandHistoryRepository)(nil)

// LoadSeries loads a demand series, replacing any existing one for the type
func (r *DemandHistoryRepository) LoadSeries(series *entities.DemandSeries) error {
	if series == nil {
		return fmt.Errorf("series cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.series[series.BloodType] = series
	return nil
}

// GetSeries returns the demand history for one blood type
func (r *DemandHistoryRepository) GetSeries(ctx context.Context, bloodType entities.BloodType) (*entities.DemandSeries, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	series, ok := r.series[bloodType]
	if !ok {
		return nil, fmt.Errorf("no demand history for %s", bloodType)
	}
	return series, nil
}

// GetAllSeries returns demand histories keyed by blood type
func (r *DemandHistoryRepository) GetAllSeries(ctx context.Context) (map[entities.BloodType]*entities.DemandSeries, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[entities.BloodType]*entities.DemandSeries, len(r.series))
	for bt, s := range r.series {
		out[bt] = s
	}
	return out, nil
}
