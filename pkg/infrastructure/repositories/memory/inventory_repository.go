package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// InventoryRepository provides in-memory stock level storage
type InventoryRepository struct {
	mu     sync.RWMutex
	levels map[entities.BloodType]*entities.InventoryLevel
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		levels: make(map[entities.BloodType]*entities.InventoryLevel),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadLevel sets the current stock level for a blood type
func (r *InventoryRepository) LoadLevel(level *entities.InventoryLevel) error {
	if level == nil {
		return fmt.Errorf("level cannot be nil")
	}
	if level.UnitsOnHand < 0 {
		return fmt.Errorf("units on hand cannot be negative, got %v", level.UnitsOnHand)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[level.BloodType] = level
	return nil
}

// GetLevel returns the current stock level for one blood type
func (r *InventoryRepository) GetLevel(ctx context.Context, bloodType entities.BloodType) (*entities.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	level, ok := r.levels[bloodType]
	if !ok {
		return nil, fmt.Errorf("no inventory level for %s", bloodType)
	}
	return level, nil
}

// GetAllLevels returns current stock levels keyed by blood type
func (r *InventoryRepository) GetAllLevels(ctx context.Context) (map[entities.BloodType]*entities.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[entities.BloodType]*entities.InventoryLevel, len(r.levels))
	for bt, l := range r.levels {
		out[bt] = l
	}
	return out, nil
}
