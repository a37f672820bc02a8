package repositories

import (
	"context"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// InventoryRepository provides read access to current stock levels per blood
// type. CRUD persistence of inventory lives outside the core; this is a read
// model.
type InventoryRepository interface {
	// GetLevel returns the current stock level for one blood type.
	GetLevel(ctx context.Context, bloodType entities.BloodType) (*entities.InventoryLevel, error)

	// GetAllLevels returns current stock levels keyed by blood type.
	GetAllLevels(ctx context.Context) (map[entities.BloodType]*entities.InventoryLevel, error)
}
