package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// InventoryRepository reads current stock levels from the inventory_levels
// table, maintained by the warehouse management feed.
type InventoryRepository struct {
	db *sql.DB
}

var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// NewInventoryRepository creates a postgres-backed inventory reader
func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetLevel returns the current stock level for one blood type
func (r *InventoryRepository) GetLevel(ctx context.Context, bloodType entities.BloodType) (*entities.InventoryLevel, error) {
	query := `
		SELECT units_on_hand, units_expired, updated_at
		FROM inventory_levels
		WHERE blood_type = $1
	`
	var (
		level   entities.InventoryLevel
		onHand  float64
		expired float64
	)
	err := r.db.QueryRowContext(ctx, query, bloodType.String()).
		Scan(&onHand, &expired, &level.UpdatedAt)
	if err == sql.ErrNoRows {
		// No row yet means zero stock, not an error.
		return &entities.InventoryLevel{BloodType: bloodType}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying inventory for %s: %w", bloodType, err)
	}

	level.BloodType = bloodType
	level.UnitsOnHand = entities.Units(onHand)
	level.UnitsExpired = entities.Units(expired)
	return &level, nil
}

// GetAllLevels returns stock levels keyed by blood type
func (r *InventoryRepository) GetAllLevels(ctx context.Context) (map[entities.BloodType]*entities.InventoryLevel, error) {
	out := make(map[entities.BloodType]*entities.InventoryLevel, len(entities.AllBloodTypes))
	for _, bt := range entities.AllBloodTypes {
		level, err := r.GetLevel(ctx, bt)
		if err != nil {
			return nil, err
		}
		out[bt] = level
	}
	return out, nil
}
