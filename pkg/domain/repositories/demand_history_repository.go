package repositories

import (
	"context"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// DemandHistoryRepository provides read access to historical daily demand
// series. The series store is an external collaborator; the core only reads.
type DemandHistoryRepository interface {
	// GetSeries returns the full demand history for one blood type,
	// oldest observation first.
	GetSeries(ctx context.Context, bloodType entities.BloodType) (*entities.DemandSeries, error)

	// GetAllSeries returns the demand history for every blood type that
	// has observations.
	GetAllSeries(ctx context.Context) (map[entities.BloodType]*entities.DemandSeries, error)
}
