package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// DemandHistoryRepository reads daily demand observations from the
// demand_history table. The table is populated by the hospital intake feed;
// this adapter never writes.
type DemandHistoryRepository struct {
	db *sql.DB
}

var _ repositories.DemandHistoryRepository = (*DemandHistoryRepository)(nil)

// NewDemandHistoryRepository creates a postgres-backed demand history reader
func NewDemandHistoryRepository(db *sql.DB) *DemandHistoryRepository {
	return &DemandHistoryRepository{db: db}
}

// GetSeries returns the full demand history for one blood type, oldest first
func (r *DemandHistoryRepository) GetSeries(ctx context.Context, bloodType entities.BloodType) (*entities.DemandSeries, error) {
	query := `
		SELECT observed_on, observed_units
		FROM demand_history
		WHERE blood_type = $1
		ORDER BY observed_on ASC
	`
	rows, err := r.db.QueryContext(ctx, query, bloodType.String())
	if err != nil {
		return nil, fmt.Errorf("querying demand history for %s: %w", bloodType, err)
	}
	defer rows.Close()

	var observations []entities.DemandObservation
	for rows.Next() {
		var obs entities.DemandObservation
		var units float64
		if err := rows.Scan(&obs.Date, &units); err != nil {
			return nil, fmt.Errorf("scanning demand observation: %w", err)
		}
		obs.ObservedUnits = entities.Units(units)
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading demand history for %s: %w", bloodType, err)
	}

	return entities.NewDemandSeries(bloodType, observations)
}

// GetAllSeries returns the demand history for every blood type
func (r *DemandHistoryRepository) GetAllSeries(ctx context.Context) (map[entities.BloodType]*entities.DemandSeries, error) {
	out := make(map[entities.BloodType]*entities.DemandSeries, len(entities.AllBloodTypes))
	for _, bt := range entities.AllBloodTypes {
		series, err := r.GetSeries(ctx, bt)
		if err != nil {
			return nil, err
		}
		out[bt] = series
	}
	return out, nil
}
