package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// DonorRepository reads the clinical donor snapshot from the donors table.
// The registry service owns the rows; this adapter only reads.
type DonorRepository struct {
	db *sql.DB
}

var _ repositories.DonorRepository = (*DonorRepository)(nil)

// NewDonorRepository creates a postgres-backed donor snapshot reader
func NewDonorRepository(db *sql.DB) *DonorRepository {
	return &DonorRepository{db: db}
}

// GetSnapshot returns all donor records in the current snapshot
func (r *DonorRepository) GetSnapshot(ctx context.Context) ([]*entities.DonorRecord, error) {
	query := `
		SELECT donor_id::text, blood_type, eligibility_status, screening_results, last_updated
		FROM donors
		ORDER BY donor_id
	`
	return r.queryDonors(ctx, query)
}

// GetSnapshotByType returns the donor records for one blood type
func (r *DonorRepository) GetSnapshotByType(ctx context.Context, bloodType entities.BloodType) ([]*entities.DonorRecord, error) {
	query := `
		SELECT donor_id::text, blood_type, eligibility_status, screening_results, last_updated
		FROM donors
		WHERE blood_type = $1
		ORDER BY donor_id
	`
	return r.queryDonors(ctx, query, bloodType.String())
}

func (r *DonorRepository) queryDonors(ctx context.Context, query string, args ...interface{}) ([]*entities.DonorRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying donors: %w", err)
	}
	defer rows.Close()

	var donors []*entities.DonorRecord
	for rows.Next() {
		var (
			donorID   string
			btLabel   string
			statLabel string
			screening sql.NullString
			record    entities.DonorRecord
		)
		if err := rows.Scan(&donorID, &btLabel, &statLabel, &screening, &record.LastUpdated); err != nil {
			return nil, fmt.Errorf("scanning donor row: %w", err)
		}

		bloodType, err := entities.ParseBloodType(btLabel)
		if err != nil {
			return nil, fmt.Errorf("donor %s: %w", donorID, err)
		}
		status, err := entities.ParseEligibilityStatus(statLabel)
		if err != nil {
			return nil, fmt.Errorf("donor %s: %w", donorID, err)
		}

		record.DonorID = donorID
		record.BloodType = bloodType
		record.Status = status
		if screening.Valid && screening.String != "" {
			if err := json.Unmarshal([]byte(screening.String), &record.ScreeningResults); err != nil {
				return nil, fmt.Errorf("donor %s: decoding screening results: %w", donorID, err)
			}
		}
		donors = append(donors, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading donor rows: %w", err)
	}
	return donors, nil
}
