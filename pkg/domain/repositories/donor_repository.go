package repositories

import (
	"context"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// DonorRepository provides read access to the current donor-eligibility
// snapshot owned by the external donor registry
type DonorRepository interface {
	// GetSnapshot returns all donor records in the current clinical
	// snapshot.
	GetSnapshot(ctx context.Context) ([]*entities.DonorRecord, error)

	// GetSnapshotByType returns the donor records for one blood type.
	GetSnapshotByType(ctx context.Context, bloodType entities.BloodType) ([]*entities.DonorRecord, error)
}
