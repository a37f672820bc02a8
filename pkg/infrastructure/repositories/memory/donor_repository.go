package memory

import (
	"context"
	"sync"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// DonorRepository provides in-memory donor snapshot storage
type DonorRepository struct {
	mu     sync.RWMutex
	donors []*entities.DonorRecord
}

// NewDonorRepository creates a new in-memory donor repository
func NewDonorRepository() *DonorRepository {
	return &DonorRepository{}
}

// Verify interface compliance
var _ repositories.DonorRepository = (*DonorRepository)(nil)

// LoadSnapshot replaces the current snapshot with the given records
func (r *DonorRepository) LoadSnapshot(donors []*entities.DonorRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.donors = append([]*entities.DonorRecord(nil), donors...)
	return nil
}

// GetSnapshot returns all donor records in the current snapshot
func (r *DonorRepository) GetSnapshot(ctx context.Context) ([]*entities.DonorRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*entities.DonorRecord(nil), r.donors...), nil
}

// GetSnapshotByType returns the donor records for one blood type
func (r *DonorRepository) GetSnapshotByType(ctx context.Context, bloodType entities.BloodType) ([]*entities.DonorRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []*entities.DonorRecord
	for _, d := range r.donors {
		if d.BloodType == bloodType {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}
