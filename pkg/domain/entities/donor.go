package entities

import (
	"fmt"
	"time"
)

// EligibilityStatus represents a donor's current screening outcome
type EligibilityStatus int

const (
	Eligible EligibilityStatus = iota
	Ineligible
	TemporarilyDeferred
	PermanentlyDeferred
	PendingReview
)

// String method for EligibilityStatus enum
func (s EligibilityStatus) String() string {
	switch s {
	case Eligible:
		return "eligible"
	case Ineligible:
		return "ineligible"
	case TemporarilyDeferred:
		return "temporarily_deferred"
	case PermanentlyDeferred:
		return "permanently_deferred"
	case PendingReview:
		return "pending_review"
	default:
		return "Unknown"
	}
}

// ParseEligibilityStatus converts a status label into an EligibilityStatus
func ParseEligibilityStatus(s string) (EligibilityStatus, error) {
	switch s {
	case "eligible":
		return Eligible, nil
	case "ineligible":
		return Ineligible, nil
	case "temporarily_deferred":
		return TemporarilyDeferred, nil
	case "permanently_deferred":
		return PermanentlyDeferred, nil
	case "pending_review":
		return PendingReview, nil
	default:
		return 0, fmt.Errorf("unknown eligibility status %q", s)
	}
}

// DonorRecord is a read-only view of one donor in a clinical snapshot.
// The donor registry owns the lifecycle; the core never writes these.
type DonorRecord struct {
	DonorID          string
	BloodType        BloodType
	Status           EligibilityStatus
	ScreeningResults map[string]string
	LastUpdated      time.Time
}

// NewDonorRecord creates a validated DonorRecord
func NewDonorRecord(donorID string, bloodType BloodType, status EligibilityStatus, screening map[string]string, lastUpdated time.Time) (*DonorRecord, error) {
	if donorID == "" {
		return nil, fmt.Errorf("donor id cannot be empty")
	}

	return &DonorRecord{
		DonorID:          donorID,
		BloodType:        bloodType,
		Status:           status,
		ScreeningResults: screening,
		LastUpdated:      lastUpdated,
	}, nil
}
