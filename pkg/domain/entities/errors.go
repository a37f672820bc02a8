package entities

import (
	"errors"
	"fmt"
)

// ErrReportNotFound is returned when a report id does not exist in the log
var ErrReportNotFound = errors.New("report not found")

// ErrRecommendationNotFound is returned when a recommendation id does not
// exist in the referenced report
var ErrRecommendationNotFound = errors.New("recommendation not found")

// InsufficientDataError marks a demand series too short or degenerate to fit
// a model. Callers fall back to a naive estimate instead of aborting.
type InsufficientDataError struct {
	BloodType BloodType
	Reason    string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %s", e.BloodType, e.Reason)
}

// InfeasibleConstraintsError reports that the optimizer cannot satisfy
// budget, storage and safety stock simultaneously. BindingConstraint names
// the limit that cannot be met so the caller can correct the request.
type InfeasibleConstraintsError struct {
	BindingConstraint string
	BloodType         BloodType
	HasBloodType      bool
	Detail            string
}

func (e *InfeasibleConstraintsError) Error() string {
	if e.HasBloodType {
		return fmt.Sprintf("infeasible constraints: %s binds for %s: %s", e.BindingConstraint, e.BloodType, e.Detail)
	}
	return fmt.Sprintf("infeasible constraints: %s binds: %s", e.BindingConstraint, e.Detail)
}

// InvalidConstraintError reports malformed caller input, rejected before any
// computation
type InvalidConstraintError struct {
	Field  string
	Reason string
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %s: %s", e.Field, e.Reason)
}

// AlreadyExecutedError reports an idempotent no-op: the recommendation was
// executed before and no second purchase order was created.
type AlreadyExecutedError struct {
	RecommendationID string
	PurchaseOrderID  string
}

func (e *AlreadyExecutedError) Error() string {
	return fmt.Sprintf("recommendation %s already executed as purchase order %s", e.RecommendationID, e.PurchaseOrderID)
}
