package repositories

import (
	"context"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// ExecutionLog is the append-only record of executed recommendations. It is
// the idempotency ledger for the execute operation: one recommendation id
// maps to at most one purchase order, forever.
type ExecutionLog interface {
	// Record appends an execution event. Recording a recommendation id
	// that already has an event is an error; callers must check first.
	Record(ctx context.Context, event *entities.ExecutionEvent) error

	// FindByRecommendation returns the execution event for a
	// recommendation id, or (nil, nil) when it has never been executed.
	FindByRecommendation(ctx context.Context, recommendationID string) (*entities.ExecutionEvent, error)

	// All returns every recorded event in append order.
	All(ctx context.Context) ([]*entities.ExecutionEvent, error)
}
