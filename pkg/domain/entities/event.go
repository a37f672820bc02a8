package entities

import "time"

// ExecutionEvent records one recommendation execution in the append-only
// log. The log doubles as the idempotency ledger: a recommendation id with
// an event has already been executed.
type ExecutionEvent struct {
	EventID          string
	RecommendationID string
	ReportID         string
	Order            PurchaseOrder
	RecordedAt       time.Time
	Sequence         int // assigned by the log on append, starting at 1
}
