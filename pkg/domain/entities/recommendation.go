package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel classifies current inventory against safety stock and optimal
// holdings
type StockLevel int

const (
	StockCritical StockLevel = iota
	StockLow
	StockAdequate
	StockOptimal
	StockExcess
)

// String method for StockLevel enum
func (l StockLevel) String() string {
	switch l {
	case StockCritical:
		return "critical"
	case StockLow:
		return "low"
	case StockAdequate:
		return "adequate"
	case StockOptimal:
		return "optimal"
	case StockExcess:
		return "excess"
	default:
		return "Unknown"
	}
}

// RecommendationType represents the ordering action recommended for a blood
// type
type RecommendationType int

const (
	EmergencyOrder RecommendationType = iota
	RoutineOrder
	HoldOrder
	ReduceOrder
	Redistribute
)

// String method for RecommendationType enum
func (t RecommendationType) String() string {
	switch t {
	case EmergencyOrder:
		return "emergency_order"
	case RoutineOrder:
		return "routine_order"
	case HoldOrder:
		return "hold_order"
	case ReduceOrder:
		return "reduce_order"
	case Redistribute:
		return "redistribute"
	default:
		return "Unknown"
	}
}

// ParseRecommendationType converts a type label into a RecommendationType
func ParseRecommendationType(s string) (RecommendationType, error) {
	switch s {
	case "emergency_order":
		return EmergencyOrder, nil
	case "routine_order":
		return RoutineOrder, nil
	case "hold_order":
		return HoldOrder, nil
	case "reduce_order":
		return ReduceOrder, nil
	case "redistribute":
		return Redistribute, nil
	default:
		return 0, fmt.Errorf("unknown recommendation type %q", s)
	}
}

// PriorityLevel represents the urgency of a recommendation
type PriorityLevel int

const (
	PriorityLow PriorityLevel = iota
	PriorityMedium
	PriorityHigh
	PriorityEmergency
	PriorityCritical
)

// String method for PriorityLevel enum
func (p PriorityLevel) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityEmergency:
		return "emergency"
	case PriorityCritical:
		return "critical"
	default:
		return "Unknown"
	}
}

// ParsePriorityLevel converts a priority label into a PriorityLevel
func ParsePriorityLevel(s string) (PriorityLevel, error) {
	switch s {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "emergency":
		return PriorityEmergency, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return 0, fmt.Errorf("unknown priority level %q", s)
	}
}

// Recommendation is one ordering decision for one blood type. Immutable
// after creation; execution emits a separate purchase-order side effect and
// never mutates the recommendation.
type Recommendation struct {
	RecommendationID     string
	BloodType            BloodType
	CurrentStockLevel    StockLevel
	Type                 RecommendationType
	RecommendedOrderQty  Units
	PriorityLevel        PriorityLevel
	CostEstimate         decimal.Decimal
	ExpectedDeliveryDate time.Time
	Reasoning            string
	ConfidenceScore      float64 // in [0,1]
}

// NewRecommendation creates a validated Recommendation
func NewRecommendation(
	id string,
	bloodType BloodType,
	stockLevel StockLevel,
	recType RecommendationType,
	orderQty Units,
	priority PriorityLevel,
	cost decimal.Decimal,
	delivery time.Time,
	reasoning string,
	confidence float64,
) (*Recommendation, error) {
	if id == "" {
		return nil, fmt.Errorf("recommendation id cannot be empty")
	}
	if orderQty < 0 {
		return nil, fmt.Errorf("recommended order quantity cannot be negative, got %v", orderQty)
	}
	if cost.IsNegative() {
		return nil, fmt.Errorf("cost estimate cannot be negative, got %s", cost)
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence score must be in [0,1], got %v", confidence)
	}

	return &Recommendation{
		RecommendationID:     id,
		BloodType:            bloodType,
		CurrentStockLevel:    stockLevel,
		Type:                 recType,
		RecommendedOrderQty:  orderQty,
		PriorityLevel:        priority,
		CostEstimate:         cost,
		ExpectedDeliveryDate: delivery,
		Reasoning:            reasoning,
		ConfidenceScore:      confidence,
	}, nil
}
