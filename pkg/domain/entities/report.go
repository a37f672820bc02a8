package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel buckets the overall risk score
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

// String method for RiskLevel enum
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "Unknown"
	}
}

// RiskAssessment is the run-level risk summary on an optimization report
type RiskAssessment struct {
	OverallRiskScore float64 // weighted combination in [0,1]
	RiskLevel        RiskLevel
	SupplyRisk       float64 // fraction of types in shortage_risk
	CostRisk         float64 // budget utilization
	WastageRisk      float64 // estimated expired-unit fraction
	ShortageTypes    []BloodType
	Narrative        string
}

// PerformanceMetrics carries timing and model quality figures for one run
type PerformanceMetrics struct {
	ForecastElapsed    time.Duration
	OptimizeElapsed    time.Duration
	TotalElapsed       time.Duration
	TypesForecasted    int
	TypesFailed        int
	MeanConfidence     float64
	ModelDiagnostics   []ModelDiagnostics
	OptimizationMethod string
}

// OptimizationReport is the atomic output of one optimization run. Reports
// are append-only: retained for historical query, never mutated.
type OptimizationReport struct {
	ReportID           string
	GeneratedAt        time.Time
	Recommendations    []Recommendation
	TotalEstimatedCost decimal.Decimal
	BudgetUtilization  float64
	OverBudget         bool // set when emergency overrides pushed cost past budget
	RiskAssessment     RiskAssessment
	PerformanceMetrics PerformanceMetrics
}

// FindRecommendation returns the recommendation with the given id, if present
func (r *OptimizationReport) FindRecommendation(id string) (*Recommendation, bool) {
	for i := range r.Recommendations {
		if r.Recommendations[i].RecommendationID == id {
			return &r.Recommendations[i], true
		}
	}
	return nil, false
}

// PurchaseOrder is the side effect emitted by executing a recommendation
type PurchaseOrder struct {
	PurchaseOrderID  string
	RecommendationID string
	BloodType        BloodType
	Quantity         Units
	Cost             decimal.Decimal
	Priority         PriorityLevel
	PlacedAt         time.Time
	ExpectedDelivery time.Time
}

// InventoryLevel is the current stock read model for one blood type
type InventoryLevel struct {
	BloodType    BloodType
	UnitsOnHand  Units
	UnitsExpired Units // expired in the current accounting period
	UpdatedAt    time.Time
}
