package entities

// BalanceStatus classifies predicted supply against predicted demand for a
// blood type over a window
type BalanceStatus int

const (
	ShortageRisk BalanceStatus = iota
	Balanced
	Oversupply
)

// String method for BalanceStatus enum
func (s BalanceStatus) String() string {
	switch s {
	case ShortageRisk:
		return "shortage_risk"
	case Balanced:
		return "balanced"
	case Oversupply:
		return "oversupply"
	default:
		return "Unknown"
	}
}

// BalanceAssessment is the reconciled supply/demand picture for one blood
// type over a prediction window
type BalanceAssessment struct {
	BloodType         BloodType
	Status            BalanceStatus
	SupplyDemandRatio float64 // supply / max(demand, 1), always >= 0
	PredictedDemand   Units   // aggregated over the window
	PredictedSupply   Units   // aggregated over the window
	WindowDays        int
	Insight           string // deterministic text for reporting
}
