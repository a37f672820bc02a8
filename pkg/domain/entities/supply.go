package entities

// Risk factor labels attached to supply predictions
const (
	RiskLowEligibility = "low eligibility"
	RiskSmallPool      = "small pool"
	RiskCompound       = "compound risk"
	RiskNoData         = "no_data"
)

// SupplyPrediction is the expected near-term donation supply for one blood
// type, derived from a clinical snapshot. Ephemeral: recomputed per request.
type SupplyPrediction struct {
	BloodType            BloodType
	TotalDonorCount      int
	EligibleDonorCount   int
	EligibilityRate      float64 // in [0,1]
	PredictedDailySupply Units
	RiskFactors          []string
}

// HasRiskFactor reports whether the prediction carries the given risk label
func (p *SupplyPrediction) HasRiskFactor(label string) bool {
	for _, f := range p.RiskFactors {
		if f == label {
			return true
		}
	}
	return false
}
