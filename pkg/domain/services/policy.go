package services

import "fmt"

// Policy is the tunable clinical/operational policy surface. The literal
// defaults carry no proven empirical basis; operators retune them per
// hospital rather than treating them as truth.
type Policy struct {
	// Reconciliation thresholds on the supply/demand ratio.
	ShortageRatioThreshold   float64 // below this: shortage_risk
	OversupplyRatioThreshold float64 // above this: oversupply

	// Supply prediction.
	DonationRate         float64 // fraction of eligible donors donating per day
	SeasonalFactor       float64 // multiplicative seasonal adjustment
	LowEligibilityCutoff float64 // eligibility rate below this flags risk
	SmallPoolCutoff      int     // donor pools below this size flag risk

	// Risk bucketing on the overall risk score.
	MediumRiskCutoff   float64
	HighRiskCutoff     float64
	CriticalRiskCutoff float64

	// Risk score weights; must sum to 1.
	SupplyRiskWeight  float64
	CostRiskWeight    float64
	WastageRiskWeight float64
}

// DefaultPolicy returns the stock policy values
func DefaultPolicy() Policy {
	return Policy{
		ShortageRatioThreshold:   0.80,
		OversupplyRatioThreshold: 1.50,
		DonationRate:             0.05,
		SeasonalFactor:           1.0,
		LowEligibilityCutoff:     0.70,
		SmallPoolCutoff:          50,
		MediumRiskCutoff:         0.30,
		HighRiskCutoff:           0.55,
		CriticalRiskCutoff:       0.75,
		SupplyRiskWeight:         0.5,
		CostRiskWeight:           0.3,
		WastageRiskWeight:        0.2,
	}
}

// Validate checks the policy holds together as a usable configuration
func (p Policy) Validate() error {
	if p.ShortageRatioThreshold <= 0 {
		return fmt.Errorf("shortage ratio threshold must be positive, got %v", p.ShortageRatioThreshold)
	}
	if p.OversupplyRatioThreshold <= p.ShortageRatioThreshold {
		return fmt.Errorf("oversupply threshold %v must exceed shortage threshold %v",
			p.OversupplyRatioThreshold, p.ShortageRatioThreshold)
	}
	if p.DonationRate <= 0 || p.DonationRate > 1 {
		return fmt.Errorf("donation rate must be in (0,1], got %v", p.DonationRate)
	}
	if p.SeasonalFactor <= 0 {
		return fmt.Errorf("seasonal factor must be positive, got %v", p.SeasonalFactor)
	}
	if p.LowEligibilityCutoff < 0 || p.LowEligibilityCutoff > 1 {
		return fmt.Errorf("low eligibility cutoff must be in [0,1], got %v", p.LowEligibilityCutoff)
	}
	if p.SmallPoolCutoff < 0 {
		return fmt.Errorf("small pool cutoff cannot be negative, got %d", p.SmallPoolCutoff)
	}
	if !(p.MediumRiskCutoff < p.HighRiskCutoff && p.HighRiskCutoff < p.CriticalRiskCutoff) {
		return fmt.Errorf("risk cutoffs must be strictly increasing: %v, %v, %v",
			p.MediumRiskCutoff, p.HighRiskCutoff, p.CriticalRiskCutoff)
	}
	weightSum := p.SupplyRiskWeight + p.CostRiskWeight + p.WastageRiskWeight
	if weightSum < 0.999 || weightSum > 1.001 {
		return fmt.Errorf("risk weights must sum to 1, got %v", weightSum)
	}
	return nil
}
