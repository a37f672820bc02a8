package services

import "testing"

func TestDefaultPolicy_IsValid(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy should validate: %v", err)
	}
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"inverted_ratio_thresholds", func(p *Policy) { p.OversupplyRatioThreshold = 0.5 }},
		{"zero_donation_rate", func(p *Policy) { p.DonationRate = 0 }},
		{"donation_rate_above_one", func(p *Policy) { p.DonationRate = 1.5 }},
		{"non_increasing_risk_cutoffs", func(p *Policy) { p.HighRiskCutoff = p.CriticalRiskCutoff }},
		{"weights_not_summing_to_one", func(p *Policy) { p.SupplyRiskWeight = 0.9 }},
		{"negative_pool_cutoff", func(p *Policy) { p.SmallPoolCutoff = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
