package supply

import (
	"testing"

	testhelpers "github.com/rvela/hemoplan/pkg/application/services/testing"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/services"
)

func TestPredict_EligibilityScenario(t *testing.T) {
	// 100 O+ donors, 60 eligible: rate 0.60 < 0.70 flags low eligibility,
	// and supply = 60 × donation rate.
	predictor := NewPredictor()
	snapshot := testhelpers.BuildDonorSnapshot(entities.OPositive, 100, 60)

	result, err := predictor.Predict(snapshot, 7)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	pred := result.Predictions[entities.OPositive]
	if pred.EligibleDonorCount != 60 {
		t.Errorf("expected 60 eligible donors, got %d", pred.EligibleDonorCount)
	}
	if pred.EligibilityRate != 0.60 {
		t.Errorf("expected eligibility rate 0.60, got %v", pred.EligibilityRate)
	}
	if !pred.HasRiskFactor(entities.RiskLowEligibility) {
		t.Errorf("expected low eligibility risk factor, got %v", pred.RiskFactors)
	}

	wantSupply := entities.Units(60 * services.DefaultPolicy().DonationRate)
	if pred.PredictedDailySupply != wantSupply {
		t.Errorf("expected predicted daily supply %v, got %v", wantSupply, pred.PredictedDailySupply)
	}
}

func TestPredict_RiskFactorCombinations(t *testing.T) {
	predictor := NewPredictor()

	tests := []struct {
		name            string
		total, eligible int
		want            []string
		notWant         []string
	}{
		{
			name:  "healthy_pool",
			total: 100, eligible: 90,
			notWant: []string{entities.RiskLowEligibility, entities.RiskSmallPool, entities.RiskCompound},
		},
		{
			name:  "low_eligibility_only",
			total: 100, eligible: 50,
			want:    []string{entities.RiskLowEligibility},
			notWant: []string{entities.RiskSmallPool, entities.RiskCompound},
		},
		{
			name:  "small_pool_only",
			total: 30, eligible: 28,
			want:    []string{entities.RiskSmallPool},
			notWant: []string{entities.RiskLowEligibility, entities.RiskCompound},
		},
		{
			name:  "compound_risk",
			total: 30, eligible: 10,
			want: []string{entities.RiskLowEligibility, entities.RiskSmallPool, entities.RiskCompound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := testhelpers.BuildDonorSnapshot(entities.ANegative, tt.total, tt.eligible)
			result, err := predictor.Predict(snapshot, 7)
			if err != nil {
				t.Fatalf("Predict failed: %v", err)
			}
			pred := result.Predictions[entities.ANegative]
			for _, factor := range tt.want {
				if !pred.HasRiskFactor(factor) {
					t.Errorf("expected risk factor %q, got %v", factor, pred.RiskFactors)
				}
			}
			for _, factor := range tt.notWant {
				if pred.HasRiskFactor(factor) {
					t.Errorf("did not expect risk factor %q, got %v", factor, pred.RiskFactors)
				}
			}
		})
	}
}

func TestPredict_EmptyTypeGetsNoData(t *testing.T) {
	predictor := NewPredictor()
	snapshot := testhelpers.BuildDonorSnapshot(entities.OPositive, 10, 8)

	result, err := predictor.Predict(snapshot, 7)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// AB- has no donors in the snapshot: zero supply, no_data marker,
	// and no division error.
	pred := result.Predictions[entities.ABNegative]
	if pred.PredictedDailySupply != 0 {
		t.Errorf("expected zero supply, got %v", pred.PredictedDailySupply)
	}
	if !pred.HasRiskFactor(entities.RiskNoData) {
		t.Errorf("expected no_data risk factor, got %v", pred.RiskFactors)
	}
	if pred.EligibilityRate != 0 {
		t.Errorf("expected zero eligibility rate, got %v", pred.EligibilityRate)
	}
}

func TestPredict_RateBounds(t *testing.T) {
	predictor := NewPredictor()
	result, err := predictor.Predict(testhelpers.BuildFullDonorSnapshot(), 14)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	for bt, pred := range result.Predictions {
		if pred.EligibilityRate < 0 || pred.EligibilityRate > 1 {
			t.Errorf("%s: eligibility rate %v outside [0,1]", bt, pred.EligibilityRate)
		}
		if pred.PredictedDailySupply < 0 {
			t.Errorf("%s: negative predicted supply %v", bt, pred.PredictedDailySupply)
		}
	}
	if result.Narrative == "" {
		t.Error("expected a risk narrative")
	}
}

func TestPredict_InvalidHorizon(t *testing.T) {
	predictor := NewPredictor()
	if _, err := predictor.Predict(nil, 0); err == nil {
		t.Error("expected error for non-positive horizon")
	}
}
