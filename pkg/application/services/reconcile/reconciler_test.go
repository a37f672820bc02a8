package reconcile

import (
	"context"
	"strings"
	"testing"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	testhelpers "github.com/rvela/hemoplan/pkg/application/services/testing"
	"github.com/rvela/hemoplan/pkg/domain/entities"
)

func newTestReconciler() *Reconciler {
	return NewReconciler(forecast.NewService(), supply.NewPredictor())
}

func TestAssess_Classification(t *testing.T) {
	r := newTestReconciler()

	tests := []struct {
		name       string
		demand     entities.Units
		supply     entities.Units
		wantStatus entities.BalanceStatus
		wantRatio  float64
	}{
		{"shortage_at_half", 100, 50, entities.ShortageRisk, 0.5},
		{"just_below_threshold", 100, 79, entities.ShortageRisk, 0.79},
		{"balanced_low_edge", 100, 80, entities.Balanced, 0.8},
		{"balanced_high_edge", 100, 150, entities.Balanced, 1.5},
		{"oversupply", 100, 151, entities.Oversupply, 1.51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := r.Assess(entities.OPositive, tt.demand, tt.supply, 7)
			if a.Status != tt.wantStatus {
				t.Errorf("expected status %v, got %v", tt.wantStatus, a.Status)
			}
			if a.SupplyDemandRatio != tt.wantRatio {
				t.Errorf("expected ratio %v, got %v", tt.wantRatio, a.SupplyDemandRatio)
			}
		})
	}
}

func TestAssess_DemandFloor(t *testing.T) {
	r := newTestReconciler()

	// Zero demand must not divide by zero; the floor of 1 applies.
	a := r.Assess(entities.ABNegative, 0, 3, 7)
	if a.SupplyDemandRatio != 3 {
		t.Errorf("expected ratio 3 with demand floor, got %v", a.SupplyDemandRatio)
	}
	if a.Status != entities.Oversupply {
		t.Errorf("expected oversupply, got %v", a.Status)
	}
}

func TestAssess_InsightText(t *testing.T) {
	r := newTestReconciler()

	critical := r.Assess(entities.ONegative, 100, 40, 7)
	if !strings.Contains(critical.Insight, "critical shortage risk") {
		t.Errorf("expected critical shortage insight, got %q", critical.Insight)
	}

	moderate := r.Assess(entities.ONegative, 100, 70, 7)
	if strings.Contains(moderate.Insight, "critical") {
		t.Errorf("ratio 0.7 should not read as critical, got %q", moderate.Insight)
	}

	// Deterministic: identical inputs, identical text.
	again := r.Assess(entities.ONegative, 100, 40, 7)
	if again.Insight != critical.Insight {
		t.Error("insight text must be deterministic")
	}
}

func TestReconcile_EndToEnd(t *testing.T) {
	r := newTestReconciler()
	history := testhelpers.BuildDemandHistory()
	snapshot := testhelpers.BuildFullDonorSnapshot()

	result, err := r.Reconcile(context.Background(), history, snapshot, 14)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if len(result.Assessments) != 8 {
		t.Fatalf("expected 8 assessments, got %d", len(result.Assessments))
	}
	for _, bt := range entities.AllBloodTypes {
		a := result.Assessments[bt]
		if a == nil {
			t.Errorf("missing assessment for %s", bt)
			continue
		}
		if a.SupplyDemandRatio < 0 {
			t.Errorf("%s: negative ratio %v", bt, a.SupplyDemandRatio)
		}
		if a.WindowDays != 14 {
			t.Errorf("%s: expected window 14, got %d", bt, a.WindowDays)
		}
	}
	if len(result.Summary) == 0 {
		t.Error("expected summary insights")
	}
}

func TestReconcile_FailedForecastUsesFallback(t *testing.T) {
	r := newTestReconciler()
	history := testhelpers.BuildDemandHistoryWithGap(entities.ABNegative)
	snapshot := testhelpers.BuildFullDonorSnapshot()

	result, err := r.Reconcile(context.Background(), history, snapshot, 14)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if result.ForecastStatus[entities.ABNegative] != dto.TypeInsufficientData {
		t.Errorf("expected insufficient_data status for AB-, got %v",
			result.ForecastStatus[entities.ABNegative])
	}
	// AB- still gets an assessment, built on the naive estimate.
	if result.Assessments[entities.ABNegative] == nil {
		t.Fatal("expected assessment for AB- despite failed fit")
	}
}
