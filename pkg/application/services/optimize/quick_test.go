package optimize

import (
	"context"
	"testing"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

func TestQuickRecommendations_SingleType(t *testing.T) {
	svc := NewService()
	assessments := balancedAssessments(140, 14)
	levels := levelsAt(100)

	bt := entities.ABNegative
	recs, err := svc.QuickRecommendations(context.Background(), LinearProgramming, levels, assessments, &bt)
	if err != nil {
		t.Fatalf("QuickRecommendations failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].BloodType != entities.ABNegative {
		t.Errorf("expected AB-, got %v", recs[0].BloodType)
	}
}

func TestQuickRecommendations_AllTypes(t *testing.T) {
	svc := NewService()
	assessments := balancedAssessments(140, 14)
	levels := levelsAt(100)
	levels[entities.BPositive] = &entities.InventoryLevel{BloodType: entities.BPositive, UnitsOnHand: 3}

	recs, err := svc.QuickRecommendations(context.Background(), Hybrid, levels, assessments, nil)
	if err != nil {
		t.Fatalf("QuickRecommendations failed: %v", err)
	}
	if len(recs) != len(entities.AllBloodTypes) {
		t.Fatalf("expected %d recommendations, got %d", len(entities.AllBloodTypes), len(recs))
	}

	// B+ sits below safety stock, so it ranks first as an emergency.
	if recs[0].BloodType != entities.BPositive {
		t.Errorf("expected B+ ranked first, got %v", recs[0].BloodType)
	}
	if recs[0].PriorityLevel != entities.PriorityEmergency {
		t.Errorf("expected emergency priority, got %v", recs[0].PriorityLevel)
	}
	if !recs[0].CostEstimate.IsPositive() {
		t.Error("expected positive cost for the emergency order")
	}
}

func TestQuickRecommendations_MissingAssessment(t *testing.T) {
	svc := NewService()
	assessments := balancedAssessments(140, 14)
	delete(assessments, entities.ANegative)

	if _, err := svc.QuickRecommendations(context.Background(), LinearProgramming, levelsAt(100), assessments, nil); err == nil {
		t.Error("expected error for missing assessment")
	}
}
