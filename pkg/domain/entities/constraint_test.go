package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestConstraint_ApplyDefaults(t *testing.T) {
	c := OptimizationConstraint{}.ApplyDefaults()

	if c.MaxStorageCapacity != 2000 {
		t.Errorf("expected default storage capacity 2000, got %v", c.MaxStorageCapacity)
	}
	if c.MinSafetyStockDays != 7 {
		t.Errorf("expected default safety stock days 7, got %d", c.MinSafetyStockDays)
	}
	if !c.BudgetConstraint.IsZero() {
		t.Errorf("ApplyDefaults must not touch the budget, got %s", c.BudgetConstraint)
	}
	if !DefaultConstraint().BudgetConstraint.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("expected default budget 50000, got %s", DefaultConstraint().BudgetConstraint)
	}

	// Caller-set fields survive
	custom := OptimizationConstraint{MinSafetyStockDays: 14}.ApplyDefaults()
	if custom.MinSafetyStockDays != 14 {
		t.Errorf("expected caller value 14 preserved, got %d", custom.MinSafetyStockDays)
	}
}

func TestConstraint_Validate(t *testing.T) {
	tests := []struct {
		name       string
		constraint OptimizationConstraint
		wantField  string
	}{
		{
			name:       "negative_budget",
			constraint: OptimizationConstraint{BudgetConstraint: decimal.NewFromInt(-1), EmergencyCostMultiplier: 1, WastagePenaltyFactor: 1},
			wantField:  "budget_constraint",
		},
		{
			name:       "multiplier_below_one",
			constraint: OptimizationConstraint{EmergencyCostMultiplier: 0.5, WastagePenaltyFactor: 1},
			wantField:  "emergency_cost_multiplier",
		},
		{
			name:       "negative_storage",
			constraint: OptimizationConstraint{MaxStorageCapacity: -10, EmergencyCostMultiplier: 1, WastagePenaltyFactor: 1},
			wantField:  "max_storage_capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constraint.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var invalid *InvalidConstraintError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidConstraintError, got %T", err)
			}
			if invalid.Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, invalid.Field)
			}
		})
	}

	// Zero budget is valid input; feasibility is the optimizer's concern
	zeroBudget := OptimizationConstraint{EmergencyCostMultiplier: 1, WastagePenaltyFactor: 1}
	if err := zeroBudget.Validate(); err != nil {
		t.Errorf("zero budget should pass validation, got %v", err)
	}
}
