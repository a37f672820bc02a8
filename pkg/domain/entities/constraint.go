package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OptimizationConstraint carries the operating limits for one optimization
// run. Callers may leave it zero-valued and take the defaults; values are
// validated at optimizer entry.
type OptimizationConstraint struct {
	MaxStorageCapacity      Units           // total units storable across all types
	MinSafetyStockDays      int             // days of average demand kept as floor
	MaxOrderFrequencyDays   int             // minimum spacing between routine orders
	BudgetConstraint        decimal.Decimal // total spend ceiling for the run
	EmergencyCostMultiplier float64         // >= 1, applied to emergency orders
	WastagePenaltyFactor    float64         // >= 1, applied to oversupply ordering
	ShelfLifeBufferDays     int             // days reserved against expiry
}

// Default operating limits, applied field-by-field when the caller leaves a
// field unset.
var defaultConstraint = OptimizationConstraint{
	MaxStorageCapacity:      2000,
	MinSafetyStockDays:      7,
	MaxOrderFrequencyDays:   3,
	BudgetConstraint:        decimal.NewFromInt(50000),
	EmergencyCostMultiplier: 1.5,
	WastagePenaltyFactor:    1.2,
	ShelfLifeBufferDays:     7,
}

// DefaultConstraint returns the default operating limits
func DefaultConstraint() OptimizationConstraint {
	return defaultConstraint
}

// ApplyDefaults fills unset fields with default values and returns the
// result. BudgetConstraint is deliberately left alone: an explicit zero
// budget is meaningful caller input (it makes any paid order infeasible),
// so only a wholly absent constraint gets the default budget.
func (c OptimizationConstraint) ApplyDefaults() OptimizationConstraint {
	if c.MaxStorageCapacity == 0 {
		c.MaxStorageCapacity = defaultConstraint.MaxStorageCapacity
	}
	if c.MinSafetyStockDays == 0 {
		c.MinSafetyStockDays = defaultConstraint.MinSafetyStockDays
	}
	if c.MaxOrderFrequencyDays == 0 {
		c.MaxOrderFrequencyDays = defaultConstraint.MaxOrderFrequencyDays
	}
	if c.EmergencyCostMultiplier == 0 {
		c.EmergencyCostMultiplier = defaultConstraint.EmergencyCostMultiplier
	}
	if c.WastagePenaltyFactor == 0 {
		c.WastagePenaltyFactor = defaultConstraint.WastagePenaltyFactor
	}
	if c.ShelfLifeBufferDays == 0 {
		c.ShelfLifeBufferDays = defaultConstraint.ShelfLifeBufferDays
	}
	return c
}

// Validate rejects malformed constraints before any computation runs.
// A zero budget is valid input here; whether it is satisfiable is the
// optimizer's feasibility check, not a validation concern.
func (c OptimizationConstraint) Validate() error {
	if c.MaxStorageCapacity < 0 {
		return &InvalidConstraintError{Field: "max_storage_capacity", Reason: fmt.Sprintf("cannot be negative, got %v", c.MaxStorageCapacity)}
	}
	if c.MinSafetyStockDays < 0 {
		return &InvalidConstraintError{Field: "min_safety_stock_days", Reason: fmt.Sprintf("cannot be negative, got %d", c.MinSafetyStockDays)}
	}
	if c.MaxOrderFrequencyDays < 0 {
		return &InvalidConstraintError{Field: "max_order_frequency_days", Reason: fmt.Sprintf("cannot be negative, got %d", c.MaxOrderFrequencyDays)}
	}
	if c.BudgetConstraint.IsNegative() {
		return &InvalidConstraintError{Field: "budget_constraint", Reason: fmt.Sprintf("cannot be negative, got %s", c.BudgetConstraint)}
	}
	if c.EmergencyCostMultiplier < 1 {
		return &InvalidConstraintError{Field: "emergency_cost_multiplier", Reason: fmt.Sprintf("must be >= 1, got %v", c.EmergencyCostMultiplier)}
	}
	if c.WastagePenaltyFactor < 1 {
		return &InvalidConstraintError{Field: "wastage_penalty_factor", Reason: fmt.Sprintf("must be >= 1, got %v", c.WastagePenaltyFactor)}
	}
	if c.ShelfLifeBufferDays < 0 {
		return &InvalidConstraintError{Field: "shelf_life_buffer_days", Reason: fmt.Sprintf("cannot be negative, got %d", c.ShelfLifeBufferDays)}
	}
	return nil
}
