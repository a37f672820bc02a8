package optimize

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/services"
)

// Method selects the optimization strategy. The contract is identical across
// methods; only the policy that turns balances into order quantities varies.
type Method int

const (
	LinearProgramming Method = iota
	ReinforcementLearning
	Hybrid
)

// String method for Method enum
func (m Method) String() string {
	switch m {
	case LinearProgramming:
		return "linear_programming"
	case ReinforcementLearning:
		return "reinforcement_learning"
	case Hybrid:
		return "hybrid"
	default:
		return "Unknown"
	}
}

// ParseMethod converts a method label into a Method
func ParseMethod(s string) (Method, error) {
	switch s {
	case "linear_programming", "":
		return LinearProgramming, nil
	case "reinforcement_learning":
		return ReinforcementLearning, nil
	case "hybrid":
		return Hybrid, nil
	default:
		return 0, fmt.Errorf("unknown optimization method %q", s)
	}
}

// Config holds cost and lead-time tuning for the optimizer
type Config struct {
	// BaseUnitCost is the procurement cost of one unit of the most common
	// type.
	BaseUnitCost decimal.Decimal
	// RarityMultiplier scales unit cost per blood type; missing types
	// default to 1.
	RarityMultiplier map[entities.BloodType]float64
	// EmergencyLeadDays and RoutineLeadDays set expected delivery.
	EmergencyLeadDays int
	RoutineLeadDays   int
}

// DefaultConfig returns the optimizer defaults. Rarer types cost more per
// unit, reflecting supplier pricing.
func DefaultConfig() Config {
	return Config{
		BaseUnitCost: decimal.NewFromInt(120),
		RarityMultiplier: map[entities.BloodType]float64{
			entities.OPositive:  1.0,
			entities.APositive:  1.0,
			entities.BPositive:  1.1,
			entities.ABPositive: 1.2,
			entities.ONegative:  1.4,
			entities.ANegative:  1.25,
			entities.BNegative:  1.35,
			entities.ABNegative: 1.5,
		},
		EmergencyLeadDays: 1,
		RoutineLeadDays:   3,
	}
}

// Service computes ranked order recommendations from stock levels, balance
// assessments and operating constraints. Stateless: each run is a pure
// computation over its inputs, safe to invoke concurrently for unrelated
// sessions.
type Service struct {
	config Config
	policy services.Policy
}

// NewService creates an optimizer with default configuration and policy
func NewService() *Service {
	return NewServiceWith(DefaultConfig(), services.DefaultPolicy())
}

// NewServiceWith creates an optimizer with custom configuration and policy
func NewServiceWith(config Config, policy services.Policy) *Service {
	if config.BaseUnitCost.IsZero() {
		config.BaseUnitCost = DefaultConfig().BaseUnitCost
	}
	if config.EmergencyLeadDays <= 0 {
		config.EmergencyLeadDays = 1
	}
	if config.RoutineLeadDays <= 0 {
		config.RoutineLeadDays = 3
	}
	return &Service{config: config, policy: policy}
}

// Result is the raw outcome of one optimization run, before report assembly
type Result struct {
	Method          Method
	Recommendations []entities.Recommendation
	TotalCost       decimal.Decimal
	OverBudget      bool
	RiskAssessment  entities.RiskAssessment
	Elapsed         time.Duration
	Constraint      entities.OptimizationConstraint
}

// typeState is the per-blood-type working state shared by all strategies
type typeState struct {
	bloodType   entities.BloodType
	onHand      entities.Units
	expired     entities.Units
	dailyDemand float64
	safetyStock float64
	targetStock float64
	assessment  *entities.BalanceAssessment
	stockLevel  entities.StockLevel
	unitCost    decimal.Decimal
}

// Optimize runs the multi-type optimization. The budget and storage
// constraints couple all 8 types, so this is a single blocking computation;
// it honors ctx for the caller-advised timeout. A nil constraint takes the
// defaults; a supplied constraint keeps its explicit budget, zero included.
func (s *Service) Optimize(
	ctx context.Context,
	method Method,
	levels map[entities.BloodType]*entities.InventoryLevel,
	assessments map[entities.BloodType]*entities.BalanceAssessment,
	callerConstraint *entities.OptimizationConstraint,
) (*Result, error) {
	started := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var constraint entities.OptimizationConstraint
	if callerConstraint == nil {
		constraint = entities.DefaultConstraint()
	} else {
		constraint = callerConstraint.ApplyDefaults()
	}
	if err := constraint.Validate(); err != nil {
		return nil, err
	}

	states, err := s.buildStates(levels, assessments, constraint)
	if err != nil {
		return nil, err
	}
	if err := s.checkFeasibility(states, constraint); err != nil {
		return nil, err
	}

	var orders []plannedLine
	switch method {
	case LinearProgramming:
		orders = s.solveLinear(states, constraint)
	case ReinforcementLearning:
		orders = s.solvePolicy(states, constraint)
	case Hybrid:
		orders = s.solveHybrid(states, constraint)
	default:
		return nil, fmt.Errorf("unknown optimization method %d", method)
	}

	recommendations, totalCost, overBudget, err := s.buildRecommendations(states, orders, constraint)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Method:          method,
		Recommendations: recommendations,
		TotalCost:       totalCost,
		OverBudget:      overBudget,
		Constraint:      constraint,
		Elapsed:         time.Since(started),
	}
	result.RiskAssessment = s.assessRisk(states, result, constraint)
	return result, nil
}

// buildStates derives the per-type working state from inventory and balance
// inputs
func (s *Service) buildStates(
	levels map[entities.BloodType]*entities.InventoryLevel,
	assessments map[entities.BloodType]*entities.BalanceAssessment,
	constraint entities.OptimizationConstraint,
) ([]*typeState, error) {
	states := make([]*typeState, 0, len(entities.AllBloodTypes))
	for _, bt := range entities.AllBloodTypes {
		assessment := assessments[bt]
		if assessment == nil {
			return nil, fmt.Errorf("missing balance assessment for %s", bt)
		}
		states = append(states, s.buildState(bt, levels[bt], assessment, constraint))
	}
	return states, nil
}

// buildState derives one blood type's working state
func (s *Service) buildState(
	bt entities.BloodType,
	level *entities.InventoryLevel,
	assessment *entities.BalanceAssessment,
	constraint entities.OptimizationConstraint,
) *typeState {
	state := &typeState{
		bloodType:  bt,
		assessment: assessment,
		unitCost:   s.unitCost(bt),
	}
	if level != nil {
		state.onHand = level.UnitsOnHand
		state.expired = level.UnitsExpired
	}

	window := assessment.WindowDays
	if window <= 0 {
		window = 1
	}
	state.dailyDemand = float64(assessment.PredictedDemand) / float64(window)
	if state.dailyDemand < 0 {
		state.dailyDemand = 0
	}
	state.safetyStock = state.dailyDemand * float64(constraint.MinSafetyStockDays)
	state.targetStock = state.safetyStock +
		state.dailyDemand*float64(constraint.MaxOrderFrequencyDays+constraint.ShelfLifeBufferDays)
	state.stockLevel = classifyStock(float64(state.onHand), state.safetyStock, state.targetStock)
	return state
}

// unitCost returns the per-unit procurement cost for a blood type
func (s *Service) unitCost(bloodType entities.BloodType) decimal.Decimal {
	multiplier := 1.0
	if m, ok := s.config.RarityMultiplier[bloodType]; ok && m > 0 {
		multiplier = m
	}
	return s.config.BaseUnitCost.Mul(decimal.NewFromFloat(multiplier))
}

// classifyStock buckets current stock against safety and target levels
func classifyStock(onHand, safety, target float64) entities.StockLevel {
	switch {
	case onHand < safety*0.5:
		return entities.StockCritical
	case onHand < safety:
		return entities.StockLow
	case onHand < target:
		return entities.StockAdequate
	case onHand <= target*1.3:
		return entities.StockOptimal
	default:
		return entities.StockExcess
	}
}

// checkFeasibility fails fast when the constraint set cannot be satisfied at
// all, naming the binding constraint. It never silently relaxes anything.
func (s *Service) checkFeasibility(states []*typeState, constraint entities.OptimizationConstraint) error {
	// Storage: the mandatory safety-stock holdings alone must fit.
	var requiredStorage float64
	var anyMandatoryCost bool
	for _, st := range states {
		requiredStorage += st.safetyStock
		if float64(st.onHand) < st.safetyStock {
			anyMandatoryCost = true
		}
	}
	if requiredStorage > float64(constraint.MaxStorageCapacity) {
		return &entities.InfeasibleConstraintsError{
			BindingConstraint: "max_storage_capacity",
			Detail: fmt.Sprintf("safety stock across all types needs %.0f units, capacity is %v",
				requiredStorage, constraint.MaxStorageCapacity),
		}
	}

	// Budget: a zero budget cannot fund mandatory emergency replenishment.
	if constraint.BudgetConstraint.IsZero() && anyMandatoryCost {
		for _, st := range states {
			if float64(st.onHand) < st.safetyStock {
				return &entities.InfeasibleConstraintsError{
					BindingConstraint: "budget_constraint",
					BloodType:         st.bloodType,
					HasBloodType:      true,
					Detail:            "zero budget cannot fund required safety-stock replenishment",
				}
			}
		}
	}
	return nil
}

// plannedLine is one strategy-produced order before costing and ranking
type plannedLine struct {
	bloodType entities.BloodType
	quantity  float64
	recType   entities.RecommendationType
	priority  entities.PriorityLevel
	reasoning string
	score     float64 // strategy-internal ranking score
}

// buildRecommendations costs the planned lines, enforces the budget cap on
// non-emergency spending, applies the hard safety-stock override, and ranks
// the final list.
func (s *Service) buildRecommendations(
	states []*typeState,
	orders []plannedLine,
	constraint entities.OptimizationConstraint,
) ([]entities.Recommendation, decimal.Decimal, bool, error) {
	stateByType := make(map[entities.BloodType]*typeState, len(states))
	for _, st := range states {
		stateByType[st.bloodType] = st
	}

	// An explicit zero budget with any paid order to make is infeasible,
	// never silently answered with a zero-cost recommendation.
	if constraint.BudgetConstraint.IsZero() {
		for _, line := range orders {
			if line.quantity > 0 {
				return nil, decimal.Zero, false, &entities.InfeasibleConstraintsError{
					BindingConstraint: "budget_constraint",
					BloodType:         line.bloodType,
					HasBloodType:      true,
					Detail:            fmt.Sprintf("zero budget cannot fund a %.0f unit order", line.quantity),
				}
			}
		}
	}

	// Emergency lines are mandatory; routine lines compete for what is
	// left of the budget, highest score first.
	var emergencies, routine []plannedLine
	for _, line := range orders {
		st := stateByType[line.bloodType]
		if st != nil && float64(st.onHand) < st.safetyStock {
			// Hard policy rule: below safety stock forces an
			// emergency order regardless of strategy output.
			line.recType = entities.EmergencyOrder
			line.priority = entities.PriorityEmergency
			if deficit := st.safetyStock - float64(st.onHand); line.quantity < deficit {
				line.quantity = deficit
			}
			emergencies = append(emergencies, line)
			continue
		}
		routine = append(routine, line)
	}
	sort.SliceStable(routine, func(i, j int) bool { return routine[i].score > routine[j].score })

	now := time.Now().UTC()
	totalCost := decimal.Zero
	overBudget := false
	var recommendations []entities.Recommendation

	appendLine := func(line plannedLine, cost decimal.Decimal, leadDays int) error {
		st := stateByType[line.bloodType]
		confidence := confidenceFor(st, line)
		rec, err := entities.NewRecommendation(
			uuid.NewString(),
			line.bloodType,
			st.stockLevel,
			line.recType,
			entities.Units(line.quantity),
			line.priority,
			cost,
			now.AddDate(0, 0, leadDays),
			line.reasoning,
			confidence,
		)
		if err != nil {
			return fmt.Errorf("building recommendation for %s: %w", line.bloodType, err)
		}
		recommendations = append(recommendations, *rec)
		totalCost = totalCost.Add(cost)
		return nil
	}

	// Emergencies spend storage like any other order; capacity caps the
	// quantity when the top-up to target does not fit.
	remainingStorage := s.remainingStorage(states, constraint)
	for _, line := range emergencies {
		if line.quantity > remainingStorage {
			line.quantity = remainingStorage
			line.reasoning += "; capped at remaining storage capacity"
		}
		if line.quantity <= 0 {
			continue
		}
		st := stateByType[line.bloodType]
		cost := st.unitCost.
			Mul(decimal.NewFromFloat(line.quantity)).
			Mul(decimal.NewFromFloat(constraint.EmergencyCostMultiplier)).
			Round(2)
		if err := appendLine(line, cost, s.config.EmergencyLeadDays); err != nil {
			return nil, decimal.Zero, false, err
		}
		remainingStorage -= line.quantity
	}
	if totalCost.GreaterThan(constraint.BudgetConstraint) {
		if constraint.BudgetConstraint.IsZero() {
			// checkFeasibility already rejects this; defensive.
			return nil, decimal.Zero, false, &entities.InfeasibleConstraintsError{
				BindingConstraint: "budget_constraint",
				Detail:            "zero budget with mandatory emergency orders",
			}
		}
		// Emergencies may exceed budget: stockouts outrank cost. The
		// report flags the overrun instead of hiding it.
		overBudget = true
	}

	for _, line := range routine {
		if line.quantity <= 0 {
			// Hold / reduce / redistribute lines carry no spend.
			if err := appendLine(line, decimal.Zero, 0); err != nil {
				return nil, decimal.Zero, false, err
			}
			continue
		}

		st := stateByType[line.bloodType]
		if line.quantity > remainingStorage {
			line.quantity = remainingStorage
		}
		if line.quantity <= 0 {
			continue
		}

		cost := st.unitCost.Mul(decimal.NewFromFloat(line.quantity)).Round(2)
		budgetLeft := constraint.BudgetConstraint.Sub(totalCost)
		if cost.GreaterThan(budgetLeft) {
			// Trim the order to the remaining budget; drop it when
			// the trim leaves nothing worth ordering.
			if budgetLeft.LessThanOrEqual(decimal.Zero) {
				continue
			}
			affordable, _ := budgetLeft.Div(st.unitCost).Float64()
			line.quantity = float64(int(affordable))
			if line.quantity < 1 {
				continue
			}
			cost = st.unitCost.Mul(decimal.NewFromFloat(line.quantity)).Round(2)
		}

		if err := appendLine(line, cost, s.config.RoutineLeadDays); err != nil {
			return nil, decimal.Zero, false, err
		}
		remainingStorage -= line.quantity
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].PriorityLevel != recommendations[j].PriorityLevel {
			return recommendations[i].PriorityLevel > recommendations[j].PriorityLevel
		}
		return recommendations[i].RecommendedOrderQty > recommendations[j].RecommendedOrderQty
	})
	return recommendations, totalCost, overBudget, nil
}

// remainingStorage returns storage capacity left after current holdings
func (s *Service) remainingStorage(states []*typeState, constraint entities.OptimizationConstraint) float64 {
	var held float64
	for _, st := range states {
		held += float64(st.onHand)
	}
	remaining := float64(constraint.MaxStorageCapacity) - held
	if remaining < 0 {
		return 0
	}
	return remaining
}

// confidenceFor derives a deterministic confidence score from the balance
// ratio and stock classification
func confidenceFor(st *typeState, line plannedLine) float64 {
	confidence := 0.9
	if st.assessment != nil {
		// Ratios far from 1 mean a clearer signal either way.
		distance := st.assessment.SupplyDemandRatio - 1
		if distance < 0 {
			distance = -distance
		}
		if distance > 1 {
			distance = 1
		}
		confidence = 0.6 + 0.3*distance
	}
	if line.recType == entities.EmergencyOrder {
		// Below safety stock is unambiguous.
		confidence = 0.95
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}
