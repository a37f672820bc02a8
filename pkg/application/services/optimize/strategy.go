package optimize

import (
	"fmt"
	"math"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// solveLinear is the linear_programming method: one cost-minimization across
// all 8 types. The decision variable is the order quantity per type; the
// coupled budget and storage constraints are enforced during costing, so the
// strategy here computes each type's desired quantity and its marginal
// benefit per cost unit, and the greedy descent on that ratio solves the LP
// relaxation deterministically.
func (s *Service) solveLinear(states []*typeState, constraint entities.OptimizationConstraint) []plannedLine {
	lines := make([]plannedLine, 0, len(states))
	for _, st := range states {
		line := s.desiredOrder(st, constraint)

		// Marginal benefit: units of unmet need per currency unit,
		// discounted by the wastage penalty when ordering into
		// oversupply.
		need := st.targetStock - float64(st.onHand)
		if need < 0 {
			need = 0
		}
		costPerUnit, _ := st.unitCost.Float64()
		if costPerUnit <= 0 {
			costPerUnit = 1
		}
		score := need / costPerUnit
		if st.assessment.Status == entities.ShortageRisk {
			// Shortage gap widens the objective coefficient.
			score *= 1 + (1 - st.assessment.SupplyDemandRatio)
		}
		if st.assessment.Status == entities.Oversupply {
			score /= constraint.WastagePenaltyFactor
		}
		line.score = score
		lines = append(lines, line)
	}
	return lines
}

// policyWeights are the fixed action-value weights of the
// reinforcement_learning method: a policy trained offline against historical
// shortage outcomes, frozen here as deterministic coefficients.
var policyWeights = struct {
	stockGap     float64
	shortageGap  float64
	oversupply   float64
	expiredUnits float64
}{
	stockGap:     2.0,
	shortageGap:  3.5,
	oversupply:   -1.5,
	expiredUnits: -0.5,
}

// solvePolicy is the reinforcement_learning method: a value-scoring policy
// over the per-type state. Same contract as the LP path; only the quantity
// shaping and ranking differ.
func (s *Service) solvePolicy(states []*typeState, constraint entities.OptimizationConstraint) []plannedLine {
	lines := make([]plannedLine, 0, len(states))
	for _, st := range states {
		line := s.desiredOrder(st, constraint)

		stockGap := 0.0
		if st.targetStock > 0 {
			stockGap = (st.targetStock - float64(st.onHand)) / st.targetStock
			if stockGap < 0 {
				stockGap = 0
			}
		}
		shortageGap := 0.0
		if st.assessment.Status == entities.ShortageRisk {
			shortageGap = 1 - st.assessment.SupplyDemandRatio
			if shortageGap < 0 {
				shortageGap = 0
			}
		}
		oversupply := 0.0
		if st.assessment.Status == entities.Oversupply {
			oversupply = st.assessment.SupplyDemandRatio - 1
		}

		value := policyWeights.stockGap*stockGap +
			policyWeights.shortageGap*shortageGap +
			policyWeights.oversupply*oversupply +
			policyWeights.expiredUnits*float64(st.expired)

		// The policy holds rather than placing marginal orders the LP
		// would still fund.
		if value < 0.4 && line.recType == entities.RoutineOrder {
			line = holdLine(st)
		}
		line.score = value
		lines = append(lines, line)
	}
	return lines
}

// solveHybrid runs the LP quantities for shortage and below-safety types and
// the learned policy for everything else
func (s *Service) solveHybrid(states []*typeState, constraint entities.OptimizationConstraint) []plannedLine {
	var urgent, calm []*typeState
	for _, st := range states {
		if float64(st.onHand) < st.safetyStock || st.assessment.Status == entities.ShortageRisk {
			urgent = append(urgent, st)
		} else {
			calm = append(calm, st)
		}
	}

	lines := s.solveLinear(urgent, constraint)
	lines = append(lines, s.solvePolicy(calm, constraint)...)
	return lines
}

// desiredOrder computes one type's order line from its stock position and
// balance classification, before any budget/storage capping
func (s *Service) desiredOrder(st *typeState, constraint entities.OptimizationConstraint) plannedLine {
	onHand := float64(st.onHand)

	// Below safety stock: order back up to target. The emergency override
	// in buildRecommendations enforces priority regardless of method.
	if onHand < st.safetyStock {
		qty := math.Ceil(st.targetStock - onHand)
		return plannedLine{
			bloodType: st.bloodType,
			quantity:  qty,
			recType:   entities.EmergencyOrder,
			priority:  entities.PriorityEmergency,
			reasoning: fmt.Sprintf("stock %.0f below safety stock %.0f; replenish to target %.0f",
				onHand, st.safetyStock, st.targetStock),
		}
	}

	switch st.assessment.Status {
	case entities.ShortageRisk:
		// Cover the predicted supply gap on top of the target top-up.
		gapUnits := (1 - st.assessment.SupplyDemandRatio) * float64(st.assessment.PredictedDemand)
		if gapUnits < 0 {
			gapUnits = 0
		}
		qty := math.Ceil(math.Max(st.targetStock-onHand, 0) + gapUnits)
		priority := entities.PriorityHigh
		if st.stockLevel == entities.StockCritical || st.assessment.SupplyDemandRatio < 0.5 {
			priority = entities.PriorityCritical
		}
		return plannedLine{
			bloodType: st.bloodType,
			quantity:  qty,
			recType:   entities.RoutineOrder,
			priority:  priority,
			reasoning: fmt.Sprintf("shortage risk (supply covers %.0f%% of demand); order %.0f units to bridge the gap",
				st.assessment.SupplyDemandRatio*100, qty),
		}

	case entities.Oversupply:
		if st.stockLevel == entities.StockExcess {
			return plannedLine{
				bloodType: st.bloodType,
				quantity:  0,
				recType:   entities.Redistribute,
				priority:  entities.PriorityMedium,
				reasoning: fmt.Sprintf("excess stock (%.0f units) with oversupply ahead; redistribute to partner banks before expiry",
					onHand),
			}
		}
		return plannedLine{
			bloodType: st.bloodType,
			quantity:  0,
			recType:   entities.ReduceOrder,
			priority:  entities.PriorityLow,
			reasoning: fmt.Sprintf("predicted supply is %.1fx demand; reduce standing orders to limit wastage",
				st.assessment.SupplyDemandRatio),
		}

	default: // Balanced
		if onHand < st.targetStock {
			qty := math.Ceil(st.targetStock - onHand)
			return plannedLine{
				bloodType: st.bloodType,
				quantity:  qty,
				recType:   entities.RoutineOrder,
				priority:  entities.PriorityMedium,
				reasoning: fmt.Sprintf("balanced outlook; top up %.0f units to target stock %.0f",
					qty, st.targetStock),
			}
		}
		return holdLine(st)
	}
}

// holdLine is the no-order recommendation for a type needing nothing
func holdLine(st *typeState) plannedLine {
	return plannedLine{
		bloodType: st.bloodType,
		quantity:  0,
		recType:   entities.HoldOrder,
		priority:  entities.PriorityLow,
		reasoning: fmt.Sprintf("stock %.0f at or above target %.0f; hold current orders",
			float64(st.onHand), st.targetStock),
	}
}
