package optimize

import (
	"fmt"
	"strings"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// assessRisk derives the run-level risk assessment from the per-type states
// and the costed result
func (s *Service) assessRisk(states []*typeState, result *Result, constraint entities.OptimizationConstraint) entities.RiskAssessment {
	var shortageTypes []entities.BloodType
	var onHand, expired float64
	for _, st := range states {
		if st.assessment.Status == entities.ShortageRisk {
			shortageTypes = append(shortageTypes, st.bloodType)
		}
		onHand += float64(st.onHand)
		expired += float64(st.expired)
	}

	supplyRisk := float64(len(shortageTypes)) / float64(len(entities.AllBloodTypes))

	costRisk := 0.0
	if constraint.BudgetConstraint.IsPositive() {
		utilization, _ := result.TotalCost.Div(constraint.BudgetConstraint).Float64()
		costRisk = utilization
		if costRisk > 1 {
			costRisk = 1
		}
	} else if result.TotalCost.IsPositive() {
		costRisk = 1
	}

	wastageRisk := 0.0
	if onHand+expired > 0 {
		wastageRisk = expired / (onHand + expired)
	}

	score := s.policy.SupplyRiskWeight*supplyRisk +
		s.policy.CostRiskWeight*costRisk +
		s.policy.WastageRiskWeight*wastageRisk

	var level entities.RiskLevel
	switch {
	case score >= s.policy.CriticalRiskCutoff:
		level = entities.RiskCritical
	case score >= s.policy.HighRiskCutoff:
		level = entities.RiskHigh
	case score >= s.policy.MediumRiskCutoff:
		level = entities.RiskMedium
	default:
		level = entities.RiskLow
	}

	return entities.RiskAssessment{
		OverallRiskScore: score,
		RiskLevel:        level,
		SupplyRisk:       supplyRisk,
		CostRisk:         costRisk,
		WastageRisk:      wastageRisk,
		ShortageTypes:    shortageTypes,
		Narrative:        riskNarrative(level, shortageTypes, result.OverBudget),
	}
}

// riskNarrative renders the deterministic run-level risk text
func riskNarrative(level entities.RiskLevel, shortageTypes []entities.BloodType, overBudget bool) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("overall risk %s", level))

	if len(shortageTypes) > 0 {
		labels := make([]string, len(shortageTypes))
		for i, bt := range shortageTypes {
			labels[i] = bt.String()
		}
		parts = append(parts, fmt.Sprintf("shortage risk for %s", strings.Join(labels, ", ")))
	}
	if overBudget {
		parts = append(parts, "emergency orders exceeded the budget constraint")
	}
	return strings.Join(parts, "; ")
}
