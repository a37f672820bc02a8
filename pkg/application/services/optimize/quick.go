package optimize

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// QuickRecommendations is the reduced-fidelity path for low-latency polling:
// default constraints, no multi-type coupling, one recommendation per
// requested type. Pass a nil bloodType for all 8 types.
func (s *Service) QuickRecommendations(
	ctx context.Context,
	method Method,
	levels map[entities.BloodType]*entities.InventoryLevel,
	assessments map[entities.BloodType]*entities.BalanceAssessment,
	bloodType *entities.BloodType,
) ([]entities.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	constraint := entities.DefaultConstraint()

	wanted := entities.AllBloodTypes
	if bloodType != nil {
		wanted = []entities.BloodType{*bloodType}
	}

	now := time.Now().UTC()
	var recommendations []entities.Recommendation
	for _, bt := range wanted {
		assessment := assessments[bt]
		if assessment == nil {
			return nil, fmt.Errorf("missing balance assessment for %s", bt)
		}

		st := s.buildState(bt, levels[bt], assessment, constraint)
		line := s.desiredOrder(st, constraint)
		leadDays := s.config.RoutineLeadDays
		cost := decimal.Zero
		if float64(st.onHand) < st.safetyStock {
			line.recType = entities.EmergencyOrder
			line.priority = entities.PriorityEmergency
			leadDays = s.config.EmergencyLeadDays
			cost = st.unitCost.
				Mul(decimal.NewFromFloat(line.quantity)).
				Mul(decimal.NewFromFloat(constraint.EmergencyCostMultiplier)).
				Round(2)
		} else if line.quantity > 0 {
			cost = st.unitCost.Mul(decimal.NewFromFloat(line.quantity)).Round(2)
		}

		rec, err := entities.NewRecommendation(
			uuid.NewString(),
			bt,
			st.stockLevel,
			line.recType,
			entities.Units(line.quantity),
			line.priority,
			cost,
			now.AddDate(0, 0, leadDays),
			line.reasoning,
			confidenceFor(st, line),
		)
		if err != nil {
			return nil, fmt.Errorf("building quick recommendation for %s: %w", bt, err)
		}
		recommendations = append(recommendations, *rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].PriorityLevel > recommendations[j].PriorityLevel
	})
	return recommendations, nil
}
