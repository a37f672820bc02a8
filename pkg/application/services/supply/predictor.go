package supply

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/services"
)

// Predictor turns a clinical snapshot of donor-eligibility records into
// per-blood-type supply predictions. Pure function of the input batch: no
// persistence, no cross-call state.
type Predictor struct {
	policy services.Policy
}

// NewPredictor creates a supply predictor with the default policy
func NewPredictor() *Predictor {
	return NewPredictorWithPolicy(services.DefaultPolicy())
}

// NewPredictorWithPolicy creates a supply predictor with a custom policy
func NewPredictorWithPolicy(policy services.Policy) *Predictor {
	return &Predictor{policy: policy}
}

// Predict partitions the snapshot by blood type and computes the expected
// donation supply for each, with risk annotations and a global narrative.
// Every one of the 8 blood types gets a prediction; types with no donors in
// the snapshot carry zero supply and the no_data risk factor.
func (p *Predictor) Predict(snapshot []*entities.DonorRecord, horizonDays int) (*dto.SupplyPredictionResult, error) {
	if horizonDays <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizonDays)
	}

	byType := make(map[entities.BloodType][]*entities.DonorRecord)
	for _, donor := range snapshot {
		if donor == nil {
			continue
		}
		byType[donor.BloodType] = append(byType[donor.BloodType], donor)
	}

	predictions := make(map[entities.BloodType]*entities.SupplyPrediction, len(entities.AllBloodTypes))
	for _, bt := range entities.AllBloodTypes {
		predictions[bt] = p.predictOne(bt, byType[bt])
	}

	return &dto.SupplyPredictionResult{
		HorizonDays: horizonDays,
		GeneratedAt: time.Now().UTC(),
		Predictions: predictions,
		Narrative:   p.narrative(predictions),
	}, nil
}

// predictOne computes the supply prediction for a single blood type
func (p *Predictor) predictOne(bloodType entities.BloodType, donors []*entities.DonorRecord) *entities.SupplyPrediction {
	prediction := &entities.SupplyPrediction{
		BloodType:       bloodType,
		TotalDonorCount: len(donors),
	}

	if len(donors) == 0 {
		prediction.RiskFactors = []string{entities.RiskNoData}
		return prediction
	}

	for _, donor := range donors {
		if donor.Status == entities.Eligible {
			prediction.EligibleDonorCount++
		}
	}
	prediction.EligibilityRate = float64(prediction.EligibleDonorCount) / float64(len(donors))
	prediction.PredictedDailySupply = entities.Units(
		float64(prediction.EligibleDonorCount) * p.policy.DonationRate * p.policy.SeasonalFactor)

	lowEligibility := prediction.EligibilityRate < p.policy.LowEligibilityCutoff
	smallPool := len(donors) < p.policy.SmallPoolCutoff
	switch {
	case lowEligibility && smallPool:
		prediction.RiskFactors = []string{entities.RiskLowEligibility, entities.RiskSmallPool, entities.RiskCompound}
	case lowEligibility:
		prediction.RiskFactors = []string{entities.RiskLowEligibility}
	case smallPool:
		prediction.RiskFactors = []string{entities.RiskSmallPool}
	}
	return prediction
}

// narrative produces the deterministic global risk text for the snapshot
func (p *Predictor) narrative(predictions map[entities.BloodType]*entities.SupplyPrediction) string {
	var atRisk, missing []string
	for _, bt := range entities.AllBloodTypes {
		pred := predictions[bt]
		if pred.HasRiskFactor(entities.RiskNoData) {
			missing = append(missing, bt.String())
			continue
		}
		if len(pred.RiskFactors) > 0 {
			atRisk = append(atRisk, bt.String())
		}
	}
	sort.Strings(atRisk)
	sort.Strings(missing)

	switch {
	case len(atRisk) == 0 && len(missing) == 0:
		return "donor supply stable across all blood types"
	case len(atRisk) == 0:
		return fmt.Sprintf("no donor data for %s; remaining types stable", strings.Join(missing, ", "))
	case len(missing) == 0:
		return fmt.Sprintf("supply risk flagged for %s", strings.Join(atRisk, ", "))
	default:
		return fmt.Sprintf("supply risk flagged for %s; no donor data for %s",
			strings.Join(atRisk, ", "), strings.Join(missing, ", "))
	}
}
