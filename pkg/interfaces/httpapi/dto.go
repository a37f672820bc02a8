package httpapi

import (
	"time"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// ForecastPointJSON is one day of predicted demand on the wire
type ForecastPointJSON struct {
	Date            string  `json:"date"`
	PredictedDemand float64 `json:"predicted_demand"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// ForecastJSON is one blood type's forecast on the wire
type ForecastJSON struct {
	BloodType   string              `json:"blood_type"`
	HorizonDays int                 `json:"horizon_days"`
	Points      []ForecastPointJSON `json:"points"`
	ModelOrder  string              `json:"model_order"`
	Seasonal    bool                `json:"seasonal"`
	Fallback    bool                `json:"fallback"`
	GeneratedAt time.Time           `json:"generated_at"`
}

func toForecastJSON(f *entities.Forecast) *ForecastJSON {
	out := &ForecastJSON{
		BloodType:   f.BloodType.String(),
		HorizonDays: f.HorizonDays,
		Points:      make([]ForecastPointJSON, len(f.Points)),
		ModelOrder:  f.Diagnostics.ModelOrder.String(),
		Seasonal:    f.Diagnostics.Seasonal,
		Fallback:    f.Diagnostics.Fallback,
		GeneratedAt: f.GeneratedAt,
	}
	for i, p := range f.Points {
		out.Points[i] = ForecastPointJSON{
			Date:            p.Date.Format("2006-01-02"),
			PredictedDemand: float64(p.PredictedDemand),
			LowerBound:      float64(p.LowerBound),
			UpperBound:      float64(p.UpperBound),
			ConfidenceLevel: p.ConfidenceLevel,
		}
	}
	return out
}

// BatchForecastJSON is the all-types forecast response
type BatchForecastJSON struct {
	HorizonDays int                     `json:"horizon_days"`
	GeneratedAt time.Time               `json:"generated_at"`
	Results     map[string]TypeSlotJSON `json:"results"`
}

// TypeSlotJSON is one blood type's slot in a batch response
type TypeSlotJSON struct {
	Status   string        `json:"status"`
	Forecast *ForecastJSON `json:"forecast,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func toBatchForecastJSON(batch *dto.BatchForecastResult) *BatchForecastJSON {
	out := &BatchForecastJSON{
		HorizonDays: batch.HorizonDays,
		GeneratedAt: batch.GeneratedAt,
		Results:     make(map[string]TypeSlotJSON, len(batch.Results)),
	}
	for bt, slot := range batch.Results {
		j := TypeSlotJSON{Status: slot.Status.String(), Error: slot.Err}
		if slot.Forecast != nil {
			j.Forecast = toForecastJSON(slot.Forecast)
		}
		out.Results[bt.String()] = j
	}
	return out
}

// SupplyPredictionJSON is one blood type's supply outlook on the wire
type SupplyPredictionJSON struct {
	BloodType            string   `json:"blood_type"`
	TotalDonorCount      int      `json:"total_donor_count"`
	EligibleDonorCount   int      `json:"eligible_donor_count"`
	EligibilityRate      float64  `json:"eligibility_rate"`
	PredictedDailySupply float64  `json:"predicted_daily_supply"`
	RiskFactors          []string `json:"risk_factors"`
}

// SupplyResponseJSON is the supply prediction response
type SupplyResponseJSON struct {
	HorizonDays int                    `json:"horizon_days"`
	GeneratedAt time.Time              `json:"generated_at"`
	Predictions []SupplyPredictionJSON `json:"predictions"`
	Narrative   string                 `json:"narrative"`
}

func toSupplyJSON(result *dto.SupplyPredictionResult) *SupplyResponseJSON {
	out := &SupplyResponseJSON{
		HorizonDays: result.HorizonDays,
		GeneratedAt: result.GeneratedAt,
		Narrative:   result.Narrative,
	}
	for _, bt := range entities.AllBloodTypes {
		p := result.Predictions[bt]
		if p == nil {
			continue
		}
		out.Predictions = append(out.Predictions, SupplyPredictionJSON{
			BloodType:            p.BloodType.String(),
			TotalDonorCount:      p.TotalDonorCount,
			EligibleDonorCount:   p.EligibleDonorCount,
			EligibilityRate:      p.EligibilityRate,
			PredictedDailySupply: float64(p.PredictedDailySupply),
			RiskFactors:          p.RiskFactors,
		})
	}
	return out
}

// BalanceAssessmentJSON is one blood type's balance on the wire
type BalanceAssessmentJSON struct {
	BloodType         string  `json:"blood_type"`
	Status            string  `json:"status"`
	SupplyDemandRatio float64 `json:"supply_demand_ratio"`
	PredictedDemand   float64 `json:"predicted_demand"`
	PredictedSupply   float64 `json:"predicted_supply"`
	WindowDays        int     `json:"window_days"`
	Insight           string  `json:"insight"`
	ForecastStatus    string  `json:"forecast_status"`
}

// BalanceResponseJSON is the reconciliation response
type BalanceResponseJSON struct {
	HorizonDays int                     `json:"horizon_days"`
	GeneratedAt time.Time               `json:"generated_at"`
	Assessments []BalanceAssessmentJSON `json:"assessments"`
	Summary     []string                `json:"summary"`
}

func toBalanceJSON(result *dto.ReconciliationResult) *BalanceResponseJSON {
	out := &BalanceResponseJSON{
		HorizonDays: result.HorizonDays,
		GeneratedAt: result.GeneratedAt,
		Summary:     result.Summary,
	}
	for _, bt := range entities.AllBloodTypes {
		a := result.Assessments[bt]
		if a == nil {
			continue
		}
		out.Assessments = append(out.Assessments, BalanceAssessmentJSON{
			BloodType:         a.BloodType.String(),
			Status:            a.Status.String(),
			SupplyDemandRatio: a.SupplyDemandRatio,
			PredictedDemand:   float64(a.PredictedDemand),
			PredictedSupply:   float64(a.PredictedSupply),
			WindowDays:        a.WindowDays,
			Insight:           a.Insight,
			ForecastStatus:    result.ForecastStatus[bt].String(),
		})
	}
	return out
}

// RecommendationJSON is one recommendation on the wire
type RecommendationJSON struct {
	RecommendationID     string  `json:"recommendation_id"`
	BloodType            string  `json:"blood_type"`
	CurrentStockLevel    string  `json:"current_stock_level"`
	Type                 string  `json:"type"`
	RecommendedOrderQty  float64 `json:"recommended_order_qty"`
	PriorityLevel        string  `json:"priority_level"`
	CostEstimate         string  `json:"cost_estimate"`
	ExpectedDeliveryDate string  `json:"expected_delivery_date"`
	Reasoning            string  `json:"reasoning"`
	ConfidenceScore      float64 `json:"confidence_score"`
}

func toRecommendationJSON(rec *entities.Recommendation) RecommendationJSON {
	return RecommendationJSON{
		RecommendationID:     rec.RecommendationID,
		BloodType:            rec.BloodType.String(),
		CurrentStockLevel:    rec.CurrentStockLevel.String(),
		Type:                 rec.Type.String(),
		RecommendedOrderQty:  float64(rec.RecommendedOrderQty),
		PriorityLevel:        rec.PriorityLevel.String(),
		CostEstimate:         rec.CostEstimate.String(),
		ExpectedDeliveryDate: rec.ExpectedDeliveryDate.Format(time.RFC3339),
		Reasoning:            rec.Reasoning,
		ConfidenceScore:      rec.ConfidenceScore,
	}
}

// RiskAssessmentJSON is the run-level risk summary on the wire
type RiskAssessmentJSON struct {
	OverallRiskScore float64  `json:"overall_risk_score"`
	RiskLevel        string   `json:"risk_level"`
	SupplyRisk       float64  `json:"supply_risk"`
	CostRisk         float64  `json:"cost_risk"`
	WastageRisk      float64  `json:"wastage_risk"`
	ShortageTypes    []string `json:"shortage_types"`
	Narrative        string   `json:"narrative"`
}

// ReportJSON is an optimization report on the wire
type ReportJSON struct {
	ReportID           string               `json:"report_id"`
	GeneratedAt        time.Time            `json:"generated_at"`
	Recommendations    []RecommendationJSON `json:"recommendations"`
	TotalEstimatedCost string               `json:"total_estimated_cost"`
	BudgetUtilization  float64              `json:"budget_utilization"`
	OverBudget         bool                 `json:"over_budget"`
	RiskAssessment     RiskAssessmentJSON   `json:"risk_assessment"`
	OptimizationMethod string               `json:"optimization_method"`
	TypesForecasted    int                  `json:"types_forecasted"`
	TypesFailed        int                  `json:"types_failed"`
}

func toReportJSON(report *entities.OptimizationReport) *ReportJSON {
	risk := RiskAssessmentJSON{
		OverallRiskScore: report.RiskAssessment.OverallRiskScore,
		RiskLevel:        report.RiskAssessment.RiskLevel.String(),
		SupplyRisk:       report.RiskAssessment.SupplyRisk,
		CostRisk:         report.RiskAssessment.CostRisk,
		WastageRisk:      report.RiskAssessment.WastageRisk,
		Narrative:        report.RiskAssessment.Narrative,
	}
	for _, bt := range report.RiskAssessment.ShortageTypes {
		risk.ShortageTypes = append(risk.ShortageTypes, bt.String())
	}

	out := &ReportJSON{
		ReportID:           report.ReportID,
		GeneratedAt:        report.GeneratedAt,
		TotalEstimatedCost: report.TotalEstimatedCost.String(),
		BudgetUtilization:  report.BudgetUtilization,
		OverBudget:         report.OverBudget,
		RiskAssessment:     risk,
		OptimizationMethod: report.PerformanceMetrics.OptimizationMethod,
		TypesForecasted:    report.PerformanceMetrics.TypesForecasted,
		TypesFailed:        report.PerformanceMetrics.TypesFailed,
	}
	for i := range report.Recommendations {
		out.Recommendations = append(out.Recommendations, toRecommendationJSON(&report.Recommendations[i]))
	}
	return out
}

// PurchaseOrderJSON is an executed purchase order on the wire
type PurchaseOrderJSON struct {
	PurchaseOrderID  string  `json:"purchase_order_id"`
	RecommendationID string  `json:"recommendation_id"`
	BloodType        string  `json:"blood_type"`
	Quantity         float64 `json:"quantity"`
	Cost             string  `json:"cost"`
	Priority         string  `json:"priority"`
	PlacedAt         string  `json:"placed_at"`
	ExpectedDelivery string  `json:"expected_delivery"`
}

func toPurchaseOrderJSON(order *entities.PurchaseOrder) *PurchaseOrderJSON {
	return &PurchaseOrderJSON{
		PurchaseOrderID:  order.PurchaseOrderID,
		RecommendationID: order.RecommendationID,
		BloodType:        order.BloodType.String(),
		Quantity:         float64(order.Quantity),
		Cost:             order.Cost.String(),
		Priority:         order.Priority.String(),
		PlacedAt:         order.PlacedAt.Format(time.RFC3339),
		ExpectedDelivery: order.ExpectedDelivery.Format(time.RFC3339),
	}
}
