package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/infrastructure/events"
	"github.com/rvela/hemoplan/pkg/infrastructure/procurement"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/memory"
)

func newTestService() (*Service, *procurement.InMemoryProcurement) {
	supplier := procurement.NewInMemoryProcurement()
	svc := NewService(memory.NewReportRepository(), supplier, events.NewInMemoryExecutionLog())
	return svc, supplier
}

func mustRecommendation(t *testing.T, id string, bt entities.BloodType, qty float64, priority entities.PriorityLevel) entities.Recommendation {
	t.Helper()
	recType := entities.RoutineOrder
	if priority == entities.PriorityEmergency {
		recType = entities.EmergencyOrder
	}
	rec, err := entities.NewRecommendation(
		id, bt, entities.StockLow, recType, entities.Units(qty), priority,
		decimal.NewFromFloat(qty*120), time.Now().AddDate(0, 0, 3),
		"test order", 0.8,
	)
	if err != nil {
		t.Fatalf("building recommendation: %v", err)
	}
	return *rec
}

func sampleResult(t *testing.T, recs ...entities.Recommendation) *optimize.Result {
	t.Helper()
	total := decimal.Zero
	for _, rec := range recs {
		total = total.Add(rec.CostEstimate)
	}
	return &optimize.Result{
		Method:          optimize.LinearProgramming,
		Recommendations: recs,
		TotalCost:       total,
		Constraint:      entities.DefaultConstraint(),
		Elapsed:         12 * time.Millisecond,
		RiskAssessment:  entities.RiskAssessment{RiskLevel: entities.RiskMedium},
	}
}

func TestAssemble_AggregateFields(t *testing.T) {
	svc, _ := newTestService()
	recs := []entities.Recommendation{
		mustRecommendation(t, "rec-1", entities.OPositive, 100, entities.PriorityHigh),
		mustRecommendation(t, "rec-2", entities.ONegative, 50, entities.PriorityEmergency),
	}

	report, err := svc.Assemble(context.Background(), sampleResult(t, recs...), nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if report.ReportID == "" {
		t.Error("expected a generated report id")
	}
	wantTotal := decimal.NewFromInt(18000) // 150 units at 120 each
	if !report.TotalEstimatedCost.Equal(wantTotal) {
		t.Errorf("expected total cost %s, got %s", wantTotal, report.TotalEstimatedCost)
	}
	// Default budget is 50000: 18000 / 50000 = 0.36.
	if report.BudgetUtilization < 0.359 || report.BudgetUtilization > 0.361 {
		t.Errorf("expected budget utilization 0.36, got %v", report.BudgetUtilization)
	}
	if report.PerformanceMetrics.MeanConfidence != 0.8 {
		t.Errorf("expected mean confidence 0.8, got %v", report.PerformanceMetrics.MeanConfidence)
	}

	// Assembled reports land in the log.
	stored, err := svc.Get(context.Background(), report.ReportID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(stored.Recommendations) != 2 {
		t.Errorf("expected 2 stored recommendations, got %d", len(stored.Recommendations))
	}
}

func TestAssemble_ForecastMetrics(t *testing.T) {
	svc, _ := newTestService()
	batch := &dto.BatchForecastResult{
		HorizonDays: 14,
		Elapsed:     30 * time.Millisecond,
		Results: map[entities.BloodType]dto.TypeForecast{
			entities.OPositive: {
				BloodType: entities.OPositive,
				Status:    dto.TypeOK,
				Forecast: &entities.Forecast{
					BloodType:   entities.OPositive,
					Diagnostics: entities.ModelDiagnostics{BloodType: entities.OPositive, SampleSize: 90},
				},
			},
			entities.ABNegative: {
				BloodType: entities.ABNegative,
				Status:    dto.TypeInsufficientData,
				Err:       "series too short",
			},
		},
	}

	report, err := svc.Assemble(context.Background(), sampleResult(t), batch)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	metrics := report.PerformanceMetrics
	if metrics.TypesForecasted != 1 || metrics.TypesFailed != 1 {
		t.Errorf("expected 1 forecasted / 1 failed, got %d / %d", metrics.TypesForecasted, metrics.TypesFailed)
	}
	if len(metrics.ModelDiagnostics) != 1 {
		t.Errorf("expected 1 diagnostics entry, got %d", len(metrics.ModelDiagnostics))
	}
	if metrics.TotalElapsed != 42*time.Millisecond {
		t.Errorf("expected total elapsed 42ms, got %v", metrics.TotalElapsed)
	}
}

func TestList_PaginationValidation(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 3; i++ {
		if _, err := svc.Assemble(context.Background(), sampleResult(t), nil); err != nil {
			t.Fatalf("Assemble failed: %v", err)
		}
	}

	reports, total, err := svc.List(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 || len(reports) != 2 {
		t.Errorf("expected total 3 / page 2, got %d / %d", total, len(reports))
	}

	if _, _, err := svc.List(context.Background(), -1, 10); err == nil {
		t.Error("expected error for negative skip")
	}

	// Zero limit falls back to the default page size.
	reports, _, err = svc.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("List with zero limit failed: %v", err)
	}
	if len(reports) != 3 {
		t.Errorf("expected all 3 reports under the default page size, got %d", len(reports))
	}
}

func TestActiveRecommendations_FiltersAndLatest(t *testing.T) {
	svc, _ := newTestService()
	older := sampleResult(t, mustRecommendation(t, "old-1", entities.OPositive, 10, entities.PriorityLow))
	if _, err := svc.Assemble(context.Background(), older, nil); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	latest := sampleResult(t,
		mustRecommendation(t, "rec-1", entities.OPositive, 100, entities.PriorityHigh),
		mustRecommendation(t, "rec-2", entities.ONegative, 50, entities.PriorityEmergency),
		mustRecommendation(t, "rec-3", entities.APositive, 20, entities.PriorityLow),
	)
	latestReport, err := svc.Assemble(context.Background(), latest, nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	// Empty id resolves to the latest report and echoes its id back.
	gotID, recs, err := svc.ActiveRecommendations(context.Background(), "", RecommendationFilter{})
	if err != nil {
		t.Fatalf("ActiveRecommendations failed: %v", err)
	}
	if gotID != latestReport.ReportID {
		t.Errorf("expected latest report id %s, got %s", latestReport.ReportID, gotID)
	}
	if len(recs) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(recs))
	}

	minPriority := entities.PriorityHigh
	_, recs, err = svc.ActiveRecommendations(context.Background(), latestReport.ReportID, RecommendationFilter{MinPriority: &minPriority})
	if err != nil {
		t.Fatalf("ActiveRecommendations failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 recommendations at high priority or above, got %d", len(recs))
	}

	recType := entities.EmergencyOrder
	_, recs, err = svc.ActiveRecommendations(context.Background(), latestReport.ReportID, RecommendationFilter{Type: &recType})
	if err != nil {
		t.Fatalf("ActiveRecommendations failed: %v", err)
	}
	if len(recs) != 1 || recs[0].RecommendationID != "rec-2" {
		t.Errorf("expected only rec-2, got %v", recs)
	}

	if _, _, err := svc.ActiveRecommendations(context.Background(), "no-such-report", RecommendationFilter{}); !errors.Is(err, entities.ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

func TestExecute_PlacesOneOrder(t *testing.T) {
	svc, supplier := newTestService()
	result := sampleResult(t, mustRecommendation(t, "rec-1", entities.ONegative, 50, entities.PriorityEmergency))
	if _, err := svc.Assemble(context.Background(), result, nil); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	order, err := svc.Execute(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if order.PurchaseOrderID == "" {
		t.Error("expected a supplier-assigned purchase order id")
	}
	if order.BloodType != entities.ONegative || order.Quantity != 50 {
		t.Errorf("order does not match the recommendation: %+v", order)
	}
	if len(supplier.Orders()) != 1 {
		t.Fatalf("expected exactly 1 placed order, got %d", len(supplier.Orders()))
	}
}

func TestExecute_IdempotentPerRecommendation(t *testing.T) {
	svc, supplier := newTestService()
	result := sampleResult(t, mustRecommendation(t, "rec-1", entities.ONegative, 50, entities.PriorityEmergency))
	if _, err := svc.Assemble(context.Background(), result, nil); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	first, err := svc.Execute(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}

	_, err = svc.Execute(context.Background(), "rec-1")
	var already *entities.AlreadyExecutedError
	if !errors.As(err, &already) {
		t.Fatalf("expected AlreadyExecutedError, got %v", err)
	}
	if already.PurchaseOrderID != first.PurchaseOrderID {
		t.Errorf("replay should reference the original order %s, got %s",
			first.PurchaseOrderID, already.PurchaseOrderID)
	}
	if len(supplier.Orders()) != 1 {
		t.Fatalf("replay placed a duplicate order: %d orders", len(supplier.Orders()))
	}
}

func TestExecute_UnknownRecommendation(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Assemble(context.Background(), sampleResult(t), nil); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if _, err := svc.Execute(context.Background(), "rec-missing"); !errors.Is(err, entities.ErrRecommendationNotFound) {
		t.Errorf("expected ErrRecommendationNotFound, got %v", err)
	}
}

func TestExecute_ZeroQuantityRejected(t *testing.T) {
	svc, supplier := newTestService()
	hold, err := entities.NewRecommendation(
		"rec-hold", entities.APositive, entities.StockOptimal, entities.HoldOrder,
		0, entities.PriorityLow, decimal.Zero, time.Now(), "stock at target; hold", 0.7,
	)
	if err != nil {
		t.Fatalf("building recommendation: %v", err)
	}
	if _, err := svc.Assemble(context.Background(), sampleResult(t, *hold), nil); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if _, err := svc.Execute(context.Background(), "rec-hold"); err == nil {
		t.Error("expected error executing a zero-quantity recommendation")
	}
	if len(supplier.Orders()) != 0 {
		t.Errorf("no order should be placed, got %d", len(supplier.Orders()))
	}
}
