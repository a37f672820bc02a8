package orchestration

import (
	"context"
	"testing"

	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/application/services/reconcile"
	"github.com/rvela/hemoplan/pkg/application/services/report"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	testhelpers "github.com/rvela/hemoplan/pkg/application/services/testing"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/infrastructure/events"
	"github.com/rvela/hemoplan/pkg/infrastructure/procurement"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/memory"
)

func newTestPipeline(t *testing.T, onHand map[entities.BloodType]float64) (*Pipeline, *report.Service, *procurement.InMemoryProcurement) {
	t.Helper()

	donorRepo := memory.NewDonorRepository()
	if err := donorRepo.LoadSnapshot(testhelpers.BuildFullDonorSnapshot()); err != nil {
		t.Fatalf("loading donor snapshot: %v", err)
	}

	forecaster := forecast.NewService()
	predictor := supply.NewPredictor()
	supplier := procurement.NewInMemoryProcurement()
	reports := report.NewService(memory.NewReportRepository(), supplier, events.NewInMemoryExecutionLog())

	pipeline := NewPipeline(
		testhelpers.BuildDemandHistory(),
		donorRepo,
		testhelpers.BuildInventory(onHand),
		forecaster,
		predictor,
		reconcile.NewReconciler(forecaster, predictor),
		optimize.NewService(),
		reports,
		nil,
	)
	return pipeline, reports, supplier
}

func healthyInventory() map[entities.BloodType]float64 {
	return map[entities.BloodType]float64{
		entities.OPositive:  600,
		entities.APositive:  500,
		entities.BPositive:  200,
		entities.ABPositive: 80,
		entities.ONegative:  120,
		entities.ANegative:  100,
		entities.BNegative:  60,
		entities.ABNegative: 30,
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	pipeline, reports, _ := newTestPipeline(t, healthyInventory())

	result, err := pipeline.Run(context.Background(), optimize.LinearProgramming, 14, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Report == nil || result.Report.ReportID == "" {
		t.Fatal("expected an assembled report")
	}
	if len(result.Reconciliation.Assessments) != len(entities.AllBloodTypes) {
		t.Errorf("expected assessments for all types, got %d", len(result.Reconciliation.Assessments))
	}
	for _, rec := range result.Report.Recommendations {
		if _, err := entities.ParseBloodType(rec.BloodType.String()); err != nil {
			t.Errorf("recommendation %s carries unknown blood type %v", rec.RecommendationID, rec.BloodType)
		}
	}

	// The assembled report is queryable afterwards.
	stored, err := reports.Get(context.Background(), result.Report.ReportID)
	if err != nil {
		t.Fatalf("Get after run failed: %v", err)
	}
	if stored.GeneratedAt != result.Report.GeneratedAt {
		t.Error("stored report differs from the returned one")
	}
	// Reports log forecast quality for the run.
	if stored.PerformanceMetrics.TypesForecasted != len(entities.AllBloodTypes) {
		t.Errorf("expected %d forecasted types, got %d",
			len(entities.AllBloodTypes), stored.PerformanceMetrics.TypesForecasted)
	}
}

func TestPipeline_DepletedTypeGetsEmergency(t *testing.T) {
	inventory := healthyInventory()
	inventory[entities.ONegative] = 2

	pipeline, _, _ := newTestPipeline(t, inventory)
	result, err := pipeline.Run(context.Background(), optimize.Hybrid, 14, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rec, ok := func() (*entities.Recommendation, bool) {
		for i := range result.Report.Recommendations {
			if result.Report.Recommendations[i].BloodType == entities.ONegative {
				return &result.Report.Recommendations[i], true
			}
		}
		return nil, false
	}()
	if !ok {
		t.Fatal("expected a recommendation for the depleted O-")
	}
	if rec.PriorityLevel != entities.PriorityEmergency {
		t.Errorf("expected emergency priority for depleted O-, got %v", rec.PriorityLevel)
	}
}

func TestPipeline_ExecuteAfterRun(t *testing.T) {
	inventory := healthyInventory()
	inventory[entities.ONegative] = 2

	pipeline, reports, supplier := newTestPipeline(t, inventory)
	result, err := pipeline.Run(context.Background(), optimize.LinearProgramming, 14, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var target string
	for _, rec := range result.Report.Recommendations {
		if rec.RecommendedOrderQty > 0 {
			target = rec.RecommendationID
			break
		}
	}
	if target == "" {
		t.Fatal("expected at least one orderable recommendation")
	}

	order, err := reports.Execute(context.Background(), target)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if order.PurchaseOrderID == "" {
		t.Error("expected a purchase order id")
	}
	if len(supplier.Orders()) != 1 {
		t.Errorf("expected one placed order, got %d", len(supplier.Orders()))
	}
}
