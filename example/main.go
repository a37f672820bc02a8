package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/application/services/orchestration"
	"github.com/rvela/hemoplan/pkg/application/services/reconcile"
	"github.com/rvela/hemoplan/pkg/application/services/report"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/infrastructure/events"
	"github.com/rvela/hemoplan/pkg/infrastructure/procurement"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	historyRepo := memory.NewDemandHistoryRepository()
	donorRepo := memory.NewDonorRepository()
	inventoryRepo := memory.NewInventoryRepository()
	if err := setupRegionalCenter(historyRepo, donorRepo, inventoryRepo); err != nil {
		fmt.Printf("❌ Scenario setup failed: %v\n", err)
		return
	}

	forecaster := forecast.NewService()
	predictor := supply.NewPredictor()
	reconciler := reconcile.NewReconciler(forecaster, predictor)
	optimizer := optimize.NewService()
	supplier := procurement.NewInMemoryProcurement()
	reports := report.NewService(memory.NewReportRepository(), supplier, events.NewInMemoryExecutionLog())

	pipeline := orchestration.NewPipeline(
		historyRepo, donorRepo, inventoryRepo,
		forecaster, predictor, reconciler, optimizer, reports,
		nil,
	)

	fmt.Println("🩸 Running supply optimization for the regional center...")
	fmt.Println()

	result, err := pipeline.Run(ctx, optimize.LinearProgramming, 14, nil)
	if err != nil {
		fmt.Printf("❌ Optimization failed: %v\n", err)
		return
	}

	rep := result.Report
	fmt.Println("📊 Optimization Report:")
	fmt.Printf("  Report ID: %s\n", rep.ReportID)
	fmt.Printf("  Recommendations: %d\n", len(rep.Recommendations))
	fmt.Printf("  Total estimated cost: $%s\n", rep.TotalEstimatedCost.StringFixed(2))
	fmt.Printf("  Budget utilization: %.0f%%\n", rep.BudgetUtilization*100)
	fmt.Printf("  Risk level: %s\n", rep.RiskAssessment.RiskLevel)
	fmt.Println()

	if len(rep.Recommendations) > 0 {
		fmt.Println("📝 Recommendations:")
		for _, rec := range rep.Recommendations {
			fmt.Printf("  %s: %s %.0f units (%s, $%s)\n",
				rec.BloodType,
				rec.Type,
				float64(rec.RecommendedOrderQty),
				rec.PriorityLevel,
				rec.CostEstimate.StringFixed(2))
		}
		fmt.Println()

		// Execute the top-priority recommendation.
		top := rep.Recommendations[0]
		order, err := reports.Execute(ctx, top.RecommendationID)
		if err != nil {
			fmt.Printf("❌ Execution failed: %v\n", err)
			return
		}
		fmt.Printf("🛒 Placed purchase order %s: %.0f units of %s\n",
			order.PurchaseOrderID, float64(order.Quantity), order.BloodType)
		fmt.Println()
	}

	fmt.Println("✅ Supply analysis complete!")
}

// setupRegionalCenter loads a small scenario: six weeks of demand history,
// a modest donor pool, and healthy stock everywhere except O-.
func setupRegionalCenter(
	historyRepo *memory.DemandHistoryRepository,
	donorRepo *memory.DonorRepository,
	inventoryRepo *memory.InventoryRepository,
) error {
	dailyDemand := map[entities.BloodType]float64{
		entities.OPositive:  45,
		entities.APositive:  38,
		entities.BPositive:  20,
		entities.ABPositive: 8,
		entities.ONegative:  15,
		entities.ANegative:  10,
		entities.BNegative:  5,
		entities.ABNegative: 3,
	}

	start := time.Now().UTC().AddDate(0, 0, -42).Truncate(24 * time.Hour)
	for bloodType, base := range dailyDemand {
		observations := make([]entities.DemandObservation, 42)
		for day := range observations {
			units := base
			if day%7 == 0 {
				units *= 1.2
			}
			observations[day] = entities.DemandObservation{
				Date:          start.AddDate(0, 0, day),
				ObservedUnits: entities.Units(units),
			}
		}
		series, err := entities.NewDemandSeries(bloodType, observations)
		if err != nil {
			return err
		}
		if err := historyRepo.LoadSeries(series); err != nil {
			return err
		}
	}

	var donors []*entities.DonorRecord
	donorNum := 1
	for bloodType, base := range dailyDemand {
		for i := 0; i < int(base*3); i++ {
			status := entities.Eligible
			if i%5 == 0 {
				status = entities.TemporarilyDeferred
			}
			donor, err := entities.NewDonorRecord(
				fmt.Sprintf("D-%06d", donorNum), bloodType, status, nil,
				time.Now().UTC().AddDate(0, 0, -7),
			)
			if err != nil {
				return err
			}
			donors = append(donors, donor)
			donorNum++
		}
	}
	if err := donorRepo.LoadSnapshot(donors); err != nil {
		return err
	}

	for bloodType, base := range dailyDemand {
		onHand := entities.Units(base * 10)
		if bloodType == entities.ONegative {
			// O- runs critically low in this scenario.
			onHand = 4
		}
		err := inventoryRepo.LoadLevel(&entities.InventoryLevel{
			BloodType:   bloodType,
			UnitsOnHand: onHand,
			UpdatedAt:   time.Now().UTC(),
		})
		if err != nil {
			return err
		}
	}

	return nil
}
