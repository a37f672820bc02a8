package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Elapsed   time.Duration
}

// Generate renders one optimization run in the requested format
func Generate(report *entities.OptimizationReport, balance *dto.ReconciliationResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(report, balance, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, balance, config)
	case "xlsx":
		return generateXLSXOutput(report, balance, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput prints a human-readable run summary to stdout
func generateTextOutput(report *entities.OptimizationReport, balance *dto.ReconciliationResult, config Config) error {
	fmt.Printf("Optimization Report %s\n", report.ReportID)
	fmt.Printf("=====================================================\n\n")
	fmt.Printf("Generated:          %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Printf("Method:             %s\n", report.PerformanceMetrics.OptimizationMethod)
	fmt.Printf("Recommendations:    %d\n", len(report.Recommendations))
	fmt.Printf("Total Cost:         %s\n", report.TotalEstimatedCost.StringFixed(2))
	fmt.Printf("Budget Utilization: %.0f%%\n", report.BudgetUtilization*100)
	if report.OverBudget {
		fmt.Printf("NOTE: emergency orders pushed total cost past the budget\n")
	}
	fmt.Printf("Overall Risk:       %s (%.2f)\n", report.RiskAssessment.RiskLevel, report.RiskAssessment.OverallRiskScore)
	if config.Elapsed > 0 {
		fmt.Printf("Run Time:           %v\n", config.Elapsed)
	}
	fmt.Println()

	if balance != nil {
		fmt.Printf("Supply-Demand Balance (%d day window):\n", balance.HorizonDays)
		fmt.Printf("%-6s %-14s %-8s %-10s %-10s\n", "Type", "Status", "Ratio", "Demand", "Supply")
		fmt.Printf("%-6s %-14s %-8s %-10s %-10s\n", "------", "--------------", "--------", "----------", "----------")
		for _, bt := range entities.AllBloodTypes {
			a := balance.Assessments[bt]
			if a == nil {
				continue
			}
			fmt.Printf("%-6s %-14s %-8.2f %-10.1f %-10.1f\n",
				bt, a.Status, a.SupplyDemandRatio, float64(a.PredictedDemand), float64(a.PredictedSupply))
		}
		fmt.Println()
	}

	if len(report.Recommendations) > 0 {
		fmt.Printf("Recommendations:\n")
		fmt.Printf("%-6s %-16s %-10s %-8s %-12s %-10s\n",
			"Type", "Action", "Priority", "Qty", "Cost", "Delivery")
		fmt.Printf("%-6s %-16s %-10s %-8s %-12s %-10s\n",
			"------", "----------------", "----------", "--------", "------------", "----------")
		for _, rec := range report.Recommendations {
			fmt.Printf("%-6s %-16s %-10s %-8.0f %-12s %-10s\n",
				rec.BloodType,
				rec.Type,
				rec.PriorityLevel,
				float64(rec.RecommendedOrderQty),
				rec.CostEstimate.StringFixed(2),
				rec.ExpectedDeliveryDate.Format("2006-01-02"))
		}
		fmt.Println()
	}

	if config.Verbose {
		fmt.Printf("Risk: %s\n", report.RiskAssessment.Narrative)
		for _, rec := range report.Recommendations {
			fmt.Printf("  %s %s: %s\n", rec.BloodType, rec.Type, rec.Reasoning)
		}
	}
	return nil
}

// generateJSONOutput writes the full report as JSON
func generateJSONOutput(report *entities.OptimizationReport, config Config) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(payload))
		return nil
	}
	filename := filepath.Join(config.OutputDir, fmt.Sprintf("report_%s.json", report.ReportID))
	if err := os.WriteFile(filename, payload, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if config.Verbose {
		fmt.Printf("Report written to %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes recommendations and balances as CSV files
func generateCSVOutput(report *entities.OptimizationReport, balance *dto.ReconciliationResult, config Config) error {
	dir := config.OutputDir
	if dir == "" {
		dir = "."
	}

	recFile := filepath.Join(dir, "recommendations.csv")
	if err := writeRecommendationsCSV(report.Recommendations, recFile); err != nil {
		return err
	}
	if config.Verbose {
		fmt.Printf("Recommendations written to %s\n", recFile)
	}

	if balance != nil {
		balanceFile := filepath.Join(dir, "balances.csv")
		if err := writeBalancesCSV(balance, balanceFile); err != nil {
			return err
		}
		if config.Verbose {
			fmt.Printf("Balances written to %s\n", balanceFile)
		}
	}
	return nil
}

func writeRecommendationsCSV(recommendations []entities.Recommendation, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"recommendation_id", "blood_type", "stock_level", "type", "quantity", "priority", "cost", "delivery", "confidence"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, rec := range recommendations {
		row := []string{
			rec.RecommendationID,
			rec.BloodType.String(),
			rec.CurrentStockLevel.String(),
			rec.Type.String(),
			fmt.Sprintf("%.0f", float64(rec.RecommendedOrderQty)),
			rec.PriorityLevel.String(),
			rec.CostEstimate.StringFixed(2),
			rec.ExpectedDeliveryDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", rec.ConfidenceScore),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeBalancesCSV(balance *dto.ReconciliationResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"blood_type", "status", "supply_demand_ratio", "predicted_demand", "predicted_supply", "insight"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, bt := range entities.AllBloodTypes {
		a := balance.Assessments[bt]
		if a == nil {
			continue
		}
		row := []string{
			a.BloodType.String(),
			a.Status.String(),
			fmt.Sprintf("%.3f", a.SupplyDemandRatio),
			fmt.Sprintf("%.1f", float64(a.PredictedDemand)),
			fmt.Sprintf("%.1f", float64(a.PredictedSupply)),
			a.Insight,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}
