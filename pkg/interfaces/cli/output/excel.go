package output

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// generateXLSXOutput writes the run as a workbook with one sheet of
// recommendations and one of balance assessments
func generateXLSXOutput(report *entities.OptimizationReport, balance *dto.ReconciliationResult, config Config) error {
	f := excelize.NewFile()
	defer f.Close()

	const recSheet = "Recommendations"
	f.SetSheetName("Sheet1", recSheet)

	recHeader := []string{"Blood Type", "Stock Level", "Action", "Quantity", "Priority", "Cost", "Delivery", "Confidence", "Reasoning"}
	for col, title := range recHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(recSheet, cell, title)
	}
	for row, rec := range report.Recommendations {
		values := []interface{}{
			rec.BloodType.String(),
			rec.CurrentStockLevel.String(),
			rec.Type.String(),
			float64(rec.RecommendedOrderQty),
			rec.PriorityLevel.String(),
			rec.CostEstimate.StringFixed(2),
			rec.ExpectedDeliveryDate.Format("2006-01-02"),
			rec.ConfidenceScore,
			rec.Reasoning,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(recSheet, cell, v)
		}
	}

	if balance != nil {
		const balSheet = "Balances"
		if _, err := f.NewSheet(balSheet); err != nil {
			return fmt.Errorf("creating balances sheet: %w", err)
		}
		balHeader := []string{"Blood Type", "Status", "Ratio", "Predicted Demand", "Predicted Supply", "Insight"}
		for col, title := range balHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(balSheet, cell, title)
		}
		row := 2
		for _, bt := range entities.AllBloodTypes {
			a := balance.Assessments[bt]
			if a == nil {
				continue
			}
			values := []interface{}{
				a.BloodType.String(),
				a.Status.String(),
				a.SupplyDemandRatio,
				float64(a.PredictedDemand),
				float64(a.PredictedSupply),
				a.Insight,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(balSheet, cell, v)
			}
			row++
		}
	}

	dir := config.OutputDir
	if dir == "" {
		dir = "."
	}
	filename := filepath.Join(dir, fmt.Sprintf("report_%s.xlsx", report.ReportID))
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if config.Verbose {
		fmt.Printf("Workbook written to %s\n", filename)
	}
	return nil
}
