package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// ScenarioFiles holds the paths of one written CSV scenario
type ScenarioFiles struct {
	DemandHistory string
	Donors        string
	Inventory     string
}

// WriteScenario writes a small but complete CSV scenario into dir: 30 days
// of demand for every blood type, a donor snapshot, and inventory levels.
// Deterministic, so tests can assert on derived values.
func WriteScenario(dir string) (*ScenarioFiles, error) {
	files := &ScenarioFiles{
		DemandHistory: filepath.Join(dir, "demand_history.csv"),
		Donors:        filepath.Join(dir, "donors.csv"),
		Inventory:     filepath.Join(dir, "inventory.csv"),
	}

	bases := map[entities.BloodType]float64{
		entities.OPositive:  45,
		entities.APositive:  38,
		entities.BPositive:  20,
		entities.ABPositive: 8,
		entities.ONegative:  12,
		entities.ANegative:  10,
		entities.BNegative:  6,
		entities.ABNegative: 3,
	}

	var demand strings.Builder
	demand.WriteString("blood_type,date,observed_units\n")
	for _, bt := range entities.AllBloodTypes {
		for day := 1; day <= 30; day++ {
			units := bases[bt]
			if day%7 == 0 {
				units *= 1.2 // weekend surgical load
			}
			fmt.Fprintf(&demand, "%s,2026-06-%02d,%.1f\n", bt, day, units)
		}
	}
	if err := os.WriteFile(files.DemandHistory, []byte(demand.String()), 0o644); err != nil {
		return nil, fmt.Errorf("writing demand history scenario: %w", err)
	}

	var donors strings.Builder
	donors.WriteString("donor_id,blood_type,eligibility_status,last_updated\n")
	donorID := 1
	for _, bt := range entities.AllBloodTypes {
		pool := int(bases[bt]) * 4
		for i := 0; i < pool; i++ {
			status := entities.Eligible
			if i%5 == 4 {
				status = entities.TemporarilyDeferred
			}
			fmt.Fprintf(&donors, "D%04d,%s,%s,2026-06-30\n", donorID, bt, status)
			donorID++
		}
	}
	if err := os.WriteFile(files.Donors, []byte(donors.String()), 0o644); err != nil {
		return nil, fmt.Errorf("writing donors scenario: %w", err)
	}

	var inventory strings.Builder
	inventory.WriteString("blood_type,units_on_hand,units_expired\n")
	for _, bt := range entities.AllBloodTypes {
		fmt.Fprintf(&inventory, "%s,%.1f,%.1f\n", bt, bases[bt]*10, bases[bt]*0.2)
	}
	if err := os.WriteFile(files.Inventory, []byte(inventory.String()), 0o644); err != nil {
		return nil, fmt.Errorf("writing inventory scenario: %w", err)
	}

	return files, nil
}
