package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// Loader reads scenario data from CSV files for offline and batch runs
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDemandHistory loads daily demand observations from a CSV file.
// Rows may arrive in any order; they are sorted per type by date.
func (l *Loader) LoadDemandHistory(filename string) (map[entities.BloodType]*entities.DemandSeries, error) {
	records, err := readCSV(filename, []string{"blood_type", "date", "observed_units"})
	if err != nil {
		return nil, fmt.Errorf("demand history CSV: %w", err)
	}

	byType := make(map[entities.BloodType][]entities.DemandObservation)
	for i, record := range records {
		bloodType, err := entities.ParseBloodType(record[0])
		if err != nil {
			return nil, fmt.Errorf("demand history CSV row %d: %w", i+2, err)
		}
		date, err := time.Parse("2006-01-02", record[1])
		if err != nil {
			return nil, fmt.Errorf("demand history CSV row %d: invalid date %q: %w", i+2, record[1], err)
		}
		units, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("demand history CSV row %d: invalid observed_units %q: %w", i+2, record[2], err)
		}

		byType[bloodType] = append(byType[bloodType], entities.DemandObservation{
			Date:          date,
			ObservedUnits: entities.Units(units),
		})
	}

	out := make(map[entities.BloodType]*entities.DemandSeries, len(byType))
	for bloodType, observations := range byType {
		sort.Slice(observations, func(i, j int) bool {
			return observations[i].Date.Before(observations[j].Date)
		})
		series, err := entities.NewDemandSeries(bloodType, observations)
		if err != nil {
			return nil, fmt.Errorf("demand history CSV: series for %s: %w", bloodType, err)
		}
		out[bloodType] = series
	}
	return out, nil
}

// LoadDonors loads a donor snapshot from a CSV file
func (l *Loader) LoadDonors(filename string) ([]*entities.DonorRecord, error) {
	records, err := readCSV(filename, []string{"donor_id", "blood_type", "eligibility_status", "last_updated"})
	if err != nil {
		return nil, fmt.Errorf("donors CSV: %w", err)
	}

	var donors []*entities.DonorRecord
	for i, record := range records {
		bloodType, err := entities.ParseBloodType(record[1])
		if err != nil {
			return nil, fmt.Errorf("donors CSV row %d: %w", i+2, err)
		}
		status, err := entities.ParseEligibilityStatus(record[2])
		if err != nil {
			return nil, fmt.Errorf("donors CSV row %d: %w", i+2, err)
		}
		updated, err := time.Parse("2006-01-02", record[3])
		if err != nil {
			return nil, fmt.Errorf("donors CSV row %d: invalid last_updated %q: %w", i+2, record[3], err)
		}

		donor, err := entities.NewDonorRecord(record[0], bloodType, status, nil, updated)
		if err != nil {
			return nil, fmt.Errorf("donors CSV row %d: %w", i+2, err)
		}
		donors = append(donors, donor)
	}
	return donors, nil
}

// LoadInventory loads current stock levels from a CSV file
func (l *Loader) LoadInventory(filename string) (map[entities.BloodType]*entities.InventoryLevel, error) {
	records, err := readCSV(filename, []string{"blood_type", "units_on_hand", "units_expired"})
	if err != nil {
		return nil, fmt.Errorf("inventory CSV: %w", err)
	}

	out := make(map[entities.BloodType]*entities.InventoryLevel)
	for i, record := range records {
		bloodType, err := entities.ParseBloodType(record[0])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		onHand, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: invalid units_on_hand %q: %w", i+2, record[1], err)
		}
		expired, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: invalid units_expired %q: %w", i+2, record[2], err)
		}
		if onHand < 0 || expired < 0 {
			return nil, fmt.Errorf("inventory CSV row %d: units cannot be negative", i+2)
		}
		if _, dup := out[bloodType]; dup {
			return nil, fmt.Errorf("inventory CSV row %d: duplicate blood type %s", i+2, bloodType)
		}

		out[bloodType] = &entities.InventoryLevel{
			BloodType:    bloodType,
			UnitsOnHand:  entities.Units(onHand),
			UnitsExpired: entities.Units(expired),
			UpdatedAt:    time.Now().UTC(),
		}
	}
	return out, nil
}

// readCSV opens a CSV file, validates the header, and returns the data rows
func readCSV(filename string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have a header and at least one data row", filename)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", filename, expectedHeader, records[0])
	}
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d",
				filename, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

// validateHeader checks that the CSV header matches the expected columns
func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, col := range expected {
		if header[i] != col {
			return false
		}
	}
	return true
}
