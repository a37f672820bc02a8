package testing

import (
	"fmt"
	"math"
	"time"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/memory"
)

// SeriesStart is the first observation date in generated histories
var SeriesStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// mustCreateSeries is a helper for tests - panics on validation error
func mustCreateSeries(bloodType entities.BloodType, values []float64) *entities.DemandSeries {
	obs := make([]entities.DemandObservation, len(values))
	for i, v := range values {
		obs[i] = entities.DemandObservation{
			Date:          SeriesStart.AddDate(0, 0, i),
			ObservedUnits: entities.Units(v),
		}
	}
	series, err := entities.NewDemandSeries(bloodType, obs)
	if err != nil {
		panic(err)
	}
	return series
}

// SyntheticSeries generates a deterministic daily demand pattern around the
// given base level with weekly shape
func SyntheticSeries(bloodType entities.BloodType, base float64, days int) *entities.DemandSeries {
	values := make([]float64, days)
	for i := 0; i < days; i++ {
		weekly := base * 0.15 * math.Sin(2*math.Pi*float64(i)/7)
		wiggle := base * 0.05 * math.Sin(float64(i)*1.3)
		v := base + weekly + wiggle
		if v < 0 {
			v = 0
		}
		values[i] = v
	}
	return mustCreateSeries(bloodType, values)
}

// BuildDemandHistory builds a demand history repository with 90 days of
// synthetic data for all 8 blood types, with O+ the largest volume and AB-
// the smallest.
func BuildDemandHistory() *memory.DemandHistoryRepository {
	repo := memory.NewDemandHistoryRepository()
	bases := map[entities.BloodType]float64{
		entities.OPositive:  45,
		entities.APositive:  38,
		entities.BPositive:  22,
		entities.ABPositive: 10,
		entities.ONegative:  14,
		entities.ANegative:  12,
		entities.BNegative:  6,
		entities.ABNegative: 3,
	}
	for bt, base := range bases {
		if err := repo.LoadSeries(SyntheticSeries(bt, base, 90)); err != nil {
			panic(err)
		}
	}
	return repo
}

// BuildDemandHistoryWithGap is BuildDemandHistory but with one blood type's
// series too short to fit a model
func BuildDemandHistoryWithGap(short entities.BloodType) *memory.DemandHistoryRepository {
	repo := BuildDemandHistory()
	if err := repo.LoadSeries(SyntheticSeries(short, 5, 4)); err != nil {
		panic(err)
	}
	return repo
}

// BuildDonorSnapshot builds donor records for one blood type with the given
// total and eligible counts
func BuildDonorSnapshot(bloodType entities.BloodType, total, eligible int) []*entities.DonorRecord {
	donors := make([]*entities.DonorRecord, 0, total)
	for i := 0; i < total; i++ {
		status := entities.Ineligible
		if i < eligible {
			status = entities.Eligible
		}
		donor, err := entities.NewDonorRecord(
			fmt.Sprintf("%s-donor-%03d", bloodType, i),
			bloodType,
			status,
			nil,
			SeriesStart,
		)
		if err != nil {
			panic(err)
		}
		donors = append(donors, donor)
	}
	return donors
}

// BuildFullDonorSnapshot builds a plausible snapshot covering all 8 types
func BuildFullDonorSnapshot() []*entities.DonorRecord {
	var donors []*entities.DonorRecord
	pools := map[entities.BloodType][2]int{
		entities.OPositive:  {240, 200},
		entities.APositive:  {180, 150},
		entities.BPositive:  {90, 70},
		entities.ABPositive: {40, 32},
		entities.ONegative:  {60, 45},
		entities.ANegative:  {55, 40},
		entities.BNegative:  {30, 20},
		entities.ABNegative: {12, 8},
	}
	for bt, counts := range pools {
		donors = append(donors, BuildDonorSnapshot(bt, counts[0], counts[1])...)
	}
	return donors
}

// BuildInventory builds an inventory repository with the given units on hand
// per blood type; types absent from the map get zero stock
func BuildInventory(onHand map[entities.BloodType]float64) *memory.InventoryRepository {
	repo := memory.NewInventoryRepository()
	for _, bt := range entities.AllBloodTypes {
		level := &entities.InventoryLevel{
			BloodType:   bt,
			UnitsOnHand: entities.Units(onHand[bt]),
			UpdatedAt:   SeriesStart,
		}
		if err := repo.LoadLevel(level); err != nil {
			panic(err)
		}
	}
	return repo
}
