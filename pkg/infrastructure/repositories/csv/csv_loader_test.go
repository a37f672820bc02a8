package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	testhelpers "github.com/rvela/hemoplan/pkg/infrastructure/testing"
)

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	files, err := testhelpers.WriteScenario(dir)
	require.NoError(t, err)

	loader := NewLoader()

	history, err := loader.LoadDemandHistory(files.DemandHistory)
	require.NoError(t, err)
	assert.Len(t, history, len(entities.AllBloodTypes))
	for _, bt := range entities.AllBloodTypes {
		require.NotNil(t, history[bt], "missing series for %s", bt)
		assert.Equal(t, 30, history[bt].Len())
	}

	donors, err := loader.LoadDonors(files.Donors)
	require.NoError(t, err)
	assert.NotEmpty(t, donors)
	seen := make(map[entities.BloodType]bool)
	for _, donor := range donors {
		seen[donor.BloodType] = true
	}
	assert.Len(t, seen, len(entities.AllBloodTypes))

	inventory, err := loader.LoadInventory(files.Inventory)
	require.NoError(t, err)
	assert.Len(t, inventory, len(entities.AllBloodTypes))
	assert.InDelta(t, 450, float64(inventory[entities.OPositive].UnitsOnHand), 0.01)
}

func TestLoadDemandHistory_SortsRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demand.csv")
	content := "blood_type,date,observed_units\n" +
		"O+,2026-06-03,40\n" +
		"O+,2026-06-01,42\n" +
		"O+,2026-06-02,41\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	history, err := NewLoader().LoadDemandHistory(path)
	require.NoError(t, err)

	series := history[entities.OPositive]
	require.NotNil(t, series)
	assert.Equal(t, []float64{42, 41, 40}, series.Values())
}

func TestLoadDemandHistory_RejectsBadRows(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown blood type",
			content: "blood_type,date,observed_units\nXX,2026-06-01,40\n",
		},
		{
			name:    "bad date",
			content: "blood_type,date,observed_units\nO+,yesterday,40\n",
		},
		{
			name:    "negative units",
			content: "blood_type,date,observed_units\nO+,2026-06-01,-4\n",
		},
		{
			name:    "header mismatch",
			content: "type,day,units\nO+,2026-06-01,40\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := NewLoader().LoadDemandHistory(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadInventory_RejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.csv")
	content := "blood_type,units_on_hand,units_expired\nO+,100,2\nO+,90,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewLoader().LoadInventory(path)
	assert.Error(t, err)
}
