package forecast

import (
	"context"
	"testing"

	"github.com/rvela/hemoplan/pkg/application/dto"
	testhelpers "github.com/rvela/hemoplan/pkg/application/services/testing"
	"github.com/rvela/hemoplan/pkg/domain/entities"
)

func TestForecastAll_AllTypes(t *testing.T) {
	svc := NewService()
	repo := testhelpers.BuildDemandHistory()

	result, err := svc.ForecastAll(context.Background(), repo, 14)
	if err != nil {
		t.Fatalf("ForecastAll failed: %v", err)
	}

	if len(result.Results) != 8 {
		t.Fatalf("expected results for 8 blood types, got %d", len(result.Results))
	}
	for _, bt := range entities.AllBloodTypes {
		slot, ok := result.Results[bt]
		if !ok {
			t.Errorf("missing result slot for %s", bt)
			continue
		}
		if slot.Status != dto.TypeOK {
			t.Errorf("%s: expected ok status, got %s (%s)", bt, slot.Status, slot.Err)
			continue
		}
		if slot.Forecast == nil || len(slot.Forecast.Points) != 14 {
			t.Errorf("%s: expected 14 forecast points", bt)
		}
	}
	if result.PartialFailure() {
		t.Error("expected no partial failure with complete histories")
	}
}

func TestForecastAll_IsolatedFailure(t *testing.T) {
	svc := NewService()
	// AB- has a series too short to fit.
	repo := testhelpers.BuildDemandHistoryWithGap(entities.ABNegative)

	result, err := svc.ForecastAll(context.Background(), repo, 14)
	if err != nil {
		t.Fatalf("ForecastAll failed: %v", err)
	}

	slot := result.Results[entities.ABNegative]
	if slot.Status != dto.TypeInsufficientData {
		t.Errorf("expected insufficient_data for AB-, got %s", slot.Status)
	}
	if slot.Err == "" {
		t.Error("expected error marker text for AB-")
	}

	// The other 7 types still forecast normally.
	okCount := 0
	for _, bt := range entities.AllBloodTypes {
		if bt == entities.ABNegative {
			continue
		}
		if result.Results[bt].Status == dto.TypeOK {
			okCount++
		}
	}
	if okCount != 7 {
		t.Errorf("expected 7 successful types, got %d", okCount)
	}

	if !result.PartialFailure() {
		t.Error("expected partial failure flag")
	}
	failed := result.FailedTypes()
	if len(failed) != 1 || failed[0] != entities.ABNegative {
		t.Errorf("expected only AB- in failed types, got %v", failed)
	}
}

func TestForecastAll_HorizonValidation(t *testing.T) {
	svc := NewService()
	repo := testhelpers.BuildDemandHistory()

	if _, err := svc.ForecastAll(context.Background(), repo, 3); err == nil {
		t.Error("expected error for horizon below minimum")
	}
}
