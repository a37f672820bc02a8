package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/application/services/orchestration"
	"github.com/rvela/hemoplan/pkg/application/services/reconcile"
	"github.com/rvela/hemoplan/pkg/application/services/report"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	testhelpers "github.com/rvela/hemoplan/pkg/application/services/testing"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/infrastructure/events"
	"github.com/rvela/hemoplan/pkg/infrastructure/procurement"
	"github.com/rvela/hemoplan/pkg/infrastructure/repositories/memory"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	donorRepo := memory.NewDonorRepository()
	require.NoError(t, donorRepo.LoadSnapshot(testhelpers.BuildFullDonorSnapshot()))

	inventoryRepo := testhelpers.BuildInventory(map[entities.BloodType]float64{
		entities.OPositive:  600,
		entities.APositive:  500,
		entities.BPositive:  200,
		entities.ABPositive: 80,
		entities.ONegative:  120,
		entities.ANegative:  100,
		entities.BNegative:  60,
		entities.ABNegative: 30,
	})
	historyRepo := testhelpers.BuildDemandHistory()

	forecaster := forecast.NewService()
	predictor := supply.NewPredictor()
	reconciler := reconcile.NewReconciler(forecaster, predictor)
	optimizer := optimize.NewService()
	reports := report.NewService(memory.NewReportRepository(), procurement.NewInMemoryProcurement(), events.NewInMemoryExecutionLog())
	pipeline := orchestration.NewPipeline(
		historyRepo, donorRepo, inventoryRepo,
		forecaster, predictor, reconciler, optimizer, reports, nil,
	)

	deps := &Deps{
		HistoryRepo:   historyRepo,
		DonorRepo:     donorRepo,
		InventoryRepo: inventoryRepo,
		Forecaster:    forecaster,
		Predictor:     predictor,
		Reconciler:    reconciler,
		Optimizer:     optimizer,
		Reports:       reports,
		Pipeline:      pipeline,
		Logger:        zap.NewNop(),
	}

	router := mux.NewRouter()
	SetupRoutes(router, deps)
	return router
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestForecastEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/forecast/O%2B?horizon_days=14", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ForecastJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "O+", resp.BloodType)
	assert.Len(t, resp.Points, 14)
	for _, p := range resp.Points {
		assert.GreaterOrEqual(t, p.PredictedDemand, p.LowerBound)
		assert.LessOrEqual(t, p.PredictedDemand, p.UpperBound)
	}
}

func TestForecastEndpoint_BadBloodType(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/forecast/XX", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecastEndpoint_ShortHistoryFallsBack(t *testing.T) {
	historyRepo := memory.NewDemandHistoryRepository()
	require.NoError(t, historyRepo.LoadSeries(testhelpers.SyntheticSeries(entities.BNegative, 5, 7)))

	router := mux.NewRouter()
	SetupRoutes(router, &Deps{
		HistoryRepo: historyRepo,
		Forecaster:  forecast.NewService(),
		Logger:      zap.NewNop(),
	})

	rec := doRequest(t, router, http.MethodGet, "/api/forecast/B-?horizon_days=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ForecastJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "B-", resp.BloodType)
	assert.True(t, resp.Fallback)
	assert.Len(t, resp.Points, 10)
}

func TestBatchForecastEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/forecast?horizon_days=7", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BatchForecastJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, len(entities.AllBloodTypes))
	for bt, slot := range resp.Results {
		assert.Equal(t, "ok", slot.Status, "type %s", bt)
	}
}

func TestSupplyAndBalanceEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/supply?horizon_days=14", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var supplyResp SupplyResponseJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &supplyResp))
	assert.Len(t, supplyResp.Predictions, len(entities.AllBloodTypes))

	rec = doRequest(t, router, http.MethodGet, "/api/balance?horizon_days=14", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var balanceResp BalanceResponseJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balanceResp))
	assert.Len(t, balanceResp.Assessments, len(entities.AllBloodTypes))
	for _, a := range balanceResp.Assessments {
		assert.Contains(t, []string{"shortage_risk", "balanced", "oversupply"}, a.Status)
	}
}

func TestOptimizeAndReportEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/optimize",
		`{"method":"linear_programming","horizon_days":14}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created ReportJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ReportID)
	assert.Equal(t, "linear_programming", created.OptimizationMethod)

	// Point lookup.
	rec = doRequest(t, router, http.MethodGet, "/api/reports/"+created.ReportID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Listing includes it.
	rec = doRequest(t, router, http.MethodGet, "/api/reports?skip=0&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list reportListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	// Active recommendations resolve to the latest report.
	rec = doRequest(t, router, http.MethodGet, "/api/recommendations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var active activeRecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Equal(t, created.ReportID, active.ReportID)

	// Unknown report id is a 404.
	rec = doRequest(t, router, http.MethodGet, "/api/reports/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptimizeEndpoint_ZeroBudgetConflict(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/optimize",
		`{"method":"hybrid","horizon_days":14,"constraints":{"budget_constraint":"0"}}`)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "infeasible_constraints", resp.Code)
}

func TestOptimizeEndpoint_BadMethod(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodPost, "/api/optimize", `{"method":"genetic"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteEndpoint_IdempotentReplay(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/optimize",
		`{"method":"linear_programming","horizon_days":14}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created ReportJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	var target string
	for _, r := range created.Recommendations {
		if r.RecommendedOrderQty > 0 {
			target = r.RecommendationID
			break
		}
	}
	require.NotEmpty(t, target, "expected an orderable recommendation")

	execPath := fmt.Sprintf("/api/recommendations/%s/execute", target)
	rec = doRequest(t, router, http.MethodPost, execPath, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order PurchaseOrderJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.NotEmpty(t, order.PurchaseOrderID)

	// Replay: no duplicate order, explicit already_executed code.
	rec = doRequest(t, router, http.MethodPost, execPath, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "already_executed", resp.Code)
}

func TestQuickRecommendationsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/recommendations/quick?blood_type=O-&horizon_days=14", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var recs []RecommendationJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "O-", recs[0].BloodType)
}
