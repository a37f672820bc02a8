package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rvela/hemoplan/pkg/application/services/forecast"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/application/services/orchestration"
	"github.com/rvela/hemoplan/pkg/application/services/reconcile"
	"github.com/rvela/hemoplan/pkg/application/services/report"
	"github.com/rvela/hemoplan/pkg/application/services/supply"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// Deps bundles everything the HTTP handlers need
type Deps struct {
	HistoryRepo   repositories.DemandHistoryRepository
	DonorRepo     repositories.DonorRepository
	InventoryRepo repositories.InventoryRepository
	Forecaster    *forecast.Service
	Predictor     *supply.Predictor
	Reconciler    *reconcile.Reconciler
	Optimizer     *optimize.Service
	Reports       *report.Service
	Pipeline      *orchestration.Pipeline
	Logger        *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps domain error types to HTTP statuses
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var insufficient *entities.InsufficientDataError
	var infeasible *entities.InfeasibleConstraintsError
	var invalid *entities.InvalidConstraintError
	var already *entities.AlreadyExecutedError

	switch {
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "insufficient_data"})
	case errors.As(err, &infeasible):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "infeasible_constraints"})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_constraint"})
	case errors.As(err, &already):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "already_executed"})
	case errors.Is(err, entities.ErrReportNotFound), errors.Is(err, entities.ErrRecommendationNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func horizonFrom(r *http.Request) (int, error) {
	horizon := 14
	if raw := r.URL.Query().Get("horizon_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, err
		}
		horizon = parsed
	}
	return horizon, nil
}

// ForecastHandler serves the per-type demand forecast
func ForecastHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bloodType, err := entities.ParseBloodType(mux.Vars(r)["bloodType"])
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		horizon, err := horizonFrom(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid horizon_days"})
			return
		}

		series, err := deps.HistoryRepo.GetSeries(r.Context(), bloodType)
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		result, err := deps.Forecaster.ForecastOrNaive(r.Context(), series, horizon)
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toForecastJSON(result))
	}
}

// BatchForecastHandler serves the all-types forecast with per-type status
func BatchForecastHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		horizon, err := horizonFrom(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid horizon_days"})
			return
		}
		batch, err := deps.Forecaster.ForecastAll(r.Context(), deps.HistoryRepo, horizon)
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toBatchForecastJSON(batch))
	}
}

// SupplyHandler serves the donor-based supply prediction
func SupplyHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		horizon, err := horizonFrom(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid horizon_days"})
			return
		}
		snapshot, err := deps.DonorRepo.GetSnapshot(r.Context())
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		result, err := deps.Predictor.Predict(snapshot, horizon)
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toSupplyJSON(result))
	}
}

// BalanceHandler serves the supply-demand reconciliation
func BalanceHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		horizon, err := horizonFrom(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid horizon_days"})
			return
		}
		snapshot, err := deps.DonorRepo.GetSnapshot(r.Context())
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		result, err := deps.Reconciler.Reconcile(r.Context(), deps.HistoryRepo, snapshot, horizon)
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toBalanceJSON(result))
	}
}

// optimizeRequest is the body of POST /api/optimize
type optimizeRequest struct {
	Method      string                 `json:"method"`
	HorizonDays int                    `json:"horizon_days"`
	Constraints *constraintRequestJSON `json:"constraints"`
}

type constraintRequestJSON struct {
	MaxStorageCapacity      *float64 `json:"max_storage_capacity"`
	MinSafetyStockDays      *int     `json:"min_safety_stock_days"`
	MaxOrderFrequencyDays   *int     `json:"max_order_frequency_days"`
	Budget                  *string  `json:"budget_constraint"`
	EmergencyCostMultiplier *float64 `json:"emergency_cost_multiplier"`
	ShelfLifeBufferDays     *int     `json:"shelf_life_buffer_days"`
}

func (c *constraintRequestJSON) toConstraint() (*entities.OptimizationConstraint, error) {
	if c == nil {
		return nil, nil
	}
	constraint := &entities.OptimizationConstraint{}
	if c.MaxStorageCapacity != nil {
		constraint.MaxStorageCapacity = entities.Units(*c.MaxStorageCapacity)
	}
	if c.MinSafetyStockDays != nil {
		constraint.MinSafetyStockDays = *c.MinSafetyStockDays
	}
	if c.MaxOrderFrequencyDays != nil {
		constraint.MaxOrderFrequencyDays = *c.MaxOrderFrequencyDays
	}
	if c.Budget != nil {
		budget, err := decimal.NewFromString(*c.Budget)
		if err != nil {
			return nil, err
		}
		constraint.BudgetConstraint = budget
	} else {
		// Absent budget means the default; only an explicit "0" makes
		// the run unfunded.
		constraint.BudgetConstraint = entities.DefaultConstraint().BudgetConstraint
	}
	if c.EmergencyCostMultiplier != nil {
		constraint.EmergencyCostMultiplier = *c.EmergencyCostMultiplier
	}
	if c.ShelfLifeBufferDays != nil {
		constraint.ShelfLifeBufferDays = *c.ShelfLifeBufferDays
	}
	return constraint, nil
}

// OptimizeHandler runs the full optimization pipeline and returns the report
func OptimizeHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req optimizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		method, err := optimize.ParseMethod(req.Method)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		if req.HorizonDays == 0 {
			req.HorizonDays = 14
		}
		constraint, err := req.Constraints.toConstraint()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		result, err := deps.Pipeline.Run(r.Context(), method, req.HorizonDays, constraint)
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, toReportJSON(result.Report))
	}
}

// QuickRecommendationsHandler serves the low-latency per-type recommendation
// path used by dashboard polling
func QuickRecommendationsHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		horizon, err := horizonFrom(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid horizon_days"})
			return
		}
		method, err := optimize.ParseMethod(r.URL.Query().Get("method"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		var bloodType *entities.BloodType
		if raw := r.URL.Query().Get("blood_type"); raw != "" {
			parsed, err := entities.ParseBloodType(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			bloodType = &parsed
		}

		snapshot, err := deps.DonorRepo.GetSnapshot(r.Context())
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		balance, err := deps.Reconciler.Reconcile(r.Context(), deps.HistoryRepo, snapshot, horizon)
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		levels, err := deps.InventoryRepo.GetAllLevels(r.Context())
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}

		recs, err := deps.Optimizer.QuickRecommendations(r.Context(), method, levels, balance.Assessments, bloodType)
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		out := make([]RecommendationJSON, len(recs))
		for i := range recs {
			out[i] = toRecommendationJSON(&recs[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// activeRecommendationsResponse echoes the resolved report id alongside the
// filtered recommendations
type activeRecommendationsResponse struct {
	ReportID        string               `json:"report_id"`
	Recommendations []RecommendationJSON `json:"recommendations"`
}

// ActiveRecommendationsHandler queries one report's recommendations
func ActiveRecommendationsHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		var filter report.RecommendationFilter
		if raw := query.Get("min_priority"); raw != "" {
			priority, err := entities.ParsePriorityLevel(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			filter.MinPriority = &priority
		}
		if raw := query.Get("type"); raw != "" {
			recType, err := entities.ParseRecommendationType(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			filter.Type = &recType
		}

		reportID, recs, err := deps.Reports.ActiveRecommendations(r.Context(), query.Get("report_id"), filter)
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		resp := activeRecommendationsResponse{
			ReportID:        reportID,
			Recommendations: make([]RecommendationJSON, len(recs)),
		}
		for i := range recs {
			resp.Recommendations[i] = toRecommendationJSON(&recs[i])
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ExecuteHandler converts one recommendation into a purchase order
func ExecuteHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := deps.Reports.Execute(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPurchaseOrderJSON(order))
	}
}

// reportListResponse is the paginated report listing
type reportListResponse struct {
	Reports []*ReportJSON `json:"reports"`
	Total   int           `json:"total"`
	Skip    int           `json:"skip"`
	Limit   int           `json:"limit"`
}

// ReportsListHandler serves the paginated report log
func ReportsListHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		skip, limit := 0, 0
		var err error
		if raw := query.Get("skip"); raw != "" {
			if skip, err = strconv.Atoi(raw); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid skip"})
				return
			}
		}
		if raw := query.Get("limit"); raw != "" {
			if limit, err = strconv.Atoi(raw); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
				return
			}
		}

		reports, total, err := deps.Reports.List(r.Context(), skip, limit)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		resp := reportListResponse{
			Reports: make([]*ReportJSON, len(reports)),
			Total:   total,
			Skip:    skip,
			Limit:   limit,
		}
		for i, rep := range reports {
			resp.Reports[i] = toReportJSON(rep)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ReportsGetHandler serves one report by id
func ReportsGetHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := deps.Reports.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, deps.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportJSON(rep))
	}
}
