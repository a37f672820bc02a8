package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rvela/hemoplan/pkg/application/dto"
	"github.com/rvela/hemoplan/pkg/application/services/optimize"
	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

const (
	// DefaultPageSize applies when a list request leaves limit unset.
	DefaultPageSize = 20
	// MaxPageSize caps the page size of any list request.
	MaxPageSize = 100
)

// Service assembles optimization reports, answers queries over the report
// log, and executes recommendations into purchase orders. Reports are
// immutable after assembly; execution records one event per recommendation
// id and never a second order.
type Service struct {
	reports     repositories.ReportRepository
	procurement repositories.ProcurementService
	executions  repositories.ExecutionLog
}

// NewService creates a report service over the given collaborators
func NewService(
	reports repositories.ReportRepository,
	procurement repositories.ProcurementService,
	executions repositories.ExecutionLog,
) *Service {
	return &Service{
		reports:     reports,
		procurement: procurement,
		executions:  executions,
	}
}

// Assemble packages one optimization run into a report and appends it to
// the report log. The forecast batch is optional; pass nil when the run was
// driven by cached assessments.
func (s *Service) Assemble(
	ctx context.Context,
	result *optimize.Result,
	forecasts *dto.BatchForecastResult,
) (*entities.OptimizationReport, error) {
	if result == nil {
		return nil, fmt.Errorf("optimization result cannot be nil")
	}

	report := assemble(result, forecasts)
	if err := s.reports.Append(ctx, report); err != nil {
		return nil, fmt.Errorf("appending report %s: %w", report.ReportID, err)
	}
	return report, nil
}

// Get returns one report by id
func (s *Service) Get(ctx context.Context, reportID string) (*entities.OptimizationReport, error) {
	if reportID == "" {
		return nil, fmt.Errorf("report id cannot be empty")
	}
	return s.reports.Get(ctx, reportID)
}

// List returns reports newest first. Limit defaults to DefaultPageSize and
// is capped at MaxPageSize; negative skip is rejected.
func (s *Service) List(ctx context.Context, skip, limit int) ([]*entities.OptimizationReport, int, error) {
	if skip < 0 {
		return nil, 0, fmt.Errorf("skip cannot be negative, got %d", skip)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return s.reports.List(ctx, skip, limit)
}

// RecommendationFilter narrows the active-recommendation query. Nil fields
// match everything.
type RecommendationFilter struct {
	MinPriority *entities.PriorityLevel
	Type        *entities.RecommendationType
}

// ActiveRecommendations returns the recommendations of one report, filtered.
// An empty reportID resolves to the latest report; the resolved id is
// returned so callers hold an explicit handle for follow-up queries.
func (s *Service) ActiveRecommendations(
	ctx context.Context,
	reportID string,
	filter RecommendationFilter,
) (string, []entities.Recommendation, error) {
	var report *entities.OptimizationReport
	var err error
	if reportID == "" {
		report, err = s.reports.Latest(ctx)
	} else {
		report, err = s.reports.Get(ctx, reportID)
	}
	if err != nil {
		return "", nil, err
	}

	matched := make([]entities.Recommendation, 0, len(report.Recommendations))
	for _, rec := range report.Recommendations {
		if filter.MinPriority != nil && rec.PriorityLevel < *filter.MinPriority {
			continue
		}
		if filter.Type != nil && rec.Type != *filter.Type {
			continue
		}
		matched = append(matched, rec)
	}
	return report.ReportID, matched, nil
}

// Execute converts one recommendation from the latest report into a
// purchase order through the procurement boundary. Idempotent per
// recommendation id: a repeat call places no second order and returns
// AlreadyExecutedError naming the original purchase order.
func (s *Service) Execute(ctx context.Context, recommendationID string) (*entities.PurchaseOrder, error) {
	if recommendationID == "" {
		return nil, fmt.Errorf("recommendation id cannot be empty")
	}

	if prior, err := s.executions.FindByRecommendation(ctx, recommendationID); err != nil {
		return nil, fmt.Errorf("checking execution log: %w", err)
	} else if prior != nil {
		return nil, &entities.AlreadyExecutedError{
			RecommendationID: recommendationID,
			PurchaseOrderID:  prior.Order.PurchaseOrderID,
		}
	}

	report, err := s.reports.Latest(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := report.FindRecommendation(recommendationID)
	if !ok {
		return nil, fmt.Errorf("recommendation %s in report %s: %w",
			recommendationID, report.ReportID, entities.ErrRecommendationNotFound)
	}
	if rec.RecommendedOrderQty <= 0 {
		return nil, fmt.Errorf("recommendation %s (%s) carries no order quantity to execute",
			recommendationID, rec.Type)
	}

	order := &entities.PurchaseOrder{
		PurchaseOrderID:  uuid.NewString(),
		RecommendationID: rec.RecommendationID,
		BloodType:        rec.BloodType,
		Quantity:         rec.RecommendedOrderQty,
		Cost:             rec.CostEstimate,
		Priority:         rec.PriorityLevel,
		PlacedAt:         time.Now().UTC(),
		ExpectedDelivery: rec.ExpectedDeliveryDate,
	}
	placed, err := s.procurement.PlaceOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("placing purchase order for %s: %w", recommendationID, err)
	}

	event := &entities.ExecutionEvent{
		EventID:          uuid.NewString(),
		RecommendationID: recommendationID,
		ReportID:         report.ReportID,
		Order:            *placed,
		RecordedAt:       time.Now().UTC(),
	}
	if err := s.executions.Record(ctx, event); err != nil {
		// A concurrent execute may have won the race after our check.
		if prior, findErr := s.executions.FindByRecommendation(ctx, recommendationID); findErr == nil && prior != nil {
			return nil, &entities.AlreadyExecutedError{
				RecommendationID: recommendationID,
				PurchaseOrderID:  prior.Order.PurchaseOrderID,
			}
		}
		return nil, fmt.Errorf("recording execution of %s: %w", recommendationID, err)
	}
	return placed, nil
}
