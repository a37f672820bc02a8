package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// ReportRepository is an in-memory append-only report log, newest last
type ReportRepository struct {
	mu      sync.RWMutex
	reports []*entities.OptimizationReport
	byID    map[string]*entities.OptimizationReport
}

// NewReportRepository creates a new in-memory report repository
func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		byID: make(map[string]*entities.OptimizationReport),
	}
}

// Verify interface compliance
var _ repositories.ReportRepository = (*ReportRepository)(nil)

// Append stores a newly generated report
func (r *ReportRepository) Append(ctx context.Context, report *entities.OptimizationReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if report.ReportID == "" {
		return fmt.Errorf("report id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[report.ReportID]; exists {
		return fmt.Errorf("report %s already exists; reports are immutable", report.ReportID)
	}
	r.reports = append(r.reports, report)
	r.byID[report.ReportID] = report
	return nil
}

// Get returns the report with the given id
func (r *ReportRepository) Get(ctx context.Context, reportID string) (*entities.OptimizationReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.byID[reportID]
	if !ok {
		return nil, entities.ErrReportNotFound
	}
	return report, nil
}

// List returns reports newest first with offset pagination, plus the total
// count
func (r *ReportRepository) List(ctx context.Context, skip, limit int) ([]*entities.OptimizationReport, int, error) {
	if skip < 0 || limit < 0 {
		return nil, 0, fmt.Errorf("skip and limit cannot be negative")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.reports)
	if skip >= total || limit == 0 {
		return nil, total, nil
	}

	// reports is oldest first; serve newest first.
	out := make([]*entities.OptimizationReport, 0, limit)
	for i := total - 1 - skip; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.reports[i])
	}
	return out, total, nil
}

// Latest returns the most recently appended report
func (r *ReportRepository) Latest(ctx context.Context) (*entities.OptimizationReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.reports) == 0 {
		return nil, entities.ErrReportNotFound
	}
	return r.reports[len(r.reports)-1], nil
}
