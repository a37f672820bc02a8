package repositories

import (
	"context"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

// ReportRepository is the append-only log of optimization reports. Reports
// are immutable once appended; there is no update or delete.
type ReportRepository interface {
	// Append stores a newly generated report.
	Append(ctx context.Context, report *entities.OptimizationReport) error

	// Get returns the report with the given id, or
	// entities.ErrReportNotFound.
	Get(ctx context.Context, reportID string) (*entities.OptimizationReport, error)

	// List returns reports newest first with offset pagination, plus the
	// total count.
	List(ctx context.Context, skip, limit int) ([]*entities.OptimizationReport, int, error)

	// Latest returns the most recently appended report, or
	// entities.ErrReportNotFound when the log is empty.
	Latest(ctx context.Context) (*entities.OptimizationReport, error)
}
