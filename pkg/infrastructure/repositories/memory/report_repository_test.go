package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/rvela/hemoplan/pkg/domain/entities"
)

func appendReports(t *testing.T, repo *ReportRepository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := repo.Append(context.Background(), &entities.OptimizationReport{
			ReportID: fmt.Sprintf("report-%d", i),
		})
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
}

func TestReportRepository_AppendAndGet(t *testing.T) {
	repo := NewReportRepository()
	appendReports(t, repo, 3)

	report, err := repo.Get(context.Background(), "report-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if report.ReportID != "report-1" {
		t.Errorf("expected report-1, got %s", report.ReportID)
	}

	if _, err := repo.Get(context.Background(), "missing"); err != entities.ErrReportNotFound {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

func TestReportRepository_AppendOnly(t *testing.T) {
	repo := NewReportRepository()
	appendReports(t, repo, 1)

	err := repo.Append(context.Background(), &entities.OptimizationReport{ReportID: "report-0"})
	if err == nil {
		t.Error("expected error appending duplicate report id")
	}
}

func TestReportRepository_ListPagination(t *testing.T) {
	repo := NewReportRepository()
	appendReports(t, repo, 5)

	page, total, err := repo.List(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(page))
	}
	// Newest first, skipping the newest one.
	if page[0].ReportID != "report-3" || page[1].ReportID != "report-2" {
		t.Errorf("unexpected page order: %s, %s", page[0].ReportID, page[1].ReportID)
	}

	empty, total, err := repo.List(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(empty) != 0 || total != 5 {
		t.Errorf("expected empty page with total 5, got %d reports, total %d", len(empty), total)
	}

	if _, _, err := repo.List(context.Background(), -1, 5); err == nil {
		t.Error("expected error for negative skip")
	}
}

func TestReportRepository_Latest(t *testing.T) {
	repo := NewReportRepository()

	if _, err := repo.Latest(context.Background()); err != entities.ErrReportNotFound {
		t.Errorf("expected ErrReportNotFound on empty log, got %v", err)
	}

	appendReports(t, repo, 3)
	latest, err := repo.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ReportID != "report-2" {
		t.Errorf("expected report-2, got %s", latest.ReportID)
	}
}
