package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/rvela/hemoplan/pkg/domain/entities"
	"github.com/rvela/hemoplan/pkg/domain/repositories"
)

// CachedReportRepository fronts a report repository with a redis cache on
// point lookups. Reports are immutable, so cached entries never go stale;
// the TTL only bounds memory. Cache failures degrade to the inner store.
type CachedReportRepository struct {
	inner  repositories.ReportRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ repositories.ReportRepository = (*CachedReportRepository)(nil)

// NewCachedReportRepository wraps a report repository with a redis cache
func NewCachedReportRepository(
	inner repositories.ReportRepository,
	client *redis.Client,
	ttl time.Duration,
	logger *zap.Logger,
) *CachedReportRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedReportRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(reportID string) string {
	return "hemoplan:report:" + reportID
}

// Append stores the report and warms the cache
func (r *CachedReportRepository) Append(ctx context.Context, report *entities.OptimizationReport) error {
	if err := r.inner.Append(ctx, report); err != nil {
		return err
	}
	r.set(ctx, report)
	return nil
}

// Get returns one report, from cache when possible
func (r *CachedReportRepository) Get(ctx context.Context, reportID string) (*entities.OptimizationReport, error) {
	payload, err := r.client.Get(ctx, cacheKey(reportID)).Bytes()
	if err == nil {
		var report entities.OptimizationReport
		if err := json.Unmarshal(payload, &report); err == nil {
			return &report, nil
		}
		r.logger.Warn("discarding undecodable cached report", zap.String("report_id", reportID))
	} else if err != redis.Nil {
		r.logger.Warn("report cache read failed", zap.Error(err))
	}

	report, err := r.inner.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	r.set(ctx, report)
	return report, nil
}

// List is a passthrough; pages are cheap against the inner store
func (r *CachedReportRepository) List(ctx context.Context, skip, limit int) ([]*entities.OptimizationReport, int, error) {
	return r.inner.List(ctx, skip, limit)
}

// Latest is a passthrough; "latest" changes on every append
func (r *CachedReportRepository) Latest(ctx context.Context) (*entities.OptimizationReport, error) {
	return r.inner.Latest(ctx)
}

func (r *CachedReportRepository) set(ctx context.Context, report *entities.OptimizationReport) {
	payload, err := json.Marshal(report)
	if err != nil {
		r.logger.Warn("report cache encode failed", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, cacheKey(report.ReportID), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("report cache write failed", zap.Error(err))
	}
}

// NewRedisClient creates the redis client for the report cache
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
