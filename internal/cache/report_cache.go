package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/config"
	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/redis/go-redis/v9"
)

const reportKeyPrefix = "report:"

// ReportCache stores assembled reports keyed by directory contents and period.
type ReportCache interface {
	GetReport(ctx context.Context, dirHash string, period domain.Period) (*report.Report, bool, error)
	SetReport(ctx context.Context, dirHash string, period domain.Period, rep *report.Report) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache connects to Redis when caching is enabled and falls back to a
// no-op cache otherwise.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

// NewRedisReportCache wraps an existing client.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &redisReportCache{client: client, ttl: ttl}
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetReport(ctx context.Context, dirHash string, period domain.Period) (*report.Report, bool, error) {
	payload, err := c.client.Get(ctx, buildReportKey(dirHash, period)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal(payload, &rep); err != nil {
		return nil, false, fmt.Errorf("decode report cache: %w", err)
	}
	return &rep, true, nil
}

func (c *redisReportCache) SetReport(ctx context.Context, dirHash string, period domain.Period, rep *report.Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}

	if err := c.client.Set(ctx, buildReportKey(dirHash, period), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, reportKeyPrefix)
}

func (n *noopReportCache) GetReport(ctx context.Context, dirHash string, period domain.Period) (*report.Report, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetReport(ctx context.Context, dirHash string, period domain.Period, rep *report.Report) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildReportKey(dirHash string, period domain.Period) string {
	if period.IsZero() {
		return fmt.Sprintf("%s%s:all", reportKeyPrefix, dirHash)
	}
	return fmt.Sprintf("%s%s:%s..%s", reportKeyPrefix, dirHash, period.From, period.To)
}
