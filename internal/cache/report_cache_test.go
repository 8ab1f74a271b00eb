package cache

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/config"
	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportKey(t *testing.T) {
	assert.Equal(t, "report:abc:all", buildReportKey("abc", domain.Period{}))
	assert.Equal(t, "report:abc:2024-01-01..2024-01-31", buildReportKey("abc", domain.Period{From: "2024-01-01", To: "2024-01-31"}))
	assert.Equal(t, "report:abc:..2024-01-31", buildReportKey("abc", domain.Period{To: "2024-01-31"}))
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisPassword: "pw", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://cache.internal:6380/1"})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 1, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "http://nope"})
	assert.Error(t, err)
}

func TestReportTTL(t *testing.T) {
	assert.Equal(t, defaultReportTTL, reportTTL(config.CacheConfig{}))
	assert.Equal(t, 30*time.Second, reportTTL(config.CacheConfig{ReportTTLSeconds: 30}))
}

func TestNewReportCache_DisabledIsNoop(t *testing.T) {
	c, err := NewReportCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.SetReport(ctx, "h", domain.Period{}, &report.Report{EPSPName: "x"}))

	rep, ok, err := c.GetReport(ctx, "h", domain.Period{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rep)
	assert.NoError(t, c.InvalidateAll(ctx))
}
