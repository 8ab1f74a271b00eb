package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository/sqldb/sqldbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryReportCache struct {
	mu          sync.Mutex
	reports     map[string]*report.Report
	gets        int
	invalidated int
}

func newMemoryReportCache() *memoryReportCache {
	return &memoryReportCache{reports: map[string]*report.Report{}}
}

func (c *memoryReportCache) key(hash string, p domain.Period) string {
	return hash + "|" + p.From + "|" + p.To
}

func (c *memoryReportCache) GetReport(_ context.Context, hash string, p domain.Period) (*report.Report, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	rep, ok := c.reports[c.key(hash, p)]
	return rep, ok, nil
}

func (c *memoryReportCache) SetReport(_ context.Context, hash string, p domain.Period, rep *report.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[c.key(hash, p)] = rep
	return nil
}

func (c *memoryReportCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = map[string]*report.Report{}
	c.invalidated++
	return nil
}

func seed(t *testing.T, repos repository.Repositories) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repos.Locations.UpsertLocations(ctx,
		domain.Facility{ID: "p1", Name: "Polyclinique Centre", Type: "Polyclinique"},
		domain.Facility{ID: "s1", Name: "Salle de soins Est", Type: "Salle de soins"},
		domain.Facility{ID: "s2", Name: "Salle de soins Ouest", Type: "Salle de soins"},
	))
	require.NoError(t, repos.Demographics.SaveDemographics(ctx, domain.Demographics{
		EPSPName: "EPSP Test", Cible2To11m: 600, Cible12To59m: 400,
	}))
	for _, e := range []domain.InventoryEntry{
		{LocationID: "p1", Date: "2024-05-06", N: 150, O: 400, Q: 4, R: 1},
		{LocationID: "s1", Date: "2024-05-06", N: 60, O: 120, Q: 0, R: 0},
		{LocationID: "s2", Date: "2024-05-13", N: 40, O: 90, Q: 2, R: 0},
	} {
		require.NoError(t, repos.Inventory.UpsertEntry(ctx, e))
	}
}

func newTestDashboard(t *testing.T) (*DashboardService, *memoryReportCache) {
	t.Helper()
	repos := sqldbtest.New(t).Repositories()
	seed(t, repos)

	dir := report.Directory{{Name: "Centre", Members: []string{"Polyclinique Centre", "Salle de soins Est"}}}
	c := newMemoryReportCache()
	svc := NewDashboardService(repos, dir, c)
	svc.now = func() time.Time { return time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC) }
	return svc, c
}

func TestDashboardService_Snapshot(t *testing.T) {
	svc, _ := newTestDashboard(t)

	snap, err := svc.Snapshot(context.Background(), domain.Period{})
	require.NoError(t, err)

	assert.Equal(t, "EPSP Test", snap.Demo.EPSPName)
	assert.Equal(t, domain.Count(1000), snap.Demo.CibleTotal)
	assert.Len(t, snap.Locations, 3)
	assert.Len(t, snap.Inventory, 3)

	snap, err = svc.Snapshot(context.Background(), domain.Period{From: "2024-05-10"})
	require.NoError(t, err)
	assert.Equal(t, []domain.CounterRecord{{LocationID: "s2", N: 40, O: 90, Q: 2}}, snap.Inventory)
}

func TestDashboardService_ReportCachedUntilWrite(t *testing.T) {
	svc, c := newTestDashboard(t)
	ctx := context.Background()

	rep, err := svc.Report(ctx, domain.Period{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 4)
	assert.Equal(t, report.RowGroup, rep.Rows[0].Kind)
	assert.Equal(t, int64(210), rep.Rows[0].Totals.N)
	assert.Equal(t, report.RowUngrouped, rep.Rows[3].Kind)
	assert.Equal(t, int64(250), rep.GrandTotal.N)
	assert.Equal(t, "25.00%", rep.Coverage.Overall.String())

	again, err := svc.Report(ctx, domain.Period{})
	require.NoError(t, err)
	assert.Same(t, rep, again)

	_, err = svc.SubmitInventory(ctx, domain.InventoryEntry{LocationID: "s2", Date: "2024-05-20", N: 10, O: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, c.invalidated)

	fresh, err := svc.Report(ctx, domain.Period{})
	require.NoError(t, err)
	assert.NotSame(t, rep, fresh)
	assert.Equal(t, int64(260), fresh.GrandTotal.N)
}

func TestDashboardService_SubmitInventoryValidation(t *testing.T) {
	svc, _ := newTestDashboard(t)
	ctx := context.Background()

	_, err := svc.SubmitInventory(ctx, domain.InventoryEntry{Date: "2024-05-20"})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = svc.SubmitInventory(ctx, domain.InventoryEntry{LocationID: "p1", Q: -1})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = svc.SubmitInventory(ctx, domain.InventoryEntry{LocationID: "p1", Date: "20/05/2024"})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = svc.SubmitInventory(ctx, domain.InventoryEntry{LocationID: "ghost", Date: "2024-05-20"})
	assert.ErrorIs(t, err, ErrUnknownLocation)

	saved, err := svc.SubmitInventory(ctx, domain.InventoryEntry{LocationID: "p1", N: 5, O: 10})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", saved.Date)
}

func TestDashboardService_SaveDemographics(t *testing.T) {
	svc, c := newTestDashboard(t)
	ctx := context.Background()

	demo, err := svc.SaveDemographics(ctx, domain.Demographics{EPSPName: "EPSP Neuf", Cible2To11m: 10, Cible12To59m: 15})
	require.NoError(t, err)
	assert.Equal(t, domain.Count(25), demo.CibleTotal)
	assert.Equal(t, 1, c.invalidated)

	_, err = svc.SaveDemographics(ctx, domain.Demographics{PopTotal: -3})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestDashboardService_ValidateDirectory(t *testing.T) {
	repos := sqldbtest.New(t).Repositories()
	seed(t, repos)

	dir := report.Directory{
		{Name: "A", Members: []string{"Polyclinique Centre", "Inconnue"}},
		{Name: "B", Members: []string{"polyclinique  centre"}},
	}
	svc := NewDashboardService(repos, dir, nil)

	warnings, err := svc.ValidateDirectory(context.Background())
	require.NoError(t, err)

	codes := make([]report.WarningCode, 0, len(warnings))
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, report.WarnUnknownMember)
	assert.Contains(t, codes, report.WarnOverlappingMember)
}

func TestDashboardService_SetDirectory(t *testing.T) {
	svc, _ := newTestDashboard(t)
	ctx := context.Background()

	rep, err := svc.Report(ctx, domain.Period{})
	require.NoError(t, err)
	require.Equal(t, report.RowGroup, rep.Rows[0].Kind)

	svc.SetDirectory(nil)
	assert.Equal(t, report.Directory{}, svc.Directory())

	rep, err = svc.Report(ctx, domain.Period{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 3)
	for _, row := range rep.Rows {
		assert.Equal(t, report.RowUngrouped, row.Kind)
	}
	assert.Equal(t, int64(250), rep.GrandTotal.N)
}
