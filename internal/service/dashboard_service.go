package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/cache"
	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const entryDateLayout = "2006-01-02"

var (
	ErrUnknownLocation = errors.New("unknown location")
	ErrInvalidEntry    = errors.New("invalid inventory entry")
)

type DashboardService struct {
	repos repository.Repositories
	cache cache.ReportCache
	now   func() time.Time

	mu  sync.RWMutex
	dir report.Directory
}

func NewDashboardService(repos repository.Repositories, dir report.Directory, reportCache cache.ReportCache) *DashboardService {
	if reportCache == nil {
		reportCache = cache.NewNoopReportCache()
	}
	return &DashboardService{
		repos: repos,
		cache: reportCache,
		dir:   dir,
		now:   time.Now,
	}
}

// Directory returns the group directory the service reports with.
func (s *DashboardService) Directory() report.Directory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dir == nil {
		return report.Directory{}
	}
	return s.dir
}

// SetDirectory swaps the group directory. Cached reports keyed by the old
// directory are left to expire.
func (s *DashboardService) SetDirectory(dir report.Directory) {
	s.mu.Lock()
	s.dir = dir
	s.mu.Unlock()
}

// Snapshot loads demographics, locations and per-location counter sums for
// the period. The three reads run concurrently.
func (s *DashboardService) Snapshot(ctx context.Context, period domain.Period) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		demo, err := s.repos.Demographics.GetDemographics(gctx)
		if err != nil {
			return fmt.Errorf("error loading demographics: %w", err)
		}
		snap.Demo = demo.WithTotal()
		return nil
	})
	g.Go(func() error {
		locs, err := s.repos.Locations.ListLocations(gctx)
		if err != nil {
			return fmt.Errorf("error loading locations: %w", err)
		}
		snap.Locations = locs
		return nil
	})
	g.Go(func() error {
		records, err := s.repos.Inventory.GetSummaries(gctx, period)
		if err != nil {
			return fmt.Errorf("error loading inventory: %w", err)
		}
		snap.Inventory = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Report returns the assembled report for the period, from cache when possible.
func (s *DashboardService) Report(ctx context.Context, period domain.Period) (*report.Report, error) {
	dir := s.Directory()
	hash := dir.Hash()

	if cached, ok, err := s.cache.GetReport(ctx, hash, period); err != nil {
		log.Warn().Err(err).Msg("report cache get failed")
	} else if ok {
		return cached, nil
	}

	snap, err := s.Snapshot(ctx, period)
	if err != nil {
		return nil, err
	}

	rep := report.BuildReport(snap.Locations, snap.Inventory, dir, snap.Demo)
	for _, w := range rep.Warnings {
		log.Debug().Str("code", string(w.Code)).Str("group", w.Group).Str("name", w.Name).Msg(w.Message)
	}

	if err := s.cache.SetReport(ctx, hash, period, &rep); err != nil {
		log.Warn().Err(err).Msg("report cache set failed")
	}
	return &rep, nil
}

// ValidateDirectory checks the group directory against the stored locations.
func (s *DashboardService) ValidateDirectory(ctx context.Context) ([]report.Warning, error) {
	locs, err := s.repos.Locations.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading locations: %w", err)
	}
	warnings := s.Directory().Validate(locs)
	if warnings == nil {
		warnings = []report.Warning{}
	}
	return warnings, nil
}

// SubmitInventory validates and stores a weekly entry. An empty date means today.
func (s *DashboardService) SubmitInventory(ctx context.Context, entry domain.InventoryEntry) (*domain.InventoryEntry, error) {
	if entry.LocationID == "" {
		return nil, fmt.Errorf("%w: location_id is required", ErrInvalidEntry)
	}
	if entry.N < 0 || entry.O < 0 || entry.Q < 0 || entry.R < 0 {
		return nil, fmt.Errorf("%w: counters must not be negative", ErrInvalidEntry)
	}

	if entry.Date == "" {
		entry.Date = s.now().Format(entryDateLayout)
	} else {
		d, err := time.Parse(entryDateLayout, entry.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidEntry)
		}
		entry.Date = d.Format(entryDateLayout)
	}

	if _, err := s.repos.Locations.GetLocation(ctx, entry.LocationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, entry.LocationID)
		}
		return nil, err
	}

	if err := s.repos.Inventory.UpsertEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().
		Str("location_id", entry.LocationID.String()).
		Str("date", entry.Date).
		Int64("n", entry.N.Int64()).
		Msg("inventory entry saved")

	return &entry, nil
}

// SaveDemographics stores the EPSP configuration and returns it with the derived total.
func (s *DashboardService) SaveDemographics(ctx context.Context, demo domain.Demographics) (domain.Demographics, error) {
	if demo.NbrPolyclinique < 0 || demo.PopTotal < 0 || demo.Cible2To11m < 0 || demo.Cible12To59m < 0 {
		return domain.Demographics{}, fmt.Errorf("%w: demographics must not be negative", ErrInvalidEntry)
	}

	if err := s.repos.Demographics.SaveDemographics(ctx, demo); err != nil {
		return domain.Demographics{}, err
	}

	s.invalidate(ctx)
	return demo.WithTotal(), nil
}

// History returns recent entries for one location, newest first.
func (s *DashboardService) History(ctx context.Context, locationID domain.FacilityID, limit int) ([]domain.InventoryEntry, error) {
	return s.repos.Inventory.ListEntries(ctx, locationID, limit)
}

func (s *DashboardService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("report cache invalidation failed")
	}
}
