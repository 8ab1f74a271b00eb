// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

type LocationRepository interface {
	// ListLocations returns facilities in facility-list order.
	ListLocations(ctx context.Context) ([]domain.Facility, error)
	GetLocation(ctx context.Context, id domain.FacilityID) (*domain.Facility, error)
	UpsertLocations(ctx context.Context, locs ...domain.Facility) error
}

type InventoryRepository interface {
	// UpsertEntry stores an entry, replacing any entry for the same location and date.
	UpsertEntry(ctx context.Context, entry domain.InventoryEntry) error
	// GetSummaries returns one record per location with entries in the period, counters summed.
	GetSummaries(ctx context.Context, period domain.Period) ([]domain.CounterRecord, error)
	ListEntries(ctx context.Context, locationID domain.FacilityID, limit int) ([]domain.InventoryEntry, error)
}

type DemographicsRepository interface {
	// GetDemographics returns the zero value when nothing was saved yet.
	GetDemographics(ctx context.Context) (domain.Demographics, error)
	SaveDemographics(ctx context.Context, demo domain.Demographics) error
}

type UserRepository interface {
	GetUser(ctx context.Context, username string) (*domain.User, error)
	UpsertUser(ctx context.Context, user domain.User) error
}

// Repositories bundles the stores the services depend on.
type Repositories struct {
	Locations    LocationRepository
	Inventory    InventoryRepository
	Demographics DemographicsRepository
	Users        UserRepository
}
