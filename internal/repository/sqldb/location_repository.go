package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type locationRepository struct {
	db *DB
}

func NewLocationRepository(db *DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) ListLocations(ctx context.Context) ([]domain.Facility, error) {
	query := `
		SELECT id, name, type
		FROM locations
		ORDER BY position, id
	`

	locations := make([]domain.Facility, 0)
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, fmt.Errorf("error listing locations: %w", err)
	}
	return locations, nil
}

func (r *locationRepository) GetLocation(ctx context.Context, id domain.FacilityID) (*domain.Facility, error) {
	query := r.db.Rebind(`SELECT id, name, type FROM locations WHERE id = ?`)

	var loc domain.Facility
	err := r.db.GetContext(ctx, &loc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting location %s: %w", id, err)
	}
	return &loc, nil
}

// UpsertLocations inserts facilities at the end of the list, or renames and
// retypes existing ones without moving them. All rows are written in one transaction.
func (r *locationRepository) UpsertLocations(ctx context.Context, locs ...domain.Facility) error {
	query := r.db.Rebind(`
		INSERT INTO locations (id, name, type, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM locations))
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type
	`)

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, loc := range locs {
			if _, err := tx.ExecContext(ctx, query, loc.ID, loc.Name, loc.Type); err != nil {
				return fmt.Errorf("error upserting location %s: %w", loc.ID, err)
			}
		}
		return nil
	})
}
