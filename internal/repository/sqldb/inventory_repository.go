package sqldb

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) UpsertEntry(ctx context.Context, entry domain.InventoryEntry) error {
	query := r.db.Rebind(`
		INSERT INTO inventory_entries (location_id, entry_date, n, o, q, r, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (location_id, entry_date) DO UPDATE SET
			n = excluded.n,
			o = excluded.o,
			q = excluded.q,
			r = excluded.r,
			updated_at = CURRENT_TIMESTAMP
	`)

	_, err := r.db.ExecContext(ctx, query,
		entry.LocationID,
		entry.Date,
		entry.N,
		entry.O,
		entry.Q,
		entry.R,
	)
	if err != nil {
		return fmt.Errorf("error upserting inventory entry for %s on %s: %w", entry.LocationID, entry.Date, err)
	}
	return nil
}

func (r *inventoryRepository) GetSummaries(ctx context.Context, period domain.Period) ([]domain.CounterRecord, error) {
	query := `
		SELECT
			location_id,
			CAST(COALESCE(SUM(n), 0) AS BIGINT) AS total_n,
			CAST(COALESCE(SUM(o), 0) AS BIGINT) AS total_o,
			CAST(COALESCE(SUM(q), 0) AS BIGINT) AS total_q,
			CAST(COALESCE(SUM(r), 0) AS BIGINT) AS total_r
		FROM inventory_entries
		WHERE 1=1
	`

	var args []interface{}
	var conditions []string

	if period.From != "" {
		conditions = append(conditions, "entry_date >= ?")
		args = append(args, period.From)
	}
	if period.To != "" {
		conditions = append(conditions, "entry_date <= ?")
		args = append(args, period.To)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY location_id ORDER BY location_id"

	summaries := make([]domain.CounterRecord, 0)
	if err := r.db.SelectContext(ctx, &summaries, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("error getting inventory summaries: %w", err)
	}
	return summaries, nil
}

func (r *inventoryRepository) ListEntries(ctx context.Context, locationID domain.FacilityID, limit int) ([]domain.InventoryEntry, error) {
	if limit <= 0 {
		limit = 52
	}

	query := r.db.Rebind(`
		SELECT location_id, entry_date, n, o, q, r
		FROM inventory_entries
		WHERE location_id = ?
		ORDER BY entry_date DESC
		LIMIT ?
	`)

	entries := make([]domain.InventoryEntry, 0)
	if err := r.db.SelectContext(ctx, &entries, query, locationID, limit); err != nil {
		return nil, fmt.Errorf("error listing inventory entries for %s: %w", locationID, err)
	}
	return entries, nil
}
