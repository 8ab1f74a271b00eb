package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository"
)

// The EPSP configuration is a single row.
const demographicsRowID = 1

type demographicsRepository struct {
	db *DB
}

func NewDemographicsRepository(db *DB) repository.DemographicsRepository {
	return &demographicsRepository{db: db}
}

func (r *demographicsRepository) GetDemographics(ctx context.Context) (domain.Demographics, error) {
	query := r.db.Rebind(`
		SELECT epsp_name, nbr_polyclinique, pop_total, cible_2_11m, cible_12_59m
		FROM demographics
		WHERE id = ?
	`)

	var demo domain.Demographics
	err := r.db.GetContext(ctx, &demo, query, demographicsRowID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Demographics{}, nil
	}
	if err != nil {
		return domain.Demographics{}, fmt.Errorf("error getting demographics: %w", err)
	}
	return demo.WithTotal(), nil
}

func (r *demographicsRepository) SaveDemographics(ctx context.Context, demo domain.Demographics) error {
	query := r.db.Rebind(`
		INSERT INTO demographics (id, epsp_name, nbr_polyclinique, pop_total, cible_2_11m, cible_12_59m)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			epsp_name = excluded.epsp_name,
			nbr_polyclinique = excluded.nbr_polyclinique,
			pop_total = excluded.pop_total,
			cible_2_11m = excluded.cible_2_11m,
			cible_12_59m = excluded.cible_12_59m
	`)

	_, err := r.db.ExecContext(ctx, query,
		demographicsRowID,
		demo.EPSPName,
		demo.NbrPolyclinique,
		demo.PopTotal,
		demo.Cible2To11m,
		demo.Cible12To59m,
	)
	if err != nil {
		return fmt.Errorf("error saving demographics: %w", err)
	}
	return nil
}
