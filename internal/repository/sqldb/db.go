package sqldb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/config"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

var (
	dbInstance *DB
	dbErr      error
	once       sync.Once
)

// NewDB opens the configured database once per process and creates the schema.
func NewDB(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	once.Do(func() {
		dsn, err := cfg.DSN()
		if err != nil {
			dbErr = err
			return
		}
		dbInstance, dbErr = Open(ctx, cfg.Driver, dsn)
	})

	return dbInstance, dbErr
}

// Open connects with the given driver ("postgres", "pgx" or "sqlite3") and
// migrates the schema.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	conn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", driver, err)
	}

	if driver == "sqlite3" {
		// one writer at a time; in-memory databases live per connection
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	db := &DB{
		DB:  conn,
		sem: semaphore.NewWeighted(10), // Limit to 10 concurrent transactions
	}

	if err := db.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Repositories returns the sqlx-backed implementation of every store.
func (db *DB) Repositories() repository.Repositories {
	return repository.Repositories{
		Locations:    &locationRepository{db: db},
		Inventory:    &inventoryRepository{db: db},
		Demographics: &demographicsRepository{db: db},
		Users:        &userRepository{db: db},
	}
}

// WithTx executes a function within a transaction
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}
