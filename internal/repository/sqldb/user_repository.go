package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

type userRow struct {
	Username     string         `db:"username"`
	PasswordHash string         `db:"password_hash"`
	Role         string         `db:"role"`
	LocationID   sql.NullString `db:"location_id"`
}

func (r *userRepository) GetUser(ctx context.Context, username string) (*domain.User, error) {
	query := r.db.Rebind(`
		SELECT username, password_hash, role, location_id
		FROM users
		WHERE username = ?
	`)

	var row userRow
	err := r.db.GetContext(ctx, &row, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user %s: %w", username, err)
	}

	return &domain.User{
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
		LocationID:   domain.FacilityID(row.LocationID.String),
	}, nil
}

func (r *userRepository) UpsertUser(ctx context.Context, user domain.User) error {
	query := r.db.Rebind(`
		INSERT INTO users (username, password_hash, role, location_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = excluded.password_hash,
			role = excluded.role,
			location_id = excluded.location_id
	`)

	location := sql.NullString{String: string(user.LocationID), Valid: user.LocationID != ""}
	if _, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, string(user.Role), location); err != nil {
		return fmt.Errorf("error upserting user %s: %w", user.Username, err)
	}
	return nil
}
