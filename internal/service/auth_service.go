package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/vaxstock/backend-go/internal/auth"
	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUser        = errors.New("invalid user")
)

type AuthService struct {
	users     repository.UserRepository
	locations repository.LocationRepository
}

func NewAuthService(users repository.UserRepository, locations repository.LocationRepository) *AuthService {
	return &AuthService{users: users, locations: locations}
}

// Login checks the password and returns the session for the account. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUser(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		log.Info().Str("username", username).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}

	session := user.Session()
	return &session, nil
}

// CreateUser stores or replaces an account. Staff accounts must point at an
// existing location.
func (s *AuthService) CreateUser(ctx context.Context, username, password string, role domain.Role, locationID domain.FacilityID) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidUser)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, role)
	}
	if role == domain.RoleUser && locationID == "" {
		return fmt.Errorf("%w: role %s needs a location", ErrInvalidUser, role)
	}
	if locationID != "" {
		if _, err := s.locations.GetLocation(ctx, locationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownLocation, locationID)
			}
			return err
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	return s.users.UpsertUser(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		LocationID:   locationID,
	})
}
