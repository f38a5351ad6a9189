package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"ops-hub/internal/domain"
)

// ProfileRepository stores user-profile records keyed by the identity id
// assigned by the identity provider.
// Implements domain.ProfileStore.
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a profile repository over the given pool.
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// ReadProfile loads the profile record for an identity id.
func (r *ProfileRepository) ReadProfile(ctx context.Context, identityID string) (*domain.Profile, error) {
	query := `
		SELECT email, role, display_name, company_id, created_at, updated_at
		FROM profiles
		WHERE identity_id = $1
	`

	var (
		profile domain.Profile
		role    string
	)
	err := r.db.QueryRow(ctx, query, identityID).Scan(
		&profile.Email,
		&role,
		&profile.DisplayName,
		&profile.CompanyID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("stored profile for %s: %w", identityID, err)
	}
	profile.Role = parsed

	return &profile, nil
}

// WriteProfile creates or replaces the profile record for an identity id.
func (r *ProfileRepository) WriteProfile(ctx context.Context, identityID string, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (identity_id, email, role, display_name, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (identity_id) DO UPDATE
		SET email = EXCLUDED.email,
		    role = EXCLUDED.role,
		    display_name = EXCLUDED.display_name,
		    company_id = EXCLUDED.company_id,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		identityID,
		profile.Email,
		string(profile.Role),
		profile.DisplayName,
		profile.CompanyID,
		profile.CreatedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProfileWrite, err)
	}
	return nil
}
