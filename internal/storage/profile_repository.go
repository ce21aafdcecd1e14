package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stash-tracker/internal/models"
)

// ProfileRepository handles snapshot profile persistence
type ProfileRepository struct {
	db *PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *PostgresDB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, client_id, account_id, name, active_league, price_league, active, created`

func scanProfile(row pgx.Row) (*models.SnapshotProfile, error) {
	var profile models.SnapshotProfile
	err := row.Scan(
		&profile.ID,
		&profile.ClientID,
		&profile.AccountID,
		&profile.Name,
		&profile.ActiveLeague,
		&profile.PriceLeague,
		&profile.Active,
		&profile.Created,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &profile, nil
}

// GetByClientID retrieves a profile by its client identifier, without account
// scoping. Returns nil when no such profile exists.
func (r *ProfileRepository) GetByClientID(ctx context.Context, clientID string) (*models.SnapshotProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM snapshot_profiles
		WHERE client_id = $1
	`

	return scanProfile(r.db.Pool().QueryRow(ctx, query, clientID))
}

// GetByClientIDWithSnapshots retrieves a profile by client identifier
// including its snapshot history, regardless of active state.
func (r *ProfileRepository) GetByClientIDWithSnapshots(ctx context.Context, clientID string) (*models.SnapshotProfile, error) {
	profile, err := r.GetByClientID(ctx, clientID)
	if err != nil || profile == nil {
		return profile, err
	}

	if err := r.loadSnapshots(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// GetActiveByAccountClientID retrieves the single active profile of the
// account identified by its client identifier, including snapshot history.
// Returns nil when the account has no active profile, which is a valid state.
func (r *ProfileRepository) GetActiveByAccountClientID(ctx context.Context, accountClientID string) (*models.SnapshotProfile, error) {
	query := `
		SELECT p.id, p.client_id, p.account_id, p.name, p.active_league, p.price_league, p.active, p.created
		FROM snapshot_profiles p
		JOIN accounts a ON a.id = p.account_id
		WHERE a.client_id = $1 AND p.active
	`

	profile, err := scanProfile(r.db.Pool().QueryRow(ctx, query, accountClientID))
	if err != nil || profile == nil {
		return profile, err
	}

	if err := r.loadSnapshots(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// loadSnapshots populates the profile's snapshot history in capture order
func (r *ProfileRepository) loadSnapshots(ctx context.Context, profile *models.SnapshotProfile) error {
	snapshots, err := listSnapshotsByProfileID(ctx, r.db, profile.ID)
	if err != nil {
		return err
	}
	profile.Snapshots = snapshots
	return nil
}

// Create creates a new profile under its account
func (r *ProfileRepository) Create(ctx context.Context, profile *models.SnapshotProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.ClientID == "" {
		profile.ClientID = uuid.New().String()
	}
	if profile.Created.IsZero() {
		profile.Created = time.Now().UTC()
	}

	query := `
		INSERT INTO snapshot_profiles (id, client_id, account_id, name, active_league, price_league, active, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		profile.ID,
		profile.ClientID,
		profile.AccountID,
		profile.Name,
		profile.ActiveLeague,
		profile.PriceLeague,
		profile.Active,
		profile.Created,
	)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// Update persists the profile's merge-updatable scalar fields. Identity
// (client_id), ownership, the active flag and the snapshot history are never
// touched by this path.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.SnapshotProfile) error {
	query := `
		UPDATE snapshot_profiles
		SET name = $2, active_league = $3, price_league = $4
		WHERE id = $1
	`

	result, err := r.db.Pool().Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.ActiveLeague,
		profile.PriceLeague,
	)

	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", profile.ID)
	}

	return nil
}

// Delete deletes a profile by ID. Its snapshots are removed by the
// ON DELETE CASCADE constraint.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM snapshot_profiles WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}

	return nil
}

// DeleteByAccountID removes every profile owned by an account in one
// statement. Deleting zero rows is not an error.
func (r *ProfileRepository) DeleteByAccountID(ctx context.Context, accountID string) error {
	query := `DELETE FROM snapshot_profiles WHERE account_id = $1`

	if _, err := r.db.Pool().Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("failed to delete profiles: %w", err)
	}

	return nil
}

// ReplaceActive deactivates every profile owned by the account and then
// activates the target, inside a single transaction so concurrent readers
// never observe two active profiles across the commit boundary.
func (r *ProfileRepository) ReplaceActive(ctx context.Context, accountID, profileID string) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	deactivate := `UPDATE snapshot_profiles SET active = false WHERE account_id = $1`
	if _, err := tx.Exec(ctx, deactivate, accountID); err != nil {
		return fmt.Errorf("failed to deactivate profiles: %w", err)
	}

	activate := `UPDATE snapshot_profiles SET active = true WHERE id = $1 AND account_id = $2`
	result, err := tx.Exec(ctx, activate, profileID, accountID)
	if err != nil {
		return fmt.Errorf("failed to activate profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", profileID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile activation: %w", err)
	}

	return nil
}
