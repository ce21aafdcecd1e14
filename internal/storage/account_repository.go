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

// AccountRepository handles account data persistence
type AccountRepository struct {
	db *PostgresDB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *PostgresDB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, client_id, name, role, verified, version, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.ClientID,
		&account.Name,
		&account.Role,
		&account.Verified,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &account, nil
}

// GetByName retrieves an account by its name. Returns nil when no account
// with that name exists.
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE name = $1
	`

	return scanAccount(r.db.Pool().QueryRow(ctx, query, name))
}

// GetByNameWithProfiles retrieves an account by name including its profile
// collection. Returns nil when no account with that name exists.
func (r *AccountRepository) GetByNameWithProfiles(ctx context.Context, name string) (*models.Account, error) {
	account, err := r.GetByName(ctx, name)
	if err != nil || account == nil {
		return account, err
	}

	if err := r.loadProfiles(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetByClientIDWithProfiles retrieves an account by its stable client
// identifier including its profile collection. Returns nil when absent.
func (r *AccountRepository) GetByClientIDWithProfiles(ctx context.Context, clientID string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE client_id = $1
	`

	account, err := scanAccount(r.db.Pool().QueryRow(ctx, query, clientID))
	if err != nil || account == nil {
		return account, err
	}

	if err := r.loadProfiles(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// loadProfiles populates the account's profile collection
func (r *AccountRepository) loadProfiles(ctx context.Context, account *models.Account) error {
	query := `
		SELECT id, client_id, account_id, name, active_league, price_league, active, created
		FROM snapshot_profiles
		WHERE account_id = $1
		ORDER BY created
	`

	rows, err := r.db.Pool().Query(ctx, query, account.ID)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var profile models.SnapshotProfile
		err := rows.Scan(
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
			return fmt.Errorf("failed to scan profile: %w", err)
		}
		account.Profiles = append(account.Profiles, &profile)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating profiles: %w", err)
	}

	return nil
}

// Create creates a new account. Server-assigned fields (id, timestamps) are
// written back onto the model. Name uniqueness is enforced by the database.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.ClientID == "" {
		account.ClientID = uuid.New().String()
	}

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	query := `
		INSERT INTO accounts (id, client_id, name, role, verified, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		account.ID,
		account.ClientID,
		account.Name,
		account.Role,
		account.Verified,
		account.Version,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// UpdateWithProfiles persists the account's scalar fields and its merged
// profile collection in a single transaction. Profiles without an ID are
// inserted; the rest are updated in place. This is the unit-of-work boundary
// for account edits: either every row lands or none do.
func (r *AccountRepository) UpdateWithProfiles(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now().UTC()

	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	updateAccount := `
		UPDATE accounts
		SET role = $2, verified = $3, version = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, updateAccount,
		account.ID,
		account.Role,
		account.Verified,
		account.Version,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", account.ID)
	}

	insertProfile := `
		INSERT INTO snapshot_profiles (id, client_id, account_id, name, active_league, price_league, active, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	updateProfile := `
		UPDATE snapshot_profiles
		SET name = $2, active_league = $3, price_league = $4
		WHERE id = $1
	`

	for _, profile := range account.Profiles {
		if profile.ID == "" {
			profile.ID = uuid.New().String()
			profile.AccountID = account.ID
			if profile.Created.IsZero() {
				profile.Created = time.Now().UTC()
			}
			_, err = tx.Exec(ctx, insertProfile,
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
				return fmt.Errorf("failed to insert profile %s: %w", profile.ClientID, err)
			}
		} else {
			_, err = tx.Exec(ctx, updateProfile,
				profile.ID,
				profile.Name,
				profile.ActiveLeague,
				profile.PriceLeague,
			)
			if err != nil {
				return fmt.Errorf("failed to update profile %s: %w", profile.ClientID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account update: %w", err)
	}

	return nil
}

// Delete deletes an account by ID. Owned profiles and their snapshots are
// removed by the ON DELETE CASCADE constraints.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", id)
	}

	return nil
}
