package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stash-tracker/internal/models"
)

// SnapshotRepository handles snapshot persistence. Snapshots are opaque to
// the lifecycle engines; this repository covers capture ingestion and the
// history reads backing the profile queries.
type SnapshotRepository struct {
	db *PostgresDB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *PostgresDB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create stores a snapshot under its profile
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *models.Snapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.ClientID == "" {
		snapshot.ClientID = uuid.New().String()
	}
	if snapshot.Created.IsZero() {
		snapshot.Created = time.Now().UTC()
	}

	query := `
		INSERT INTO snapshots (id, client_id, profile_id, created, total_value, item_count)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		snapshot.ID,
		snapshot.ClientID,
		snapshot.ProfileID,
		snapshot.Created,
		snapshot.TotalValue,
		snapshot.ItemCount,
	)

	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	return nil
}

// ListByProfileID retrieves a profile's snapshots in capture order
func (r *SnapshotRepository) ListByProfileID(ctx context.Context, profileID string) ([]*models.Snapshot, error) {
	return listSnapshotsByProfileID(ctx, r.db, profileID)
}

// listSnapshotsByProfileID is shared with the profile repository's history
// loading so both read paths stay in sync on ordering and column set.
func listSnapshotsByProfileID(ctx context.Context, db *PostgresDB, profileID string) ([]*models.Snapshot, error) {
	query := `
		SELECT id, client_id, profile_id, created, total_value, item_count
		FROM snapshots
		WHERE profile_id = $1
		ORDER BY created
	`

	rows, err := db.Pool().Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		var snapshot models.Snapshot
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.ClientID,
			&snapshot.ProfileID,
			&snapshot.Created,
			&snapshot.TotalValue,
			&snapshot.ItemCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, &snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}
