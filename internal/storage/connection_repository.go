package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stash-tracker/internal/models"
)

// ConnectionRepository handles client connection records
type ConnectionRepository struct {
	db *PostgresDB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *PostgresDB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// GetByAccountName retrieves the connection record for the named account.
// Returns nil when the account has no registered connection.
func (r *ConnectionRepository) GetByAccountName(ctx context.Context, accountName string) (*models.Connection, error) {
	query := `
		SELECT c.connection_id, c.account_id, c.instance_name, c.created
		FROM connections c
		JOIN accounts a ON a.id = c.account_id
		WHERE a.name = $1
	`

	var connection models.Connection
	err := r.db.Pool().QueryRow(ctx, query, accountName).Scan(
		&connection.ConnectionID,
		&connection.AccountID,
		&connection.InstanceName,
		&connection.Created,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}

	return &connection, nil
}
