// Package models provides data models for the stash tracker system.
package models

import (
	"time"

	"github.com/stash-tracker/internal/types"
)

// Account represents one game-trading identity. The name is the canonical
// external lookup key; ClientID is the stable identifier used cross-service.
type Account struct {
	ID        string            `json:"id" db:"id"`
	ClientID  string            `json:"clientId" db:"client_id"`
	Name      string            `json:"name" db:"name"`
	Role      types.AccountRole `json:"role" db:"role"`
	Verified  bool              `json:"verified" db:"verified"`
	Version   string            `json:"version" db:"version"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`

	// Profiles is populated only by queries that include them
	Profiles []*SnapshotProfile `json:"profiles,omitempty"`
}

// ProfileByClientID returns the owned profile with the given client identifier,
// or nil if no such profile exists.
func (a *Account) ProfileByClientID(clientID string) *SnapshotProfile {
	for _, profile := range a.Profiles {
		if profile.ClientID == clientID {
			return profile
		}
	}
	return nil
}
