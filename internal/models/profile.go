package models

import (
	"time"
)

// DefaultProfileName is the protected default profile created for every new
// account by the client. It is never introduced through an edit-merge, only
// through explicit creation paths.
const DefaultProfileName = "Profile 1"

// SnapshotProfile represents one tracked configuration under an account,
// e.g. one game client/league pairing. At most one profile per account has
// Active set; the ProfileService enforces that invariant.
type SnapshotProfile struct {
	ID           string    `json:"id" db:"id"`
	ClientID     string    `json:"clientId" db:"client_id"`
	AccountID    string    `json:"accountId" db:"account_id"`
	Name         string    `json:"name" db:"name"`
	ActiveLeague string    `json:"activeLeague" db:"active_league"`
	PriceLeague  string    `json:"priceLeague" db:"price_league"`
	Active       bool      `json:"active" db:"active"`
	Created      time.Time `json:"created" db:"created"`

	// Snapshots is populated only by queries that include them
	Snapshots []*Snapshot `json:"snapshots,omitempty"`
}
