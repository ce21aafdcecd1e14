// Package service implements the account and profile lifecycle engines.
package service

import (
	"time"

	"github.com/stash-tracker/internal/types"
)

// Transport models exchanged with the routing layer. They carry the stable
// client identifiers and never the internal storage keys.

// AccountModel is the transport representation of an account
type AccountModel struct {
	ClientID string                 `json:"clientId"`
	Name     string                 `json:"name"`
	Role     types.AccountRole      `json:"role"`
	Verified bool                   `json:"verified"`
	Version  string                 `json:"version"`
	Profiles []SnapshotProfileModel `json:"profiles,omitempty"`
}

// SnapshotProfileModel is the transport representation of a snapshot profile
type SnapshotProfileModel struct {
	ClientID     string          `json:"clientId"`
	Name         string          `json:"name"`
	ActiveLeague string          `json:"activeLeague"`
	PriceLeague  string          `json:"priceLeague"`
	Active       bool            `json:"active"`
	Created      time.Time       `json:"created"`
	Snapshots    []SnapshotModel `json:"snapshots,omitempty"`
}

// SnapshotModel is the transport representation of a snapshot
type SnapshotModel struct {
	ClientID   string    `json:"clientId"`
	Created    time.Time `json:"created"`
	TotalValue float64   `json:"totalValue"`
	ItemCount  int       `json:"itemCount"`
}

// ConnectionModel is the transport representation of a client connection
type ConnectionModel struct {
	ConnectionID string    `json:"connectionId"`
	InstanceName string    `json:"instanceName"`
	Created      time.Time `json:"created"`
}
