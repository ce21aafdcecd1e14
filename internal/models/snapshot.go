package models

import (
	"time"
)

// Snapshot represents a point-in-time valuation capture belonging to exactly
// one profile. Valuation details are computed client-side; the backend only
// stores the aggregates and guarantees cascade-on-profile-removal.
type Snapshot struct {
	ID         string    `json:"id" db:"id"`
	ClientID   string    `json:"clientId" db:"client_id"`
	ProfileID  string    `json:"profileId" db:"profile_id"`
	Created    time.Time `json:"created" db:"created"`
	TotalValue float64   `json:"totalValue" db:"total_value"`
	ItemCount  int       `json:"itemCount" db:"item_count"`
}
