package models

import (
	"time"
)

// Connection represents a live client connection registered for an account.
type Connection struct {
	ConnectionID string    `json:"connectionId" db:"connection_id"`
	AccountID    string    `json:"accountId" db:"account_id"`
	InstanceName string    `json:"instanceName" db:"instance_name"`
	Created      time.Time `json:"created" db:"created"`
}
