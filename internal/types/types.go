// Package types provides common type definitions for the stash tracker system.
package types

// AccountRole represents the kind of account
type AccountRole string

const (
	// RolePlayer represents a regular trading account with snapshot profiles
	RolePlayer AccountRole = "player"
	// RoleLogger represents a logger-only account, which owns no profiles
	RoleLogger AccountRole = "logger"
)

// Error codes returned by the lifecycle services
const (
	// CodeAccountNotFound indicates the named account does not exist
	CodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	// CodeProfileNotFound indicates the profile does not exist within the scoped account
	CodeProfileNotFound = "PROFILE_NOT_FOUND"
	// CodeConnectionNotFound indicates no connection record exists for the account
	CodeConnectionNotFound = "CONNECTION_NOT_FOUND"
	// CodeNoActiveProfile indicates the account has no active profile (a valid state)
	CodeNoActiveProfile = "NO_ACTIVE_PROFILE"
	// CodeInvalidInput indicates a malformed or incomplete request
	CodeInvalidInput = "INVALID_INPUT"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a ServiceError carrying a not-found code.
func IsNotFound(err error) bool {
	serviceErr, ok := err.(*ServiceError)
	if !ok {
		return false
	}
	switch serviceErr.Code {
	case CodeAccountNotFound, CodeProfileNotFound, CodeConnectionNotFound, CodeNoActiveProfile:
		return true
	default:
		return false
	}
}
