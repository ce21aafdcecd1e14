package service

import (
	"fmt"

	"github.com/stash-tracker/internal/types"
)

// Typed not-found signals. Persistence failures are wrapped and propagated
// as plain errors; these are the only error kinds the engines raise
// themselves.

func errAccountNotFound(name string) *types.ServiceError {
	return &types.ServiceError{
		Code:    types.CodeAccountNotFound,
		Message: fmt.Sprintf("account not found: %s", name),
		Details: map[string]interface{}{
			"account": name,
		},
	}
}

func errProfileNotFound(clientID string) *types.ServiceError {
	return &types.ServiceError{
		Code:    types.CodeProfileNotFound,
		Message: fmt.Sprintf("profile not found: %s", clientID),
		Details: map[string]interface{}{
			"profileId": clientID,
		},
	}
}

func errConnectionNotFound(accountName string) *types.ServiceError {
	return &types.ServiceError{
		Code:    types.CodeConnectionNotFound,
		Message: fmt.Sprintf("no connection registered for account: %s", accountName),
		Details: map[string]interface{}{
			"account": accountName,
		},
	}
}

func errNoActiveProfile(accountClientID string) *types.ServiceError {
	return &types.ServiceError{
		Code:    types.CodeNoActiveProfile,
		Message: fmt.Sprintf("account has no active profile: %s", accountClientID),
		Details: map[string]interface{}{
			"accountId": accountClientID,
		},
	}
}

func errInvalidInput(message string) *types.ServiceError {
	return &types.ServiceError{
		Code:    types.CodeInvalidInput,
		Message: message,
	}
}
