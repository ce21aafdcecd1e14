package service

import (
	"context"
	"fmt"

	"github.com/stash-tracker/internal/models"
)

// Repository interfaces for dependency injection

// AccountRepository interface for account data operations. Reads return a
// nil account when no row matches, so callers can distinguish a not-found
// condition from a persistence failure.
type AccountRepository interface {
	GetByName(ctx context.Context, name string) (*models.Account, error)
	GetByNameWithProfiles(ctx context.Context, name string) (*models.Account, error)
	GetByClientIDWithProfiles(ctx context.Context, clientID string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	UpdateWithProfiles(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
}

// ConnectionRepository interface for connection lookups
type ConnectionRepository interface {
	GetByAccountName(ctx context.Context, accountName string) (*models.Connection, error)
}

// AccountService enforces the account lifecycle: creation, field-level edit
// with profile merge, and removal with cascading cleanup.
type AccountService struct {
	accountRepo    AccountRepository
	connectionRepo ConnectionRepository
	cache          Cache
}

// NewAccountService creates a new account service. The cache is optional;
// pass nil to disable read caching.
func NewAccountService(accountRepo AccountRepository, connectionRepo ConnectionRepository, cache Cache) *AccountService {
	return &AccountService{
		accountRepo:    accountRepo,
		connectionRepo: connectionRepo,
		cache:          cache,
	}
}

// GetAccount retrieves an account by name
func (s *AccountService) GetAccount(ctx context.Context, name string) (*AccountModel, error) {
	account, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errAccountNotFound(name)
	}

	return toAccountModel(account), nil
}

// GetConnection retrieves the connection record registered for the named
// account
func (s *AccountService) GetConnection(ctx context.Context, accountName string) (*ConnectionModel, error) {
	connection, err := s.connectionRepo.GetByAccountName(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	if connection == nil {
		return nil, errConnectionNotFound(accountName)
	}

	return toConnectionModel(connection), nil
}

// AddAccount persists a new account and returns it with server-assigned
// fields filled in. Name uniqueness is enforced by the storage layer, not
// pre-checked here.
func (s *AccountService) AddAccount(ctx context.Context, model *AccountModel) (*AccountModel, error) {
	if model.Name == "" {
		return nil, errInvalidInput("account name is required")
	}

	account := newAccountEntity(model)
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to add account: %w", err)
	}

	return toAccountModel(account), nil
}

// EditAccount merges the model's scalar fields onto the existing account and
// upserts its profile list by client identifier. A nil profile list (the
// logger account variant) leaves the profile collection untouched. All
// changes land in a single persist.
func (s *AccountService) EditAccount(ctx context.Context, model *AccountModel) (*AccountModel, error) {
	account, err := s.accountRepo.GetByNameWithProfiles(ctx, model.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errAccountNotFound(model.Name)
	}

	mergeAccountFields(account, model)

	if model.Profiles != nil {
		MergeProfiles(account, model.Profiles, SkipDefaultProfile)
	}

	if err := s.accountRepo.UpdateWithProfiles(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.invalidateAccount(ctx, account)

	return toAccountModel(account), nil
}

// RemoveAccount deletes the named account. Profiles and snapshots are
// removed by the storage layer's cascade. The pre-removal state is returned.
func (s *AccountService) RemoveAccount(ctx context.Context, name string) (*AccountModel, error) {
	account, err := s.accountRepo.GetByNameWithProfiles(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errAccountNotFound(name)
	}

	if err := s.accountRepo.Delete(ctx, account.ID); err != nil {
		return nil, fmt.Errorf("failed to remove account: %w", err)
	}

	s.invalidateAccount(ctx, account)

	return toAccountModel(account), nil
}

// invalidateAccount drops every cached read affected by an account mutation.
// Cache errors are deliberately not surfaced: the database commit already
// happened and entries expire on their own.
func (s *AccountService) invalidateAccount(ctx context.Context, account *models.Account) {
	if s.cache == nil {
		return
	}

	keys := []string{
		s.cache.GenerateActiveProfileKey(account.ClientID),
		s.cache.GenerateProfileListKey(account.ClientID),
	}
	for _, profile := range account.Profiles {
		keys = append(keys, s.cache.GenerateProfileKey(profile.ClientID))
	}

	_ = s.cache.Delete(ctx, keys...)
}
