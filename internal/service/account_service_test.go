package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stash-tracker/internal/models"
	"github.com/stash-tracker/internal/types"
)

// Mock repositories for testing

type mockAccountRepository struct {
	accounts map[string]*models.Account // keyed by name

	created []*models.Account
	updated []*models.Account
	deleted []string

	failWith error
}

func (m *mockAccountRepository) GetByName(ctx context.Context, name string) (*models.Account, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.accounts[name], nil
}

func (m *mockAccountRepository) GetByNameWithProfiles(ctx context.Context, name string) (*models.Account, error) {
	return m.GetByName(ctx, name)
}

func (m *mockAccountRepository) GetByClientIDWithProfiles(ctx context.Context, clientID string) (*models.Account, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, account := range m.accounts {
		if account.ClientID == clientID {
			return account, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if m.failWith != nil {
		return m.failWith
	}
	if account.ID == "" {
		account.ID = "acc-" + account.Name
	}
	if account.ClientID == "" {
		account.ClientID = "client-" + account.Name
	}
	m.created = append(m.created, account)
	m.accounts[account.Name] = account
	return nil
}

func (m *mockAccountRepository) UpdateWithProfiles(ctx context.Context, account *models.Account) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.updated = append(m.updated, account)
	return nil
}

func (m *mockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.deleted = append(m.deleted, id)
	for name, account := range m.accounts {
		if account.ID == id {
			delete(m.accounts, name)
		}
	}
	return nil
}

type mockConnectionRepository struct {
	connections map[string]*models.Connection // keyed by account name
}

func (m *mockConnectionRepository) GetByAccountName(ctx context.Context, accountName string) (*models.Connection, error) {
	return m.connections[accountName], nil
}

func newTestAccountRepo() *mockAccountRepository {
	return &mockAccountRepository{accounts: map[string]*models.Account{}}
}

func playerAccount(name string, profiles ...*models.SnapshotProfile) *models.Account {
	return &models.Account{
		ID:       "acc-" + name,
		ClientID: "client-" + name,
		Name:     name,
		Role:     types.RolePlayer,
		Verified: true,
		Version:  "2.1.0",
		Profiles: profiles,
	}
}

func testProfile(clientID, name string, active bool) *models.SnapshotProfile {
	return &models.SnapshotProfile{
		ID:           "prof-" + clientID,
		ClientID:     clientID,
		Name:         name,
		ActiveLeague: "Settlers",
		PriceLeague:  "Settlers",
		Active:       active,
		Created:      time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetAccount(t *testing.T) {
	repo := newTestAccountRepo()
	repo.accounts["alice"] = playerAccount("alice")

	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	account, err := svc.GetAccount(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if account.Name != "alice" {
		t.Errorf("Expected name 'alice', got '%s'", account.Name)
	}
	if account.ClientID != "client-alice" {
		t.Errorf("Expected client id 'client-alice', got '%s'", account.ClientID)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	svc := NewAccountService(newTestAccountRepo(), &mockConnectionRepository{}, nil)

	_, err := svc.GetAccount(context.Background(), "missing")
	if err == nil {
		t.Fatal("Expected error for missing account")
	}

	var serviceErr *types.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("Expected ServiceError, got %T", err)
	}
	if serviceErr.Code != types.CodeAccountNotFound {
		t.Errorf("Expected code %s, got %s", types.CodeAccountNotFound, serviceErr.Code)
	}
}

func TestGetAccount_RepositoryFailure(t *testing.T) {
	repo := newTestAccountRepo()
	repo.failWith = errors.New("connection refused")

	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	_, err := svc.GetAccount(context.Background(), "alice")
	if err == nil {
		t.Fatal("Expected error")
	}
	if types.IsNotFound(err) {
		t.Error("Persistence failure must not surface as not-found")
	}
}

func TestAddAccount(t *testing.T) {
	repo := newTestAccountRepo()
	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	account, err := svc.AddAccount(context.Background(), &AccountModel{Name: "bob"})
	if err != nil {
		t.Fatalf("Failed to add account: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("Expected 1 created account, got %d", len(repo.created))
	}
	if account.Role != types.RolePlayer {
		t.Errorf("Expected default role %s, got %s", types.RolePlayer, account.Role)
	}
	if account.ClientID == "" {
		t.Error("Expected server-assigned client id")
	}
}

func TestAddAccount_MissingName(t *testing.T) {
	svc := NewAccountService(newTestAccountRepo(), &mockConnectionRepository{}, nil)

	_, err := svc.AddAccount(context.Background(), &AccountModel{})
	if err == nil {
		t.Fatal("Expected error for missing name")
	}

	var serviceErr *types.ServiceError
	if !errors.As(err, &serviceErr) || serviceErr.Code != types.CodeInvalidInput {
		t.Errorf("Expected %s, got %v", types.CodeInvalidInput, err)
	}
}

func TestEditAccount_MergesScalarFields(t *testing.T) {
	repo := newTestAccountRepo()
	repo.accounts["alice"] = playerAccount("alice")

	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	updated, err := svc.EditAccount(context.Background(), &AccountModel{
		Name:     "alice",
		Verified: false,
		Version:  "2.2.0",
	})
	if err != nil {
		t.Fatalf("Failed to edit account: %v", err)
	}

	if updated.Version != "2.2.0" {
		t.Errorf("Expected version '2.2.0', got '%s'", updated.Version)
	}
	if updated.Verified {
		t.Error("Expected verified to be overwritten to false")
	}
	if updated.ClientID != "client-alice" {
		t.Error("Client id must survive an edit unchanged")
	}
	if len(repo.updated) != 1 {
		t.Fatalf("Expected exactly one persist, got %d", len(repo.updated))
	}
}

func TestEditAccount_NotFound(t *testing.T) {
	svc := NewAccountService(newTestAccountRepo(), &mockConnectionRepository{}, nil)

	_, err := svc.EditAccount(context.Background(), &AccountModel{Name: "missing"})
	if !types.IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
}

func TestEditAccount_MergesExistingProfileInPlace(t *testing.T) {
	existing := testProfile("p1", "League start", true)
	existing.Snapshots = []*models.Snapshot{{ID: "snap-1", ClientID: "snap-c1", ProfileID: existing.ID}}

	repo := newTestAccountRepo()
	repo.accounts["alice"] = playerAccount("alice", existing)

	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	_, err := svc.EditAccount(context.Background(), &AccountModel{
		Name: "alice",
		Profiles: []SnapshotProfileModel{
			{ClientID: "p1", Name: "Renamed", ActiveLeague: "Necropolis", PriceLeague: "Necropolis", Active: false},
		},
	})
	if err != nil {
		t.Fatalf("Failed to edit account: %v", err)
	}

	account := repo.accounts["alice"]
	if len(account.Profiles) != 1 {
		t.Fatalf("Expected 1 profile, got %d", len(account.Profiles))
	}

	merged := account.Profiles[0]
	if merged.Name != "Renamed" || merged.ActiveLeague != "Necropolis" {
		t.Errorf("Expected scalar fields merged, got %+v", merged)
	}
	if merged.ID != "prof-p1" || merged.ClientID != "p1" {
		t.Error("Profile identity must be preserved across a merge")
	}
	if !merged.Active {
		t.Error("Merge must never clear the active flag")
	}
	if len(merged.Snapshots) != 1 {
		t.Error("Merge must preserve the snapshot history")
	}
}

func TestEditAccount_AppendsNewProfileInactive(t *testing.T) {
	repo := newTestAccountRepo()
	repo.accounts["alice"] = playerAccount("alice", testProfile("p1", "Existing", true))

	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	_, err := svc.EditAccount(context.Background(), &AccountModel{
		Name: "alice",
		Profiles: []SnapshotProfileModel{
			{ClientID: "p2", Name: "Fresh", Active: true},
		},
	})
	if err != nil {
		t.Fatalf("Failed to edit account: %v", err)
	}

	account := repo.accounts["alice"]
	if len(account.Profiles) != 2 {
		t.Fatalf("Expected 2 profiles, got %d", len(account.Profiles))
	}

	appended := account.Profiles[1]
	if appended.ID != "" {
		t.Error("New profiles must carry an empty storage id for insertion")
	}
	if appended.Active {
		t.Error("New profiles introduced by merge must start inactive")
	}
}

func TestEditAccount_SkipsDefaultProfileOnCreate(t *testing.T) {
	repo := newTestAccountRepo()
	repo.accounts["alice"] = playerAccount("alice", testProfile("p1", "Existing", false))

	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	_, err := svc.EditAccount(context.Background(), &AccountModel{
		Name: "alice",
		Profiles: []SnapshotProfileModel{
			{ClientID: "p-default", Name: models.DefaultProfileName},
		},
	})
	if err != nil {
		t.Fatalf("Failed to edit account: %v", err)
	}

	if len(repo.accounts["alice"].Profiles) != 1 {
		t.Error("Merge must not introduce another default profile")
	}
}

func TestEditAccount_MergesMatchedDefaultProfile(t *testing.T) {
	repo := newTestAccountRepo()
	repo.accounts["alice"] = playerAccount("alice", testProfile("p1", models.DefaultProfileName, false))

	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	// Matching client ids merge in place even when named like the default.
	_, err := svc.EditAccount(context.Background(), &AccountModel{
		Name: "alice",
		Profiles: []SnapshotProfileModel{
			{ClientID: "p1", Name: models.DefaultProfileName, ActiveLeague: "Necropolis"},
		},
	})
	if err != nil {
		t.Fatalf("Failed to edit account: %v", err)
	}

	if repo.accounts["alice"].Profiles[0].ActiveLeague != "Necropolis" {
		t.Error("Existing default profile must still merge by client id")
	}
}

func TestEditAccount_NilProfilesLeavesCollectionUntouched(t *testing.T) {
	repo := newTestAccountRepo()
	repo.accounts["logger"] = &models.Account{
		ID:       "acc-logger",
		ClientID: "client-logger",
		Name:     "logger",
		Role:     types.RoleLogger,
	}
	repo.accounts["alice"] = playerAccount("alice", testProfile("p1", "Existing", true))

	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	// Logger accounts sync without a profile collection at all.
	if _, err := svc.EditAccount(context.Background(), &AccountModel{Name: "logger", Version: "2.2.0"}); err != nil {
		t.Fatalf("Failed to edit logger account: %v", err)
	}

	if _, err := svc.EditAccount(context.Background(), &AccountModel{Name: "alice", Version: "2.2.0"}); err != nil {
		t.Fatalf("Failed to edit account: %v", err)
	}
	if len(repo.accounts["alice"].Profiles) != 1 {
		t.Error("A nil profile list must not modify the existing collection")
	}
}

func TestRemoveAccount(t *testing.T) {
	repo := newTestAccountRepo()
	repo.accounts["alice"] = playerAccount("alice", testProfile("p1", "Existing", true))

	svc := NewAccountService(repo, &mockConnectionRepository{}, nil)

	removed, err := svc.RemoveAccount(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Failed to remove account: %v", err)
	}

	if removed.Name != "alice" || len(removed.Profiles) != 1 {
		t.Error("Expected the pre-removal account state to be returned")
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "acc-alice" {
		t.Errorf("Expected delete of 'acc-alice', got %v", repo.deleted)
	}
}

func TestRemoveAccount_NotFound(t *testing.T) {
	svc := NewAccountService(newTestAccountRepo(), &mockConnectionRepository{}, nil)

	_, err := svc.RemoveAccount(context.Background(), "missing")
	if !types.IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
}

func TestGetConnection(t *testing.T) {
	connRepo := &mockConnectionRepository{
		connections: map[string]*models.Connection{
			"alice": {ConnectionID: "conn-1", AccountID: "acc-alice", InstanceName: "desktop"},
		},
	}

	svc := NewAccountService(newTestAccountRepo(), connRepo, nil)

	connection, err := svc.GetConnection(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Failed to get connection: %v", err)
	}
	if connection.ConnectionID != "conn-1" || connection.InstanceName != "desktop" {
		t.Errorf("Unexpected connection: %+v", connection)
	}

	_, err = svc.GetConnection(context.Background(), "bob")
	if !types.IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
}
