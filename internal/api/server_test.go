package api

import (
	"context"
	"time"

	"github.com/stash-tracker/internal/service"
	"github.com/stash-tracker/internal/types"
)

// Mock services backing the handler tests. They hold transport models
// directly; repository behavior is covered by the service tests.

type mockAccountService struct {
	accounts map[string]*service.AccountModel
}

func (m *mockAccountService) GetAccount(ctx context.Context, name string) (*service.AccountModel, error) {
	if account, ok := m.accounts[name]; ok {
		return account, nil
	}
	return nil, &types.ServiceError{Code: types.CodeAccountNotFound, Message: "account not found"}
}

func (m *mockAccountService) GetConnection(ctx context.Context, accountName string) (*service.ConnectionModel, error) {
	if _, ok := m.accounts[accountName]; ok {
		return &service.ConnectionModel{ConnectionID: "conn-1", InstanceName: "desktop"}, nil
	}
	return nil, &types.ServiceError{Code: types.CodeConnectionNotFound, Message: "no connection registered"}
}

func (m *mockAccountService) AddAccount(ctx context.Context, model *service.AccountModel) (*service.AccountModel, error) {
	if model.Name == "" {
		return nil, &types.ServiceError{Code: types.CodeInvalidInput, Message: "account name is required"}
	}
	model.ClientID = "client-" + model.Name
	m.accounts[model.Name] = model
	return model, nil
}

func (m *mockAccountService) EditAccount(ctx context.Context, model *service.AccountModel) (*service.AccountModel, error) {
	account, ok := m.accounts[model.Name]
	if !ok {
		return nil, &types.ServiceError{Code: types.CodeAccountNotFound, Message: "account not found"}
	}
	account.Version = model.Version
	account.Verified = model.Verified
	return account, nil
}

func (m *mockAccountService) RemoveAccount(ctx context.Context, name string) (*service.AccountModel, error) {
	account, ok := m.accounts[name]
	if !ok {
		return nil, &types.ServiceError{Code: types.CodeAccountNotFound, Message: "account not found"}
	}
	delete(m.accounts, name)
	return account, nil
}

type mockProfileService struct {
	profiles map[string]*service.SnapshotProfileModel // keyed by client id
}

func (m *mockProfileService) lookup(clientID string) (*service.SnapshotProfileModel, error) {
	if profile, ok := m.profiles[clientID]; ok {
		return profile, nil
	}
	return nil, &types.ServiceError{Code: types.CodeProfileNotFound, Message: "profile not found"}
}

func (m *mockProfileService) ProfileExists(ctx context.Context, accountName string, model service.SnapshotProfileModel) (*service.SnapshotProfileModel, error) {
	return m.lookup(model.ClientID)
}

func (m *mockProfileService) GetProfile(ctx context.Context, clientID string) (*service.SnapshotProfileModel, error) {
	return m.lookup(clientID)
}

func (m *mockProfileService) GetActiveProfileWithSnapshots(ctx context.Context, accountClientID string) (*service.SnapshotProfileModel, error) {
	for _, profile := range m.profiles {
		if profile.Active {
			return profile, nil
		}
	}
	return nil, &types.ServiceError{Code: types.CodeNoActiveProfile, Message: "account has no active profile"}
}

func (m *mockProfileService) GetProfileWithSnapshots(ctx context.Context, clientID string) (*service.SnapshotProfileModel, error) {
	return m.lookup(clientID)
}

func (m *mockProfileService) GetAllProfiles(ctx context.Context, accountClientID string) ([]service.SnapshotProfileModel, error) {
	result := make([]service.SnapshotProfileModel, 0, len(m.profiles))
	for _, profile := range m.profiles {
		result = append(result, *profile)
	}
	return result, nil
}

func (m *mockProfileService) AddProfile(ctx context.Context, accountName string, model service.SnapshotProfileModel) (*service.SnapshotProfileModel, error) {
	model.Active = false
	model.Created = time.Now().UTC()
	m.profiles[model.ClientID] = &model
	return &model, nil
}

func (m *mockProfileService) EditProfile(ctx context.Context, accountName string, model service.SnapshotProfileModel) (*service.SnapshotProfileModel, error) {
	profile, err := m.lookup(model.ClientID)
	if err != nil {
		return nil, err
	}
	profile.Name = model.Name
	return profile, nil
}

func (m *mockProfileService) RemoveProfile(ctx context.Context, accountName, clientID string) (*service.SnapshotProfileModel, error) {
	profile, err := m.lookup(clientID)
	if err != nil {
		return nil, err
	}
	delete(m.profiles, clientID)
	return profile, nil
}

func (m *mockProfileService) RemoveAllProfiles(ctx context.Context, accountClientID string) error {
	m.profiles = map[string]*service.SnapshotProfileModel{}
	return nil
}

func (m *mockProfileService) ChangeActiveProfile(ctx context.Context, accountName, clientID string) (*service.SnapshotProfileModel, error) {
	target, err := m.lookup(clientID)
	if err != nil {
		return nil, err
	}
	for _, profile := range m.profiles {
		profile.Active = false
	}
	target.Active = true
	return target, nil
}

func (m *mockProfileService) AddSnapshot(ctx context.Context, profileClientID string, model service.SnapshotModel) (*service.SnapshotModel, error) {
	if _, err := m.lookup(profileClientID); err != nil {
		return nil, err
	}
	model.ClientID = "snap-1"
	model.Created = time.Now().UTC()
	return &model, nil
}

func createTestServer() *Server {
	accountService := &mockAccountService{
		accounts: map[string]*service.AccountModel{
			"alice": {
				ClientID: "client-alice",
				Name:     "alice",
				Role:     types.RolePlayer,
				Verified: true,
				Version:  "2.1.0",
			},
		},
	}

	profileService := &mockProfileService{
		profiles: map[string]*service.SnapshotProfileModel{
			"p1": {ClientID: "p1", Name: "League start", Active: true},
			"p2": {ClientID: "p2", Name: "Standard", Active: false},
		},
	}

	config := &ServerConfig{
		Host:              "localhost",
		Port:              "8080",
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       30 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}

	return NewServer(config, accountService, profileService)
}
