package service

import (
	"github.com/stash-tracker/internal/models"
	"github.com/stash-tracker/internal/types"
)

// Translation between persisted entities and transport models. Mapping is
// total and side-effect free; the merge helpers below are the only functions
// that write into existing entities.

func toAccountModel(account *models.Account) *AccountModel {
	model := &AccountModel{
		ClientID: account.ClientID,
		Name:     account.Name,
		Role:     account.Role,
		Verified: account.Verified,
		Version:  account.Version,
	}

	for _, profile := range account.Profiles {
		model.Profiles = append(model.Profiles, *toProfileModel(profile))
	}

	return model
}

func toProfileModel(profile *models.SnapshotProfile) *SnapshotProfileModel {
	model := &SnapshotProfileModel{
		ClientID:     profile.ClientID,
		Name:         profile.Name,
		ActiveLeague: profile.ActiveLeague,
		PriceLeague:  profile.PriceLeague,
		Active:       profile.Active,
		Created:      profile.Created,
	}

	for _, snapshot := range profile.Snapshots {
		model.Snapshots = append(model.Snapshots, SnapshotModel{
			ClientID:   snapshot.ClientID,
			Created:    snapshot.Created,
			TotalValue: snapshot.TotalValue,
			ItemCount:  snapshot.ItemCount,
		})
	}

	return model
}

func toProfileModels(profiles []*models.SnapshotProfile) []SnapshotProfileModel {
	result := make([]SnapshotProfileModel, 0, len(profiles))
	for _, profile := range profiles {
		result = append(result, *toProfileModel(profile))
	}
	return result
}

func toSnapshotModel(snapshot *models.Snapshot) *SnapshotModel {
	return &SnapshotModel{
		ClientID:   snapshot.ClientID,
		Created:    snapshot.Created,
		TotalValue: snapshot.TotalValue,
		ItemCount:  snapshot.ItemCount,
	}
}

func toConnectionModel(connection *models.Connection) *ConnectionModel {
	return &ConnectionModel{
		ConnectionID: connection.ConnectionID,
		InstanceName: connection.InstanceName,
		Created:      connection.Created,
	}
}

// newAccountEntity builds a persisted account from a transport model.
// Server-assigned fields are left for the repository to fill.
func newAccountEntity(model *AccountModel) *models.Account {
	role := model.Role
	if role == "" {
		role = types.RolePlayer
	}

	return &models.Account{
		ClientID: model.ClientID,
		Name:     model.Name,
		Role:     role,
		Verified: model.Verified,
		Version:  model.Version,
	}
}

// newProfileEntity builds a persisted profile from a transport model. The
// active flag is never taken from the caller: new profiles start inactive.
func newProfileEntity(model SnapshotProfileModel) *models.SnapshotProfile {
	return &models.SnapshotProfile{
		ClientID:     model.ClientID,
		Name:         model.Name,
		ActiveLeague: model.ActiveLeague,
		PriceLeague:  model.PriceLeague,
		Active:       false,
	}
}

// newSnapshotEntity builds a persisted snapshot from a transport model.
// Identity and capture time are stamped by the repository when absent.
func newSnapshotEntity(model SnapshotModel) *models.Snapshot {
	return &models.Snapshot{
		ClientID:   model.ClientID,
		Created:    model.Created,
		TotalValue: model.TotalValue,
		ItemCount:  model.ItemCount,
	}
}

// mergeAccountFields copies the updatable scalar fields from the model onto
// the existing entity. Identity fields (name, client id) are left untouched.
func mergeAccountFields(account *models.Account, model *AccountModel) {
	if model.Role != "" {
		account.Role = model.Role
	}
	account.Verified = model.Verified
	account.Version = model.Version
}

// mergeProfileFields copies the updatable scalar fields from the model onto
// the existing entity, preserving identity, the active flag, the creation
// timestamp and the snapshot history.
func mergeProfileFields(profile *models.SnapshotProfile, model SnapshotProfileModel) {
	profile.Name = model.Name
	profile.ActiveLeague = model.ActiveLeague
	profile.PriceLeague = model.PriceLeague
}
