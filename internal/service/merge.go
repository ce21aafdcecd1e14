package service

import (
	"github.com/stash-tracker/internal/models"
)

// ProfileSkipPolicy decides whether an incoming profile without a matching
// client identifier may be introduced during an edit-merge. Returning true
// drops the incoming profile from the create path; profiles that already
// exist are always merged in place regardless of policy.
type ProfileSkipPolicy func(SnapshotProfileModel) bool

// SkipDefaultProfile is the standard policy: the client creates a default
// profile named "Profile 1" on first run, so an edit-merge must never
// introduce another one when several game clients sync the same account.
func SkipDefaultProfile(model SnapshotProfileModel) bool {
	return model.Name == models.DefaultProfileName
}

// MergeProfiles upserts the incoming profiles into the account's profile
// collection, keyed on the profile client identifier. Matches are merged
// field-wise in place, preserving identity and snapshot history. Unmatched
// profiles are appended as new entities unless the skip policy excludes
// them. New entities carry an empty storage ID so the persistence layer
// knows to insert them.
func MergeProfiles(account *models.Account, incoming []SnapshotProfileModel, skip ProfileSkipPolicy) {
	for _, model := range incoming {
		if existing := account.ProfileByClientID(model.ClientID); existing != nil {
			mergeProfileFields(existing, model)
			continue
		}

		if skip != nil && skip(model) {
			continue
		}

		account.Profiles = append(account.Profiles, newProfileEntity(model))
	}
}
