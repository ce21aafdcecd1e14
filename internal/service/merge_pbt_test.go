package service

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/stash-tracker/internal/models"
)

func genProfileModel() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 9),
		gen.AlphaString(),
		gen.Bool(),
	).Map(func(values []interface{}) SnapshotProfileModel {
		return SnapshotProfileModel{
			ClientID: fmt.Sprintf("p%d", values[0].(int)),
			Name:     values[1].(string),
			Active:   values[2].(bool),
		}
	})
}

func genProfileModels() gopter.Gen {
	return gen.SliceOf(genProfileModel())
}

func accountWithProfiles(profileModels []SnapshotProfileModel) *models.Account {
	account := &models.Account{ID: "acc-1", ClientID: "client-1", Name: "acct"}
	for i, m := range profileModels {
		account.Profiles = append(account.Profiles, &models.SnapshotProfile{
			ID:       fmt.Sprintf("prof-%d", i),
			ClientID: m.ClientID,
			Name:     m.Name,
			Active:   m.Active,
		})
	}
	return account
}

// Merging must never change which profile is active, no matter what the
// incoming payload claims.
func TestMergeProfiles_ActiveFlagsUnchanged(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("merge preserves active flags", prop.ForAll(
		func(existing, incoming []SnapshotProfileModel) bool {
			account := accountWithProfiles(dedupeByClientID(existing))

			before := map[string]bool{}
			for _, p := range account.Profiles {
				before[p.ClientID] = p.Active
			}

			MergeProfiles(account, incoming, SkipDefaultProfile)

			for _, p := range account.Profiles {
				if was, ok := before[p.ClientID]; ok {
					if p.Active != was {
						return false
					}
				} else if p.Active {
					// appended profiles must start inactive
					return false
				}
			}
			return true
		},
		genProfileModels(),
		genProfileModels(),
	))

	properties.TestingRun(t)
}

// Merging must preserve the storage identity of every pre-existing profile
// and never drop one.
func TestMergeProfiles_IdentityStable(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("merge preserves existing identities", prop.ForAll(
		func(existing, incoming []SnapshotProfileModel) bool {
			account := accountWithProfiles(dedupeByClientID(existing))

			ids := map[string]string{}
			for _, p := range account.Profiles {
				ids[p.ClientID] = p.ID
			}

			MergeProfiles(account, incoming, SkipDefaultProfile)

			seen := 0
			for _, p := range account.Profiles {
				if id, ok := ids[p.ClientID]; ok {
					seen++
					if p.ID != id {
						return false
					}
				}
			}
			return seen == len(ids)
		},
		genProfileModels(),
		genProfileModels(),
	))

	properties.TestingRun(t)
}

// A second merge of the same payload must not grow the collection further.
func TestMergeProfiles_Idempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("merge is idempotent", prop.ForAll(
		func(existing, incoming []SnapshotProfileModel) bool {
			account := accountWithProfiles(dedupeByClientID(existing))

			MergeProfiles(account, incoming, SkipDefaultProfile)
			count := len(account.Profiles)
			MergeProfiles(account, incoming, SkipDefaultProfile)

			return len(account.Profiles) == count
		},
		genProfileModels(),
		genProfileModels(),
	))

	properties.TestingRun(t)
}

// The default profile must never be introduced by a merge, only matched.
func TestMergeProfiles_NeverIntroducesDefault(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("default profile is never created", prop.ForAll(
		func(incoming []SnapshotProfileModel) bool {
			account := accountWithProfiles(nil)

			renamed := make([]SnapshotProfileModel, len(incoming))
			copy(renamed, incoming)
			for i := range renamed {
				renamed[i].Name = models.DefaultProfileName
			}

			MergeProfiles(account, renamed, SkipDefaultProfile)

			return len(account.Profiles) == 0
		},
		genProfileModels(),
	))

	properties.TestingRun(t)
}

func dedupeByClientID(profiles []SnapshotProfileModel) []SnapshotProfileModel {
	seen := map[string]bool{}
	var result []SnapshotProfileModel
	for _, p := range profiles {
		if seen[p.ClientID] {
			continue
		}
		seen[p.ClientID] = true
		result = append(result, p)
	}
	return result
}
