package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stash-tracker/internal/models"
)

// ProfileRepository interface for profile data operations. Reads return nil
// when no row matches. ReplaceActive must deactivate every sibling and
// activate the target within one transaction.
type ProfileRepository interface {
	GetByClientID(ctx context.Context, clientID string) (*models.SnapshotProfile, error)
	GetByClientIDWithSnapshots(ctx context.Context, clientID string) (*models.SnapshotProfile, error)
	GetActiveByAccountClientID(ctx context.Context, accountClientID string) (*models.SnapshotProfile, error)
	Create(ctx context.Context, profile *models.SnapshotProfile) error
	Update(ctx context.Context, profile *models.SnapshotProfile) error
	Delete(ctx context.Context, id string) error
	DeleteByAccountID(ctx context.Context, accountID string) error
	ReplaceActive(ctx context.Context, accountID, profileID string) error
}

// SnapshotRepository interface for snapshot ingestion
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *models.Snapshot) error
}

// Cache interface for profile read caching
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
	GenerateActiveProfileKey(accountClientID string) string
	GenerateProfileKey(profileClientID string) string
	GenerateProfileListKey(accountClientID string) string
}

// ProfileService enforces the profile lifecycle: identity-stable edits,
// cascading removal, and the one-active-profile-per-account invariant.
type ProfileService struct {
	accountRepo  AccountRepository
	profileRepo  ProfileRepository
	snapshotRepo SnapshotRepository
	cache        Cache
}

// NewProfileService creates a new profile service. The cache is optional;
// pass nil to disable read caching.
func NewProfileService(accountRepo AccountRepository, profileRepo ProfileRepository, snapshotRepo SnapshotRepository, cache Cache) *ProfileService {
	return &ProfileService{
		accountRepo:  accountRepo,
		profileRepo:  profileRepo,
		snapshotRepo: snapshotRepo,
		cache:        cache,
	}
}

// ProfileExists checks that the account owns a profile with the model's
// client identifier. Used as an idempotent existence probe before creates.
func (s *ProfileService) ProfileExists(ctx context.Context, accountName string, model SnapshotProfileModel) (*SnapshotProfileModel, error) {
	account, err := s.accountRepo.GetByNameWithProfiles(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errAccountNotFound(accountName)
	}

	profile := account.ProfileByClientID(model.ClientID)
	if profile == nil {
		return nil, errProfileNotFound(model.ClientID)
	}

	return toProfileModel(profile), nil
}

// GetProfile retrieves a profile by client identifier, without account
// scoping
func (s *ProfileService) GetProfile(ctx context.Context, clientID string) (*SnapshotProfileModel, error) {
	profile, err := s.profileRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, errProfileNotFound(clientID)
	}

	return toProfileModel(profile), nil
}

// GetActiveProfileWithSnapshots retrieves the account's single active
// profile together with its snapshot history. An account without an active
// profile yields a typed not-found signal, not an account-level error.
func (s *ProfileService) GetActiveProfileWithSnapshots(ctx context.Context, accountClientID string) (*SnapshotProfileModel, error) {
	if s.cache != nil {
		var cached SnapshotProfileModel
		hit, err := s.cache.Get(ctx, s.cache.GenerateActiveProfileKey(accountClientID), &cached)
		if err == nil && hit {
			return &cached, nil
		}
	}

	profile, err := s.profileRepo.GetActiveByAccountClientID(ctx, accountClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}
	if profile == nil {
		return nil, errNoActiveProfile(accountClientID)
	}

	model := toProfileModel(profile)
	if s.cache != nil {
		_ = s.cache.Set(ctx, s.cache.GenerateActiveProfileKey(accountClientID), model)
	}

	return model, nil
}

// GetProfileWithSnapshots retrieves a profile and its snapshot history by
// client identifier, regardless of active state
func (s *ProfileService) GetProfileWithSnapshots(ctx context.Context, clientID string) (*SnapshotProfileModel, error) {
	if s.cache != nil {
		var cached SnapshotProfileModel
		hit, err := s.cache.Get(ctx, s.cache.GenerateProfileKey(clientID), &cached)
		if err == nil && hit {
			return &cached, nil
		}
	}

	profile, err := s.profileRepo.GetByClientIDWithSnapshots(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, errProfileNotFound(clientID)
	}

	model := toProfileModel(profile)
	if s.cache != nil {
		_ = s.cache.Set(ctx, s.cache.GenerateProfileKey(clientID), model)
	}

	return model, nil
}

// GetAllProfiles retrieves every profile owned by the account identified by
// its client identifier
func (s *ProfileService) GetAllProfiles(ctx context.Context, accountClientID string) ([]SnapshotProfileModel, error) {
	account, err := s.accountRepo.GetByClientIDWithProfiles(ctx, accountClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errAccountNotFound(accountClientID)
	}

	return toProfileModels(account.Profiles), nil
}

// AddProfile appends a new profile to the named account. The creation
// timestamp is stamped server-side and the profile starts inactive.
func (s *ProfileService) AddProfile(ctx context.Context, accountName string, model SnapshotProfileModel) (*SnapshotProfileModel, error) {
	account, err := s.accountRepo.GetByNameWithProfiles(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errAccountNotFound(accountName)
	}

	profile := newProfileEntity(model)
	profile.AccountID = account.ID
	profile.Created = time.Now().UTC()

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to add profile: %w", err)
	}

	s.invalidate(ctx, account.ClientID, profile.ClientID)

	return toProfileModel(profile), nil
}

// EditProfile merges the model's scalar fields onto the existing profile,
// preserving its identity, active flag and snapshot history
func (s *ProfileService) EditProfile(ctx context.Context, accountName string, model SnapshotProfileModel) (*SnapshotProfileModel, error) {
	account, err := s.accountRepo.GetByNameWithProfiles(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errAccountNotFound(accountName)
	}

	profile := account.ProfileByClientID(model.ClientID)
	if profile == nil {
		return nil, errProfileNotFound(model.ClientID)
	}

	mergeProfileFields(profile, model)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.invalidate(ctx, account.ClientID, profile.ClientID)

	return toProfileModel(profile), nil
}

// RemoveProfile deletes the profile from the named account, cascading to
// its snapshots. The pre-removal state is returned.
func (s *ProfileService) RemoveProfile(ctx context.Context, accountName, clientID string) (*SnapshotProfileModel, error) {
	account, err := s.accountRepo.GetByNameWithProfiles(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errAccountNotFound(accountName)
	}

	profile := account.ProfileByClientID(clientID)
	if profile == nil {
		return nil, errProfileNotFound(clientID)
	}

	if err := s.profileRepo.Delete(ctx, profile.ID); err != nil {
		return nil, fmt.Errorf("failed to remove profile: %w", err)
	}

	s.invalidate(ctx, account.ClientID, profile.ClientID)

	return toProfileModel(profile), nil
}

// RemoveAllProfiles clears the account's entire profile collection in one
// operation. Removing zero profiles is a no-op, not an error.
func (s *ProfileService) RemoveAllProfiles(ctx context.Context, accountClientID string) error {
	account, err := s.accountRepo.GetByClientIDWithProfiles(ctx, accountClientID)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return errAccountNotFound(accountClientID)
	}

	if err := s.profileRepo.DeleteByAccountID(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to remove profiles: %w", err)
	}

	for _, profile := range account.Profiles {
		s.invalidate(ctx, account.ClientID, profile.ClientID)
	}

	return nil
}

// AddSnapshot records a captured snapshot under the profile identified by
// its client identifier. The snapshot is opaque to the lifecycle engines;
// only its inclusion matters.
func (s *ProfileService) AddSnapshot(ctx context.Context, profileClientID string, model SnapshotModel) (*SnapshotModel, error) {
	profile, err := s.profileRepo.GetByClientID(ctx, profileClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, errProfileNotFound(profileClientID)
	}

	snapshot := newSnapshotEntity(model)
	snapshot.ProfileID = profile.ID

	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to add snapshot: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, s.cache.GenerateProfileKey(profile.ClientID))
	}

	return toSnapshotModel(snapshot), nil
}

// ChangeActiveProfile makes the target profile the account's single active
// one. Every sibling is deactivated and the target activated within one
// persisted unit of work, so the mutual-exclusion invariant holds even for
// readers of intermediate state.
func (s *ProfileService) ChangeActiveProfile(ctx context.Context, accountName, clientID string) (*SnapshotProfileModel, error) {
	account, err := s.accountRepo.GetByNameWithProfiles(ctx, accountName)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, errAccountNotFound(accountName)
	}

	profile := account.ProfileByClientID(clientID)
	if profile == nil {
		return nil, errProfileNotFound(clientID)
	}

	if err := s.profileRepo.ReplaceActive(ctx, account.ID, profile.ID); err != nil {
		return nil, fmt.Errorf("failed to change active profile: %w", err)
	}

	for _, sibling := range account.Profiles {
		sibling.Active = false
	}
	profile.Active = true

	s.invalidate(ctx, account.ClientID, profile.ClientID)

	return toProfileModel(profile), nil
}

// invalidate drops the cached reads affected by a profile mutation. Cache
// errors are not surfaced; entries expire on their own.
func (s *ProfileService) invalidate(ctx context.Context, accountClientID, profileClientID string) {
	if s.cache == nil {
		return
	}

	_ = s.cache.Delete(ctx,
		s.cache.GenerateActiveProfileKey(accountClientID),
		s.cache.GenerateProfileListKey(accountClientID),
		s.cache.GenerateProfileKey(profileClientID),
	)
}
