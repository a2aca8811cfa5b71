package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wellnoosh/wellnoosh/internal/client/kv"
	"github.com/wellnoosh/wellnoosh/internal/common"
	"github.com/wellnoosh/wellnoosh/internal/logging"
)

// Store owns the profile blob and the completion markers. Updates are
// read-modify-write of the entire blob; a mutex serializes them so the
// last-write-wins contract holds even if callers overlap.
type Store struct {
	kv  kv.Store
	log logging.Logger

	mu      sync.Mutex
	current *Profile // nil until first Load/Update
}

func NewStore(store kv.Store, log logging.Logger) *Store {
	return &Store{kv: store, log: log}
}

// Load reads the persisted profile. A missing blob yields an empty profile;
// a corrupt blob is logged and treated the same way rather than failing the
// app at startup.
func (s *Store) Load(ctx context.Context) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) (Profile, error) {
	if s.current != nil {
		return *s.current, nil
	}

	data, err := s.kv.Get(ctx, common.KeyUserData)
	if err != nil {
		return Profile{}, fmt.Errorf("load user data: %w", err)
	}

	p := Profile{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			s.log.Warn(ctx, "stored user data is corrupt, starting empty", "error", err)
			p = Profile{}
		}
	}
	s.current = &p
	return p, nil
}

// Update merges the set fields of p into the profile and persists the full
// merged blob as one write. A failed write is returned to the caller so the
// UI can warn that preferences were not saved; the in-memory state is rolled
// back to stay consistent with disk.
func (s *Store) Update(ctx context.Context, p Profile) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, p)
}

func (s *Store) updateLocked(ctx context.Context, p Profile) (Profile, error) {
	base, err := s.loadLocked(ctx)
	if err != nil {
		return Profile{}, err
	}

	merged := base
	merged.merge(p)

	data, err := json.Marshal(merged)
	if err != nil {
		return Profile{}, fmt.Errorf("encode user data: %w", err)
	}
	if err := s.kv.Set(ctx, common.KeyUserData, data); err != nil {
		return Profile{}, fmt.Errorf("save user data: %w", err)
	}

	s.current = &merged
	return merged, nil
}

// SaveOnboardingCompletion merges p like Update and additionally stamps the
// completion flag and timestamp, plus the standalone completion marker key.
func (s *Store) SaveOnboardingCompletion(ctx context.Context, p Profile) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.OnboardingCompleted = Ptr(true)
	p.OnboardingCompletedAt = Ptr(time.Now().UTC().Format(time.RFC3339))

	merged, err := s.updateLocked(ctx, p)
	if err != nil {
		return Profile{}, err
	}

	if err := s.kv.Set(ctx, common.KeyOnboardingCompleted, []byte("true")); err != nil {
		return Profile{}, fmt.Errorf("save onboarding marker: %w", err)
	}
	return merged, nil
}

// Clear deletes the persisted blob and all completion markers, and resets
// the in-memory profile. Used on account deletion or an explicit data wipe.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := []string{
		common.KeyUserData,
		common.KeyOnboardingCompleted,
		common.KeyFeatureSlidesSeen,
		common.KeyProfileCompletionCompleted,
		common.KeyMealRecommendationsCompleted,
	}
	for _, k := range keys {
		if err := s.kv.Delete(ctx, k); err != nil {
			return fmt.Errorf("clear user data: %w", err)
		}
	}
	s.current = &Profile{}
	return nil
}

// MarkCompleted sets one of the boolean completion markers (feature slides,
// profile completion, meal recommendations).
func (s *Store) MarkCompleted(ctx context.Context, key string) error {
	if err := s.kv.Set(ctx, key, []byte("true")); err != nil {
		return fmt.Errorf("save marker %s: %w", key, err)
	}
	return nil
}

// IsCompleted reads a boolean completion marker. Absence means false.
func (s *Store) IsCompleted(ctx context.Context, key string) (bool, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read marker %s: %w", key, err)
	}
	return string(data) == "true", nil
}
