package prefs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wellnoosh/wellnoosh/internal/client/kv"
	"github.com/wellnoosh/wellnoosh/internal/common"
	"github.com/wellnoosh/wellnoosh/internal/logging"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	mem := kv.NewMemoryStore()
	return NewStore(mem, logging.NewDefault(slog.LevelError)), mem
}

// failingKV wraps a Store and fails writes on demand.
type failingKV struct {
	kv.Store
	failSet bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

func TestStore_LoadEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	p, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, Profile{}, p)
}

func TestStore_UpdateSequenceIsShallowMerge(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t)

	_, err := s.Update(ctx, Profile{Allergies: []string{"nuts"}})
	require.NoError(t, err)
	_, err = s.Update(ctx, Profile{DietStyle: []string{"vegan"}})
	require.NoError(t, err)

	p, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"nuts"}, p.Allergies)
	require.Equal(t, []string{"vegan"}, p.DietStyle)

	// Survives a "restart": a fresh Store over the same device storage
	// sees the merged result.
	s2 := NewStore(mem, logging.NewDefault(slog.LevelError))
	p2, err := s2.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"nuts"}, p2.Allergies)
	require.Equal(t, []string{"vegan"}, p2.DietStyle)
}

func TestStore_LaterFieldWriteWins(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Update(ctx, Profile{FullName: Ptr("Ann"), Age: Ptr(30)})
	require.NoError(t, err)
	_, err = s.Update(ctx, Profile{FullName: Ptr("Anna")})
	require.NoError(t, err)

	p, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Anna", *p.FullName)
	require.Equal(t, 30, *p.Age)
}

func TestStore_ClearResetsEverything(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Update(ctx, Profile{FullName: Ptr("Ann")})
	require.NoError(t, err)
	require.NoError(t, s.MarkCompleted(ctx, common.KeyFeatureSlidesSeen))

	require.NoError(t, s.Clear(ctx))

	p, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Profile{}, p)

	seen, err := s.IsCompleted(ctx, common.KeyFeatureSlidesSeen)
	require.NoError(t, err)
	require.False(t, seen)
}

func TestStore_CorruptBlobIsNonFatal(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, common.KeyUserData, []byte("{not json")))

	s := NewStore(mem, logging.NewDefault(slog.LevelError))
	p, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Profile{}, p)
}

func TestStore_SaveOnboardingCompletionStamps(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t)

	p, err := s.SaveOnboardingCompletion(ctx, Profile{CookingSkill: Ptr("intermediate")})
	require.NoError(t, err)
	require.True(t, p.Completed())
	require.NotNil(t, p.OnboardingCompletedAt)

	marker, err := mem.Get(ctx, common.KeyOnboardingCompleted)
	require.NoError(t, err)
	require.Equal(t, "true", string(marker))
}

func TestStore_FailedWriteSurfacesAndRollsBack(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	fkv := &failingKV{Store: mem}
	s := NewStore(fkv, logging.NewDefault(slog.LevelError))

	_, err := s.Update(ctx, Profile{FullName: Ptr("Ann")})
	require.NoError(t, err)

	fkv.failSet = true
	_, err = s.Update(ctx, Profile{FullName: Ptr("Bob")})
	require.Error(t, err)

	// In-memory state still matches what is on disk.
	fkv.failSet = false
	p, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Ann", *p.FullName)
}

func TestStore_CompletionMarkers(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, key := range []string{
		common.KeyFeatureSlidesSeen,
		common.KeyProfileCompletionCompleted,
		common.KeyMealRecommendationsCompleted,
	} {
		done, err := s.IsCompleted(ctx, key)
		require.NoError(t, err)
		require.False(t, done)

		require.NoError(t, s.MarkCompleted(ctx, key))

		done, err = s.IsCompleted(ctx, key)
		require.NoError(t, err)
		require.True(t, done)
	}
}
