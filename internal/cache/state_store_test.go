package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/santistebanc/partytime-sub000/internal/cache"
	"github.com/santistebanc/partytime-sub000/internal/model"
)

func newStore(t *testing.T) cache.StateStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewStateStore(client)
}

func TestStateStore_LoadMissingRoom(t *testing.T) {
	s := newStore(t)
	snap, err := s.Load(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestStateStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	snap := &model.RoomSnapshot{
		Users: map[string]*model.User{
			"alice": {ID: "alice", DisplayName: "Alice", IsPlayer: true, IsAdmin: true, IsHost: true, Score: 30},
			"bob":   {ID: "bob", DisplayName: "Bob", IsPlayer: true, IsNarrator: true, Score: -5},
		},
		Questions: []*model.Question{
			{ID: "q1", Prompt: "2+2?", CorrectAnswer: "4", Distractors: []string{"3", "4"}, Topic: "math", PointValue: 10},
		},
		Topics: []string{"math", "space"},
		Reveal: map[string]bool{"q1": true},
	}

	require.NoError(t, s.Save(ctx, "r1", snap))

	got, err := s.Load(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, snap, got)
}

func TestStateStore_RoomsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Save(ctx, "r1", &model.RoomSnapshot{Topics: []string{"math"}}))
	require.NoError(t, s.Save(ctx, "r2", &model.RoomSnapshot{Topics: []string{"space"}}))

	r1, err := s.Load(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, []string{"math"}, r1.Topics)

	r2, err := s.Load(ctx, "r2")
	require.NoError(t, err)
	require.Equal(t, []string{"space"}, r2.Topics)
}

func TestStateStore_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Save(ctx, "r1", &model.RoomSnapshot{}))
	exists, err := s.Exists(ctx, "r1")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, s.Delete(ctx, "r1"))
	exists, err = s.Exists(ctx, "r1")
	require.NoError(t, err)
	require.False(t, exists)
}
