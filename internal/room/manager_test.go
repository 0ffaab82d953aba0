package room_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/santistebanc/partytime-sub000/internal/model"
	"github.com/santistebanc/partytime-sub000/internal/room"
)

// blockingStore stalls hydration for one room until released.
type blockingStore struct {
	slowRoom string
	entered  chan struct{}
	release  chan struct{}
}

func (s *blockingStore) Load(ctx context.Context, roomID string) (*model.RoomSnapshot, error) {
	if roomID == s.slowRoom {
		close(s.entered)
		<-s.release
	}
	return nil, nil
}

func (s *blockingStore) Save(ctx context.Context, roomID string, snap *model.RoomSnapshot) error {
	return nil
}

// flakyStore fails the first load and succeeds afterwards.
type flakyStore struct {
	loads int
}

func (s *flakyStore) Load(ctx context.Context, roomID string) (*model.RoomSnapshot, error) {
	s.loads++
	if s.loads == 1 {
		return nil, errors.New("store unavailable")
	}
	return nil, nil
}

func (s *flakyStore) Save(ctx context.Context, roomID string, snap *model.RoomSnapshot) error {
	return nil
}

// One room hydrating against a slow store must not stall creation or
// dispatch for any other room.
func TestManager_SlowHydrationDoesNotBlockOtherRooms(t *testing.T) {
	ctx := context.Background()
	store := &blockingStore{
		slowRoom: "slow",
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	m := room.NewManager(store, nil, &recorder{}, slog.Default())
	t.Cleanup(m.Shutdown)

	slowDone := make(chan error, 1)
	go func() {
		_, err := m.GetOrCreate(ctx, "slow")
		slowDone <- err
	}()
	<-store.entered

	fastDone := make(chan error, 1)
	go func() {
		_, err := m.GetOrCreate(ctx, "fast")
		fastDone <- err
	}()

	select {
	case err := <-fastDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("room creation stalled behind another room's hydration")
	}

	close(store.release)
	require.NoError(t, <-slowDone)
}

func TestManager_FailedHydrationRetriesOnNextAccess(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{}
	m := room.NewManager(store, nil, &recorder{}, slog.Default())
	t.Cleanup(m.Shutdown)

	_, err := m.GetOrCreate(ctx, "r1")
	require.Error(t, err)

	_, ok := m.Get("r1")
	require.False(t, ok, "a room that failed to hydrate must not stay resident")

	a, err := m.GetOrCreate(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, a)
	require.Equal(t, 2, store.loads)
}
