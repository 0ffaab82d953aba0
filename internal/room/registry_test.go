package room

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", "u1")
	r.Register("c1", "u1")
	require.Equal(t, 1, r.LiveCount("u1"))
	require.Equal(t, 1, r.TotalConnections())
}

func TestRegistry_MultipleConnectionsPerUser(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", "u1")
	r.Register("c2", "u1")
	r.Register("c3", "u2")
	require.Equal(t, 2, r.LiveCount("u1"))
	require.Equal(t, 1, r.LiveCount("u2"))
	require.Equal(t, 3, r.TotalConnections())

	userID, remaining, ok := r.Unregister("c1")
	require.True(t, ok)
	require.Equal(t, "u1", userID)
	require.Equal(t, 1, remaining)

	userID, remaining, ok = r.Unregister("c2")
	require.True(t, ok)
	require.Equal(t, "u1", userID)
	require.Zero(t, remaining)
	require.Zero(t, r.LiveCount("u1"))
}

func TestRegistry_UnregisterUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	_, _, ok := r.Unregister("ghost")
	require.False(t, ok)
}

func TestRegistry_RebindMovesConnection(t *testing.T) {
	r := NewRegistry()
	displaced, remaining := r.Register("c1", "u1")
	require.Empty(t, displaced)
	require.Zero(t, remaining)

	displaced, remaining = r.Register("c1", "u2")
	require.Equal(t, "u1", displaced)
	require.Zero(t, remaining)
	require.Zero(t, r.LiveCount("u1"))
	require.Equal(t, 1, r.LiveCount("u2"))

	userID, ok := r.UserFor("c1")
	require.True(t, ok)
	require.Equal(t, "u2", userID)
}

func TestRegistry_RebindReportsRemainingConnections(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", "u1")
	r.Register("c2", "u1")

	displaced, remaining := r.Register("c1", "u2")
	require.Equal(t, "u1", displaced)
	require.Equal(t, 1, remaining)
}
