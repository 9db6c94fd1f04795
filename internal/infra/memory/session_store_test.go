package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := store.GetOrCreate("player-1")
	require.NotNil(t, session)
	assert.Same(t, session, store.GetOrCreate("player-1"))
	assert.Equal(t, "player-1", session.ID())
	assert.Equal(t, 1, store.Count())

	store.DeleteIfEmpty("player-1")
	_, ok := store.Get("player-1")
	assert.False(t, ok, "expected session removed when empty")
	assert.Zero(t, store.Count())
}
