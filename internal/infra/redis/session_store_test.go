package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	session := store.GetOrCreate("player-1")
	assert.True(t, mr.Exists("sdlc:session:player-1"), "expected redis key to be set")
	assert.Equal(t, time.Minute, mr.TTL("sdlc:session:player-1"))
	assert.Same(t, session, store.GetOrCreate("player-1"))
	assert.Equal(t, 1, store.Count())

	store.DeleteIfEmpty("player-1")
	assert.False(t, mr.Exists("sdlc:session:player-1"), "expected redis key to be removed")
	assert.Zero(t, store.Count())
}

func TestSessionStoreTouchRefreshesLiveness(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	store.GetOrCreate("player-1")

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("sdlc:session:player-1"), "marker expires without activity")

	store.Touch("player-1")
	assert.True(t, mr.Exists("sdlc:session:player-1"))
	assert.Equal(t, time.Minute, mr.TTL("sdlc:session:player-1"))

	store.Touch("stranger")
	assert.False(t, mr.Exists("sdlc:session:stranger"), "unknown players get no marker")
}
