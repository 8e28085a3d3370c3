package presence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTracker(t *testing.T, nodeID string) (*Tracker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewTracker(rdb, nodeID, 30*time.Second), mr
}

func TestTracker_OnlineOffline(t *testing.T) {
	tracker, _ := setupTracker(t, "node-a")
	ctx := context.Background()

	online, err := tracker.IsOnline(ctx, 1)
	require.NoError(t, err)
	assert.False(t, online)

	require.NoError(t, tracker.Online(ctx, 1))

	node, err := tracker.NodeOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "node-a", node)

	require.NoError(t, tracker.Offline(ctx, 1))

	online, err = tracker.IsOnline(ctx, 1)
	require.NoError(t, err)
	assert.False(t, online)
}

func TestTracker_KeyExpires(t *testing.T) {
	tracker, mr := setupTracker(t, "node-a")
	ctx := context.Background()

	require.NoError(t, tracker.Online(ctx, 1))
	mr.FastForward(31 * time.Second)

	online, err := tracker.IsOnline(ctx, 1)
	require.NoError(t, err)
	assert.False(t, online, "entry should expire without heartbeats")
}

func TestTracker_RefreshExtendsTTL(t *testing.T) {
	tracker, mr := setupTracker(t, "node-a")
	ctx := context.Background()

	require.NoError(t, tracker.Online(ctx, 1))
	mr.FastForward(20 * time.Second)
	require.NoError(t, tracker.Refresh(ctx, 1))
	mr.FastForward(20 * time.Second)

	online, err := tracker.IsOnline(ctx, 1)
	require.NoError(t, err)
	assert.True(t, online, "refresh should keep the entry alive")
}

func TestTracker_OfflineKeepsForeignSession(t *testing.T) {
	// User reconnected to another node; the stale node's offline must not
	// wipe the fresh registration.
	trackerA, mr := setupTracker(t, "node-a")
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	trackerB := NewTracker(rdb, "node-b", 30*time.Second)
	ctx := context.Background()

	require.NoError(t, trackerA.Online(ctx, 1))
	require.NoError(t, trackerB.Online(ctx, 1)) // reconnect elsewhere

	require.NoError(t, trackerA.Offline(ctx, 1))

	node, err := trackerA.NodeOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "node-b", node)
}
