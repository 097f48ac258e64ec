package services

import (
	"context"
	"faceboobs/server/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifyFixture(t *testing.T) (*NotificationService, *memStore, *Hub) {
	store := newMemStore()
	store.addUser(walletAlice, "alice", false)
	hub := NewHub()
	return NewNotificationService(store, store, hub, newTestLogger(t)), store, hub
}

func TestFanoutWritesRowAndPublishes(t *testing.T) {
	svc, store, hub := newNotifyFixture(t)
	stream, unsub := hub.Subscribe(walletBob)
	defer unsub()

	postID := uint(3)
	svc.Fanout(context.Background(), models.NotificationLike, walletBob, walletAlice, &postID)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, "alice", store.notifications[0].OriginatorUsername)

	require.Len(t, stream, 1)
	event := <-stream
	assert.Equal(t, models.NotificationLike, event.Kind)
	assert.Equal(t, walletAlice, event.Originator)
	require.NotNil(t, event.PostID)
	assert.Equal(t, postID, *event.PostID)
}

func TestFanoutSkipsSelfAndEmptyRecipient(t *testing.T) {
	svc, store, _ := newNotifyFixture(t)
	ctx := context.Background()

	svc.Fanout(ctx, models.NotificationLike, walletAlice, walletAlice, nil)
	svc.Fanout(ctx, models.NotificationLike, "", walletAlice, nil)
	assert.Empty(t, store.notifications)
}

func TestFanoutSwallowsWriteFailure(t *testing.T) {
	svc, store, hub := newNotifyFixture(t)
	store.failInsertNotification = true
	stream, unsub := hub.Subscribe(walletBob)
	defer unsub()

	// Must not panic or publish a phantom event.
	svc.Fanout(context.Background(), models.NotificationFollow, walletBob, walletAlice, nil)
	assert.Empty(t, store.notifications)
	assert.Empty(t, stream)
}

func TestListClampsLimit(t *testing.T) {
	svc, store, _ := newNotifyFixture(t)
	ctx := context.Background()
	for i := 0; i < 60; i++ {
		svc.Fanout(ctx, models.NotificationLike, walletBob, walletAlice, nil)
	}

	listed, err := svc.List(ctx, walletBob, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 50)

	listed, err = svc.List(ctx, walletBob, 1000)
	require.NoError(t, err)
	assert.Len(t, listed, 50)

	listed, err = svc.List(ctx, walletBob, 10)
	require.NoError(t, err)
	assert.Len(t, listed, 10)
	_ = store
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	svc, store, _ := newNotifyFixture(t)
	ctx := context.Background()
	svc.Fanout(ctx, models.NotificationLike, walletBob, walletAlice, nil)
	require.Len(t, store.notifications, 1)
	id := store.notifications[0].ID

	// Another wallet cannot mark Bob's notification read.
	require.NoError(t, svc.MarkRead(ctx, id, walletCarol))
	assert.False(t, store.notifications[0].IsRead)

	require.NoError(t, svc.MarkRead(ctx, id, walletBob))
	assert.True(t, store.notifications[0].IsRead)
}

func TestMarkAllRead(t *testing.T) {
	svc, store, _ := newNotifyFixture(t)
	ctx := context.Background()
	svc.Fanout(ctx, models.NotificationLike, walletBob, walletAlice, nil)
	svc.Fanout(ctx, models.NotificationComment, walletBob, walletAlice, nil)

	require.NoError(t, svc.MarkAllRead(ctx, walletBob))
	for _, notification := range store.notifications {
		assert.True(t, notification.IsRead)
	}
}
