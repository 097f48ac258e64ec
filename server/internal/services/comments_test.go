package services

import (
	"context"
	"faceboobs/server/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentFixture(t *testing.T) (*CommentService, *memStore, *models.Post) {
	store := newMemStore()
	alice := store.addUser(walletAlice, "alice", false)
	alice.AvatarURL = "https://cdn.example/alice.png"
	store.addUser(walletBob, "bob", true)
	post := store.addPost(walletBob, false, "0", nil)
	appLogger := newTestLogger(t)
	notify := NewNotificationService(store, store, nil, appLogger)
	return NewCommentService(store, store, store, notify, appLogger), store, post
}

func TestCreateCommentSnapshotsAuthor(t *testing.T) {
	svc, store, post := newCommentFixture(t)

	comment, err := svc.Create(context.Background(), post.ID, walletAlice, "  nice post  ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Text)
	assert.Equal(t, "alice", comment.Username)
	assert.Equal(t, "https://cdn.example/alice.png", comment.AvatarURL)

	listed, err := svc.List(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, comment.ID, listed[0].ID)
	_ = store
}

func TestCreateCommentRejectsEmptyText(t *testing.T) {
	svc, _, post := newCommentFixture(t)

	_, err := svc.Create(context.Background(), post.ID, walletAlice, "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestCreateCommentUnknownPost(t *testing.T) {
	svc, _, _ := newCommentFixture(t)

	_, err := svc.Create(context.Background(), 9999, walletAlice, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentNotifiesPostOwner(t *testing.T) {
	svc, store, post := newCommentFixture(t)

	_, err := svc.Create(context.Background(), post.ID, walletAlice, "hello")
	require.NoError(t, err)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, models.NotificationComment, store.notifications[0].Type)
	assert.Equal(t, walletBob, store.notifications[0].RecipientAddress)
}

func TestSelfCommentProducesNoNotification(t *testing.T) {
	svc, store, post := newCommentFixture(t)

	_, err := svc.Create(context.Background(), post.ID, walletBob, "my own post")
	require.NoError(t, err)
	assert.Empty(t, store.notifications)
}

func TestCommentSucceedsWhenNotificationWriteFails(t *testing.T) {
	svc, store, post := newCommentFixture(t)
	store.failInsertNotification = true

	comment, err := svc.Create(context.Background(), post.ID, walletAlice, "hello")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
}
