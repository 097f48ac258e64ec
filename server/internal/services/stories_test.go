package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoryFixture(t *testing.T, now time.Time) (*StoryService, *memStore) {
	store := newMemStore()
	svc := NewStoryService(store, newTestLogger(t))
	svc.now = func() time.Time { return now }
	return svc, store
}

func TestStoryExpiresAfterLifetime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newStoryFixture(t, now)
	ctx := context.Background()

	story, err := svc.Create(ctx, walletBob, "https://cdn.example/story.jpg", "image")
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), story.ExpiresAt)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	// One minute past the lifetime the story is gone from the listing.
	svc.now = func() time.Time { return now.Add(24*time.Hour + time.Minute) }
	active, err = svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestStoryCreateRequiresMedia(t *testing.T) {
	svc, _ := newStoryFixture(t, time.Now())

	_, err := svc.Create(context.Background(), walletBob, "  ", "image")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestStoryDeleteOwnerOnly(t *testing.T) {
	svc, store := newStoryFixture(t, time.Now())
	ctx := context.Background()

	story, err := svc.Create(ctx, walletBob, "https://cdn.example/story.jpg", "image")
	require.NoError(t, err)

	err = svc.Delete(ctx, story.ID, walletAlice)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Contains(t, store.stories, story.ID)

	require.NoError(t, svc.Delete(ctx, story.ID, walletBob))
	assert.NotContains(t, store.stories, story.ID)

	err = svc.Delete(ctx, story.ID, walletBob)
	assert.ErrorIs(t, err, ErrNotFound)
}
