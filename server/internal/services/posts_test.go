package services

import (
	"context"
	"faceboobs/server/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostFixture(t *testing.T) (*PostService, *memStore, *fakeContract) {
	store := newMemStore()
	store.addUser(walletAlice, "alice", false)
	store.addUser(walletBob, "bob", true)
	contract := &fakeContract{}
	return NewPostService(store, store, store, contract, newTestLogger(t)), store, contract
}

func TestCreateFreePost(t *testing.T) {
	svc, store, contract := newPostFixture(t)

	post, err := svc.Create(context.Background(), NewPostInput{
		CreatorAddress: walletAlice,
		MediaURL:       "https://cdn.example/cat.jpg",
		MediaType:      "image",
		Caption:        "my cat",
	})
	require.NoError(t, err)
	assert.False(t, post.IsPaid)
	assert.Equal(t, "0", post.Price)
	assert.Nil(t, post.BlockchainContentID)
	assert.Contains(t, store.posts, post.ID)
	// Free posts never touch the chain.
	assert.Equal(t, int64(0), contract.nextContent)
}

func TestCreatePaidPostRegistersOnChain(t *testing.T) {
	svc, _, contract := newPostFixture(t)

	post, err := svc.Create(context.Background(), NewPostInput{
		CreatorAddress: walletBob,
		MediaURL:       "https://cdn.example/paid.jpg",
		IsPaid:         true,
		Price:          "0.05",
	})
	require.NoError(t, err)
	assert.True(t, post.IsPaid)
	assert.Equal(t, "0.05", post.Price)
	require.NotNil(t, post.BlockchainContentID)
	assert.Equal(t, contract.nextContent, *post.BlockchainContentID)
}

func TestCreatePaidPostRequiresCreatorAccount(t *testing.T) {
	svc, _, _ := newPostFixture(t)

	_, err := svc.Create(context.Background(), NewPostInput{
		CreatorAddress: walletAlice,
		MediaURL:       "https://cdn.example/paid.jpg",
		IsPaid:         true,
		Price:          "0.05",
	})
	assert.ErrorIs(t, err, ErrNotCreator)
}

func TestCreatePaidPostWithoutSigner(t *testing.T) {
	store := newMemStore()
	store.addUser(walletBob, "bob", true)
	svc := NewPostService(store, store, store, nil, newTestLogger(t))

	_, err := svc.Create(context.Background(), NewPostInput{
		CreatorAddress: walletBob,
		MediaURL:       "https://cdn.example/paid.jpg",
		IsPaid:         true,
		Price:          "0.05",
	})
	assert.ErrorIs(t, err, ErrSignerUnavailable)
}

func TestCreatePaidPostBadPrice(t *testing.T) {
	svc, _, _ := newPostFixture(t)

	for _, price := range []string{"", "0", "-1", "abc"} {
		_, err := svc.Create(context.Background(), NewPostInput{
			CreatorAddress: walletBob,
			MediaURL:       "https://cdn.example/paid.jpg",
			IsPaid:         true,
			Price:          price,
		})
		assert.ErrorIs(t, err, ErrNotPayable, "price %q", price)
	}
}

func TestDeletePostOwnerOnly(t *testing.T) {
	svc, store, _ := newPostFixture(t)
	post := store.addPost(walletBob, false, "0", nil)
	ctx := context.Background()

	err := svc.Delete(ctx, post.ID, walletAlice)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.Delete(ctx, post.ID, walletBob))
	assert.NotContains(t, store.posts, post.ID)
}

func TestFollowingFeedOnlyFollowedCreators(t *testing.T) {
	svc, store, _ := newPostFixture(t)
	ctx := context.Background()

	bobPost := store.addPost(walletBob, false, "0", nil)
	bobPost.CreatedAt = time.Now()
	carolPost := store.addPost(walletCarol, false, "0", nil)
	carolPost.CreatedAt = time.Now().Add(-time.Minute)

	require.NoError(t, store.InsertFollow(ctx, walletAlice, walletBob))

	feed, err := svc.FollowingFeed(ctx, walletAlice, 20, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, bobPost.ID, feed[0].ID)
}

func TestFollowingFeedEmptyWhenFollowingNobody(t *testing.T) {
	svc, store, _ := newPostFixture(t)
	store.addPost(walletBob, false, "0", nil)

	feed, err := svc.FollowingFeed(context.Background(), walletAlice, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestRedactLocked(t *testing.T) {
	contentID := int64(1)
	paid := &models.Post{ID: 1, IsPaid: true, Price: "0.01", MediaURL: "https://cdn.example/secret.jpg", BlockchainContentID: &contentID}
	free := &models.Post{ID: 2, MediaURL: "https://cdn.example/open.jpg"}

	locked := RedactLocked(paid, false)
	assert.Empty(t, locked.MediaURL)
	assert.Equal(t, "0.01", locked.Price)
	// The original row is untouched.
	assert.Equal(t, "https://cdn.example/secret.jpg", paid.MediaURL)

	assert.Equal(t, "https://cdn.example/secret.jpg", RedactLocked(paid, true).MediaURL)
	assert.Equal(t, "https://cdn.example/open.jpg", RedactLocked(free, false).MediaURL)
	assert.Nil(t, RedactLocked(nil, false))
}
