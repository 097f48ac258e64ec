package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *memStore) {
	store := newMemStore()
	return NewUserService(store, newTestLogger(t)), store
}

func TestConnectCreatesAccountOnFirstVisit(t *testing.T) {
	svc, store := newUserFixture(t)

	user, err := svc.Connect(context.Background(), "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	require.NoError(t, err)

	assert.Equal(t, walletAlice, user.Address)
	assert.Equal(t, "user_aaaaaaaa", user.Username)
	assert.False(t, user.IsCreator)
	assert.Contains(t, store.users, walletAlice)
}

func TestConnectReturnsExistingAccount(t *testing.T) {
	svc, store := newUserFixture(t)
	existing := store.addUser(walletAlice, "alice", true)

	user, err := svc.Connect(context.Background(), walletAlice)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Len(t, store.users, 1)
}

func TestConnectRejectsMalformedAddress(t *testing.T) {
	svc, _ := newUserFixture(t)

	for _, address := range []string{"", "alice", "0x1234", "0xzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := svc.Connect(context.Background(), address)
		assert.ErrorIs(t, err, ErrInvalidAddress, "address %q", address)
	}
}

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
	svc, store := newUserFixture(t)
	store.addUser(walletAlice, "alice", false)
	store.addUser(walletBob, "bob", false)

	taken := "bob"
	_, err := svc.UpdateProfile(context.Background(), walletAlice, ProfileUpdate{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, "alice", store.users[walletAlice].Username)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	svc, store := newUserFixture(t)
	store.addUser(walletAlice, "alice", false)

	bio := "gm"
	user, err := svc.UpdateProfile(context.Background(), walletAlice, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "gm", user.Bio)
	assert.Equal(t, "alice", user.Username)
	_ = store
}

func TestBecomeCreatorIsIdempotent(t *testing.T) {
	svc, store := newUserFixture(t)
	store.addUser(walletAlice, "alice", false)
	ctx := context.Background()

	user, err := svc.BecomeCreator(ctx, walletAlice)
	require.NoError(t, err)
	assert.True(t, user.IsCreator)

	user, err = svc.BecomeCreator(ctx, walletAlice)
	require.NoError(t, err)
	assert.True(t, user.IsCreator)
}

func TestGetUnknownUser(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Get(context.Background(), walletCarol)
	assert.ErrorIs(t, err, ErrNotFound)
}
