package services

import (
	"faceboobs/server/internal/events"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToRecipientOnly(t *testing.T) {
	hub := NewHub()
	aliceCh, unsubAlice := hub.Subscribe(walletAlice)
	defer unsubAlice()
	bobCh, unsubBob := hub.Subscribe(walletBob)
	defer unsubBob()

	hub.Publish(events.Event{Kind: events.KindLike, Recipient: walletAlice})

	select {
	case event := <-aliceCh:
		assert.Equal(t, events.KindLike, event.Kind)
	default:
		t.Fatal("expected event on alice's channel")
	}
	assert.Empty(t, bobCh)
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	ch, unsub := hub.Subscribe(walletAlice)
	defer unsub()

	// Overfill well past the channel buffer; extra events are dropped.
	for i := 0; i < 100; i++ {
		hub.Publish(events.Event{Kind: events.KindMessage, Recipient: walletAlice})
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestHubUnsubscribeRemovesStream(t *testing.T) {
	hub := NewHub()
	ch, unsub := hub.Subscribe(walletAlice)
	unsub()

	// Channel is closed and no longer receives events.
	_, open := <-ch
	require.False(t, open)
	hub.Publish(events.Event{Kind: events.KindFollow, Recipient: walletAlice})
}

func TestHubMultipleSubscribersSameWallet(t *testing.T) {
	hub := NewHub()
	first, unsubFirst := hub.Subscribe(walletAlice)
	defer unsubFirst()
	second, unsubSecond := hub.Subscribe(walletAlice)
	defer unsubSecond()

	hub.Publish(events.Event{Kind: events.KindComment, Recipient: walletAlice})

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}
