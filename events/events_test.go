package events

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	eventBus := NewEventBus(4)

	id, eventChan := eventBus.Subscribe()
	assert.Equal(t, 1, eventBus.GetTotalSubscriptions())
	assert.True(t, eventBus.HasSubscriber(id))

	event := NewRoundOpened(1, uint256.NewInt(1000), 1, time.Now())
	eventBus.Publish(event)

	select {
	case received := <-eventChan:
		assert.Equal(t, EventRoundOpened, received.Type())
		assert.Equal(t, uint64(1), received.SnapshotID())
		opened, ok := received.(*RoundOpened)
		require.True(t, ok)
		assert.Equal(t, uint64(1000), opened.Amount().Uint64())
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for event")
	}

	assert.True(t, eventBus.Unsubscribe(id))
	assert.False(t, eventBus.Unsubscribe(id))
	assert.Equal(t, 0, eventBus.GetTotalSubscriptions())

	_, open := <-eventChan
	assert.False(t, open, "channel should be closed after unsubscribe")
}

func TestPublishDropsWhenFull(t *testing.T) {
	eventBus := NewEventBus(1)
	_, ch := eventBus.Subscribe()

	eventBus.Publish(NewSnapshotTaken(1))
	eventBus.Publish(NewSnapshotTaken(2))

	first := <-ch
	assert.Equal(t, uint64(1), first.SnapshotID())
	select {
	case ev := <-ch:
		t.Fatalf("unexpected second event %v", ev)
	default:
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	eventBus := NewEventBus(0)
	assert.NotPanics(t, func() {
		eventBus.Publish(NewSnapshotTaken(3))
	})
}

func TestEventPayloadsAreCopied(t *testing.T) {
	amount := uint256.NewInt(10)
	changed := NewBalanceChanged(OpTransfer, "alice", "bob", amount, 2)
	settled := NewClaimSettled("alice", 2, amount, time.Now())
	amount.SetUint64(99)

	assert.Equal(t, uint64(10), changed.Amount().Uint64())
	assert.Equal(t, uint64(10), settled.Payout().Uint64())
	assert.Equal(t, OpTransfer, changed.Op())
	assert.Equal(t, "alice", changed.From())
	assert.Equal(t, "bob", changed.To())
	assert.Equal(t, EventBalanceChanged, changed.Type())
	assert.Equal(t, "alice", settled.Account())
	assert.Equal(t, EventClaimSettled, settled.Type())
}

func TestSubscribeTypesFiltersBeforeBuffering(t *testing.T) {
	eventBus := NewEventBus(1)
	_, all := eventBus.Subscribe()
	_, rounds := eventBus.SubscribeTypes(EventRoundOpened)

	for i := 0; i < 10; i++ {
		eventBus.Publish(NewBalanceChanged(OpTransfer, "alice", "bob", uint256.NewInt(1), 1))
	}
	eventBus.Publish(NewRoundOpened(1, uint256.NewInt(1000), 1, time.Now()))

	select {
	case ev := <-rounds:
		assert.Equal(t, EventRoundOpened, ev.Type())
	default:
		t.Fatal("round event was crowded out")
	}

	first := <-all
	assert.Equal(t, EventBalanceChanged, first.Type())
}
