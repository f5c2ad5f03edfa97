package store

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_JournalsRoundsAndClaims(t *testing.T) {
	s := newTestStore(t)
	bus := events.NewEventBus(16)
	rec := NewRecorder(bus, s)
	rec.Start()
	rec.Start()
	assert.Equal(t, 1, bus.GetTotalSubscriptions())

	now := time.Now().UTC()
	bus.Publish(events.NewSnapshotTaken(1))
	bus.Publish(events.NewRoundOpened(1, uint256.NewInt(1000), 1, now))
	bus.Publish(events.NewClaimSettled("alice", 1, uint256.NewInt(250), now))
	bus.Publish(events.NewClaimSettled("bob", 1, uint256.NewInt(750), now))

	rec.Stop()
	assert.Equal(t, 0, bus.GetTotalSubscriptions())

	round, err := s.GetRound(1)
	require.NoError(t, err)
	require.NotNil(t, round)
	assert.Equal(t, uint64(1000), round.Pool.Uint64())
	assert.Equal(t, uint64(1000), round.Paid.Uint64())
	assert.Equal(t, uint64(2), round.Claims)

	claims, err := s.ListClaims(1)
	require.NoError(t, err)
	assert.Len(t, claims, 2)
}

func TestRecorder_StopWithoutStart(t *testing.T) {
	rec := NewRecorder(events.NewEventBus(1), newTestStore(t))
	rec.Stop()
}

func TestRecorder_ClaimWithoutRoundIsSkipped(t *testing.T) {
	s := newTestStore(t)
	bus := events.NewEventBus(4)
	rec := NewRecorder(bus, s)
	rec.Start()

	bus.Publish(events.NewClaimSettled("alice", 5, uint256.NewInt(1), time.Now()))
	rec.Stop()

	has, err := s.HasClaim(5, "alice")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRecorder_LedgerTrafficDoesNotCrowdOutRounds(t *testing.T) {
	s := newTestStore(t)
	bus := events.NewEventBus(2)
	rec := NewRecorder(bus, s)
	rec.Start()

	for i := 0; i < 100; i++ {
		bus.Publish(events.NewBalanceChanged(events.OpTransfer, "alice", "bob", uint256.NewInt(1), 1))
		bus.Publish(events.NewSnapshotTaken(uint64(i + 1)))
	}
	now := time.Now().UTC()
	bus.Publish(events.NewRoundOpened(1, uint256.NewInt(100), 7, now))
	bus.Publish(events.NewClaimSettled("alice", 7, uint256.NewInt(40), now))
	rec.Stop()

	round, err := s.GetRound(7)
	require.NoError(t, err)
	require.NotNil(t, round)
	assert.Equal(t, uint64(40), round.Paid.Uint64())
}
