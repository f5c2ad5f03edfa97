package store

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/db"
	"github.com/mezonai/snapledger/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T) *GenericSettlementStore {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	s, err := NewGenericSettlementStore(db.NewRedisProviderWithClient(client, redisNamespace))
	require.NoError(t, err)
	t.Cleanup(s.MustClose)
	return s
}

// 42, 63, 91 and 93 are the byte values of '*', '?', '[' and ']'
func TestRedisListClaims_ScopedToRound(t *testing.T) {
	s := newRedisTestStore(t)

	snapshots := []uint64{41, 42, 43, 63, 91, 93}
	for i, id := range snapshots {
		require.NoError(t, s.StoreRound(openRound(uint64(i+1), id, 1000)))
		require.NoError(t, s.StoreClaim(&types.ClaimRecord{
			Account:    "holder",
			SnapshotID: id,
			Payout:     uint256.NewInt(id),
		}))
	}

	for _, id := range snapshots {
		claims, err := s.ListClaims(id)
		require.NoError(t, err)
		require.Len(t, claims, 1, "snapshot %d", id)
		assert.Equal(t, id, claims[0].SnapshotID)
		assert.Equal(t, id, claims[0].Payout.Uint64())
	}

	rounds, err := s.ListRounds()
	require.NoError(t, err)
	require.Len(t, rounds, len(snapshots))
	for i, r := range rounds {
		assert.Equal(t, snapshots[i], r.SnapshotID)
		assert.Equal(t, uint64(1), r.Claims)
	}
}

func TestRedisStoreClaim_DuplicateIgnored(t *testing.T) {
	s := newRedisTestStore(t)
	require.NoError(t, s.StoreRound(openRound(1, 42, 100)))

	claim := &types.ClaimRecord{Account: "alice", SnapshotID: 42, Payout: uint256.NewInt(40)}
	require.NoError(t, s.StoreClaim(claim))
	require.NoError(t, s.StoreClaim(claim))

	round, err := s.GetRound(42)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), round.Paid.Uint64())
	assert.Equal(t, uint64(1), round.Claims)
}
