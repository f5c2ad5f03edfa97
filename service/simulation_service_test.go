package service

import (
	"context"
	"testing"

	"github.com/mezonai/snapledger/common"
	"github.com/mezonai/snapledger/config"
	"github.com/mezonai/snapledger/db"
	ledgererrors "github.com/mezonai/snapledger/errors"
	"github.com/mezonai/snapledger/events"
	"github.com/mezonai/snapledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = common.DeriveAddress("owner")
	alice = common.DeriveAddress("alice")
	bob   = common.DeriveAddress("bob")
	carol = common.DeriveAddress("carol")
	vault = common.DeriveAddress("vault")
)

func testGenesis(script ...config.Operation) *config.GenesisConfig {
	return &config.GenesisConfig{
		Owner: owner,
		Vault: vault,
		Holders: []config.Allocation{
			{Address: alice, Amount: "100"},
			{Address: bob, Amount: "300"},
		},
		Rewards: []config.Allocation{{Address: owner, Amount: "10_000"}},
		Script:  script,
	}
}

func TestNewSimulationService_NilGenesis(t *testing.T) {
	_, err := NewSimulationService(nil, nil)
	assert.Error(t, err)
}

func TestRun_ProRataRound(t *testing.T) {
	svc, err := NewSimulationService(testGenesis(
		config.Operation{Kind: config.OpFund, Caller: owner, Amount: "1000"},
		config.Operation{Kind: config.OpTransfer, From: alice, To: carol, Amount: "100"},
		config.Operation{Kind: config.OpClaim, Caller: alice},
		config.Operation{Kind: config.OpClaim, Caller: bob},
		config.Operation{Kind: config.OpClaim, Caller: carol},
		config.Operation{Kind: config.OpClaim, Caller: alice},
	), nil)
	require.NoError(t, err)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Steps, 6)

	assert.True(t, summary.Steps[0].OK)
	assert.Equal(t, uint64(1), summary.Steps[0].SnapshotID)
	assert.True(t, summary.Steps[1].OK)
	assert.Equal(t, "250", summary.Steps[2].Payout)
	assert.Equal(t, "750", summary.Steps[3].Payout)
	assert.False(t, summary.Steps[4].OK)
	assert.Equal(t, string(ledgererrors.ErrCodeNoEntitlement), summary.Steps[4].Code)
	assert.False(t, summary.Steps[5].OK)
	assert.Equal(t, string(ledgererrors.ErrCodeAlreadyClaimed), summary.Steps[5].Code)

	require.Len(t, summary.Rounds, 1)
	assert.Equal(t, "1000", summary.Rounds[0].Paid)
	assert.Equal(t, "0", summary.Rounds[0].Residual)
	assert.Equal(t, uint64(2), summary.Rounds[0].Claims)
	assert.Equal(t, 2, summary.Rounds[0].Holders)
	assert.NotEmpty(t, summary.Rounds[0].Digest)

	assert.Equal(t, "400", summary.TotalSupply)
	assert.Equal(t, "0", summary.VaultBalance)

	rewards := map[string]string{}
	for _, h := range summary.Holders {
		rewards[h.Address] = h.Reward
	}
	assert.Equal(t, "250", rewards[alice])
	assert.Equal(t, "750", rewards[bob])
	assert.Equal(t, "0", rewards[carol])
}

func TestRun_RejectedFundMutatesNothing(t *testing.T) {
	svc, err := NewSimulationService(testGenesis(
		config.Operation{Kind: config.OpFund, Caller: alice, Amount: "10"},
		config.Operation{Kind: config.OpFund, Caller: owner, Amount: "0"},
		config.Operation{Kind: config.OpClaim, Caller: alice},
	), nil)
	require.NoError(t, err)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(ledgererrors.ErrCodeUnauthorized), summary.Steps[0].Code)
	assert.Equal(t, string(ledgererrors.ErrCodeZeroAmount), summary.Steps[1].Code)
	assert.Equal(t, string(ledgererrors.ErrCodeNoActiveRound), summary.Steps[2].Code)
	assert.Empty(t, summary.Rounds)
	assert.Equal(t, uint64(0), svc.Token().CurrentSnapshotID())
	assert.Equal(t, "0", summary.VaultBalance)
}

func TestRun_CancelledContext(t *testing.T) {
	svc, err := NewSimulationService(testGenesis(
		config.Operation{Kind: config.OpFund, Caller: owner, Amount: "1"},
	), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, svc.Controller().CurrentRound())
}

func TestRun_JournalsThroughEventBus(t *testing.T) {
	provider, err := db.NewMemLevelDBProvider()
	require.NoError(t, err)
	journal, err := store.NewGenericSettlementStore(provider)
	require.NoError(t, err)
	defer journal.MustClose()

	bus := events.NewEventBus(64)
	recorder := store.NewRecorder(bus, journal)
	recorder.Start()

	svc, err := NewSimulationService(testGenesis(
		config.Operation{Kind: config.OpFund, Caller: owner, Amount: "1000"},
		config.Operation{Kind: config.OpClaim, Caller: bob},
		config.Operation{Kind: config.OpFund, Caller: owner, Amount: "400"},
		config.Operation{Kind: config.OpClaim, Caller: alice},
	), bus)
	require.NoError(t, err)
	_, err = svc.Run(context.Background())
	require.NoError(t, err)
	recorder.Stop()

	rounds, err := journal.ListRounds()
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "750", rounds[0].Paid.Dec())
	assert.Equal(t, "250", rounds[0].Residual().Dec())
	assert.Equal(t, "100", rounds[1].Paid.Dec())

	claims, err := journal.ListClaims(rounds[1].SnapshotID)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, alice, claims[0].Account)
}
