package distribution

import (
	"testing"

	"github.com/holiman/uint256"
	ledgererrors "github.com/mezonai/snapledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestProRata(t *testing.T) {
	half := new(uint256.Int).Lsh(u(1), 255)
	maxInt := new(uint256.Int).SetAllOne()

	tests := []struct {
		name    string
		balance *uint256.Int
		pool    *uint256.Int
		supply  *uint256.Int
		want    *uint256.Int
		wantErr error
	}{
		{name: "quarter", balance: u(100), pool: u(1000), supply: u(400), want: u(250)},
		{name: "three quarters", balance: u(300), pool: u(1000), supply: u(400), want: u(750)},
		{name: "floor", balance: u(1), pool: u(100), supply: u(3), want: u(33)},
		{name: "wide product", balance: half, pool: maxInt, supply: maxInt, want: half},
		{name: "quotient overflow", balance: maxInt, pool: maxInt, supply: u(1), wantErr: ledgererrors.ErrArithmeticOverflow},
		{name: "zero supply", balance: u(1), pool: u(1), supply: u(0), wantErr: ledgererrors.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProRata(tt.balance, tt.pool, tt.supply)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Eq(got), "got %s want %s", got.Dec(), tt.want.Dec())
		})
	}
}

func TestProRataNeverExceedsPool(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		balances := rapid.SliceOfN(rapid.Uint64Range(1, 1<<62), 1, 20).Draw(t, "balances")
		pool := uint256.NewInt(rapid.Uint64().Draw(t, "pool"))

		supply := uint256.NewInt(0)
		for _, b := range balances {
			supply.Add(supply, uint256.NewInt(b))
		}

		paid := uint256.NewInt(0)
		for _, b := range balances {
			payout, err := ProRata(uint256.NewInt(b), pool, supply)
			if err != nil {
				t.Fatalf("ProRata: %v", err)
			}
			paid.Add(paid, payout)
		}
		if paid.Gt(pool) {
			t.Fatalf("paid %s exceeds pool %s", paid.Dec(), pool.Dec())
		}
		// Floor division loses strictly less than one unit per holder.
		lost := new(uint256.Int).Sub(pool, paid)
		if lost.Cmp(uint256.NewInt(uint64(len(balances)))) >= 0 {
			t.Fatalf("dust %s too large for %d holders", lost.Dec(), len(balances))
		}
	})
}
