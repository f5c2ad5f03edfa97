package distribution

import (
	"fmt"

	"github.com/holiman/uint256"
	ledgererrors "github.com/mezonai/snapledger/errors"
)

// ProRata computes floor(balance * pool / supply). The product is taken at
// 512-bit width so it cannot overflow before the division.
func ProRata(balance, pool, supply *uint256.Int) (*uint256.Int, error) {
	if supply.IsZero() {
		return nil, fmt.Errorf("zero total supply at snapshot: %w", ledgererrors.ErrInternal)
	}
	payout, overflow := new(uint256.Int).MulDivOverflow(balance, pool, supply)
	if overflow {
		return nil, fmt.Errorf("payout %s*%s/%s: %w", balance.Dec(), pool.Dec(), supply.Dec(), ledgererrors.ErrArithmeticOverflow)
	}
	return payout, nil
}
