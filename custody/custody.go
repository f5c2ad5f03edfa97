package custody

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/ledger"
	"github.com/mezonai/snapledger/logx"
	"github.com/mezonai/snapledger/utils"
)

// LedgerCustody keeps the reward asset in a vault account of a second ledger.
type LedgerCustody struct {
	asset *ledger.Ledger
	vault string
}

func NewLedgerCustody(asset *ledger.Ledger, vault string) (*LedgerCustody, error) {
	if asset == nil {
		return nil, fmt.Errorf("asset ledger cannot be nil")
	}
	if vault == "" {
		return nil, fmt.Errorf("vault address cannot be empty")
	}
	return &LedgerCustody{asset: asset, vault: vault}, nil
}

// TransferIn pulls amount from an account into the vault
func (c *LedgerCustody) TransferIn(from string, amount *uint256.Int) error {
	if err := c.asset.Transfer(from, c.vault, amount); err != nil {
		return fmt.Errorf("custody transfer in from %s: %w", utils.ShortenLog(from), err)
	}
	logx.Info("CUSTODY", fmt.Sprintf("Received %s from %s | vault_balance=%s", amount.Dec(), utils.ShortenLog(from), c.asset.Balance(c.vault).Dec()))
	return nil
}

// TransferOut pays amount from the vault to an account
func (c *LedgerCustody) TransferOut(to string, amount *uint256.Int) error {
	if err := c.asset.Transfer(c.vault, to, amount); err != nil {
		return fmt.Errorf("custody transfer out to %s: %w", utils.ShortenLog(to), err)
	}
	return nil
}

func (c *LedgerCustody) Balance() *uint256.Int {
	return c.asset.Balance(c.vault)
}

func (c *LedgerCustody) Vault() string {
	return c.vault
}
