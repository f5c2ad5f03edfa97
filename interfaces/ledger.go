package interfaces

import (
	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/events"
)

// HistoricalLedger is the part of the snapshot ledger the distributor depends on
type HistoricalLedger interface {
	// Snapshot seals a new snapshot and returns its id
	Snapshot() uint64
	// BalanceAt returns the balance addr held when snapshotID was sealed
	BalanceAt(addr string, snapshotID uint64) (*uint256.Int, error)
	// TotalSupplyAt returns the total supply when snapshotID was sealed
	TotalSupplyAt(snapshotID uint64) (*uint256.Int, error)
}

// RewardCustody holds the reward asset on behalf of the distributor
type RewardCustody interface {
	// TransferIn pulls amount of the reward asset from an account into custody
	TransferIn(from string, amount *uint256.Int) error
	// TransferOut pays amount from custody to an account
	TransferOut(to string, amount *uint256.Int) error
	// Balance is the reward asset currently held
	Balance() *uint256.Int
}

// EventSink receives fire-and-forget notifications. Implementations must not block.
type EventSink interface {
	Publish(event events.LedgerEvent)
}
