package events

import (
	"time"

	"github.com/holiman/uint256"
)

// EventType is an enum-like string type for ledger and distribution events
type EventType string

const (
	EventSnapshotTaken  EventType = "SnapshotTaken"
	EventBalanceChanged EventType = "BalanceChanged"
	EventRoundOpened    EventType = "RoundOpened"
	EventClaimSettled   EventType = "ClaimSettled"
)

// LedgerEvent represents anything observable that happens in the ledger or the distributor
type LedgerEvent interface {
	Type() EventType
	Timestamp() time.Time
	SnapshotID() uint64
}

// SnapshotTaken event when the ledger seals a new snapshot
type SnapshotTaken struct {
	snapshotID uint64
	timestamp  time.Time
}

func NewSnapshotTaken(snapshotID uint64) *SnapshotTaken {
	return &SnapshotTaken{
		snapshotID: snapshotID,
		timestamp:  time.Now(),
	}
}

func (e *SnapshotTaken) Type() EventType {
	return EventSnapshotTaken
}

func (e *SnapshotTaken) Timestamp() time.Time {
	return e.timestamp
}

func (e *SnapshotTaken) SnapshotID() uint64 {
	return e.snapshotID
}

// BalanceOp names the ledger mutation behind a BalanceChanged event
type BalanceOp string

const (
	OpTransfer BalanceOp = "transfer"
	OpMint     BalanceOp = "mint"
	OpBurn     BalanceOp = "burn"
)

// BalanceChanged event after a transfer, mint or burn. From is empty for
// mints and To is empty for burns.
type BalanceChanged struct {
	op         BalanceOp
	from       string
	to         string
	amount     *uint256.Int
	snapshotID uint64
	timestamp  time.Time
}

func NewBalanceChanged(op BalanceOp, from, to string, amount *uint256.Int, snapshotID uint64) *BalanceChanged {
	return &BalanceChanged{
		op:         op,
		from:       from,
		to:         to,
		amount:     amount.Clone(),
		snapshotID: snapshotID,
		timestamp:  time.Now(),
	}
}

func (e *BalanceChanged) Type() EventType {
	return EventBalanceChanged
}

func (e *BalanceChanged) Timestamp() time.Time {
	return e.timestamp
}

// SnapshotID is the latest sealed snapshot when the change was applied
func (e *BalanceChanged) SnapshotID() uint64 {
	return e.snapshotID
}

func (e *BalanceChanged) Op() BalanceOp {
	return e.op
}

func (e *BalanceChanged) From() string {
	return e.from
}

func (e *BalanceChanged) To() string {
	return e.to
}

func (e *BalanceChanged) Amount() *uint256.Int {
	return e.amount
}

// RoundOpened event when the owner funds a new distribution round
type RoundOpened struct {
	round      uint64
	amount     *uint256.Int
	snapshotID uint64
	timestamp  time.Time
}

func NewRoundOpened(round uint64, amount *uint256.Int, snapshotID uint64, timestamp time.Time) *RoundOpened {
	return &RoundOpened{
		round:      round,
		amount:     amount.Clone(),
		snapshotID: snapshotID,
		timestamp:  timestamp,
	}
}

func (e *RoundOpened) Type() EventType {
	return EventRoundOpened
}

func (e *RoundOpened) Timestamp() time.Time {
	return e.timestamp
}

func (e *RoundOpened) SnapshotID() uint64 {
	return e.snapshotID
}

func (e *RoundOpened) Round() uint64 {
	return e.round
}

func (e *RoundOpened) Amount() *uint256.Int {
	return e.amount
}

// ClaimSettled event when a holder's payout has been transferred out of custody
type ClaimSettled struct {
	account    string
	payout     *uint256.Int
	snapshotID uint64
	timestamp  time.Time
}

func NewClaimSettled(account string, snapshotID uint64, payout *uint256.Int, timestamp time.Time) *ClaimSettled {
	return &ClaimSettled{
		account:    account,
		payout:     payout.Clone(),
		snapshotID: snapshotID,
		timestamp:  timestamp,
	}
}

func (e *ClaimSettled) Type() EventType {
	return EventClaimSettled
}

func (e *ClaimSettled) Timestamp() time.Time {
	return e.timestamp
}

func (e *ClaimSettled) SnapshotID() uint64 {
	return e.snapshotID
}

func (e *ClaimSettled) Account() string {
	return e.account
}

func (e *ClaimSettled) Payout() *uint256.Int {
	return e.payout
}
