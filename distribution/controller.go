package distribution

import (
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
	ledgererrors "github.com/mezonai/snapledger/errors"
	"github.com/mezonai/snapledger/events"
	"github.com/mezonai/snapledger/interfaces"
	"github.com/mezonai/snapledger/logx"
	"github.com/mezonai/snapledger/monitoring"
	"github.com/mezonai/snapledger/types"
	"github.com/mezonai/snapledger/utils"
)

type claimKey struct {
	account    string
	snapshotID uint64
}

// Controller pays a funded reward pool out pro-rata to holder balances at the
// round's snapshot. FundRound, Claim and TransferOwnership are serialized by
// one lock, so a claim never observes a half-opened round.
type Controller struct {
	mu        sync.Mutex
	ledger    interfaces.HistoricalLedger
	custody   interfaces.RewardCustody
	eventSink interfaces.EventSink
	owner     string
	rounds    []*types.Round
	claimed   map[claimKey]struct{}
	now       func() time.Time
}

type Option func(*Controller)

func WithEventSink(sink interfaces.EventSink) Option {
	return func(c *Controller) {
		c.eventSink = sink
	}
}

// WithClock overrides time.Now for round and claim timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(ledger interfaces.HistoricalLedger, custody interfaces.RewardCustody, owner string, opts ...Option) (*Controller, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger cannot be nil")
	}
	if custody == nil {
		return nil, fmt.Errorf("custody cannot be nil")
	}
	if owner == "" {
		return nil, fmt.Errorf("owner: %w", ledgererrors.ErrInvalidAddress)
	}
	c := &Controller{
		ledger:  ledger,
		custody: custody,
		owner:   owner,
		claimed: make(map[claimKey]struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FundRound pulls amount from the owner into custody, seals a ledger snapshot
// and opens a round over it. Any still-open round is superseded; whatever it
// did not pay out stays in custody and is no longer claimable.
func (c *Controller) FundRound(caller string, amount *uint256.Int) (*types.Round, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return nil, fmt.Errorf("fund round by %s: %w", utils.ShortenLog(caller), ledgererrors.ErrUnauthorized)
	}
	if amount == nil || amount.IsZero() {
		return nil, fmt.Errorf("fund round: %w", ledgererrors.ErrZeroAmount)
	}
	if err := c.custody.TransferIn(caller, amount); err != nil {
		return nil, fmt.Errorf("fund round: %w", err)
	}

	if prev := c.currentRound(); prev != nil {
		if residual := prev.Residual(); !residual.IsZero() {
			logx.Warn("DISTRIBUTION", fmt.Sprintf("Round %d superseded | snapshot=%d | unclaimed=%s", prev.Number, prev.SnapshotID, residual.Dec()))
		}
	}

	snapshotID := c.ledger.Snapshot()
	round := &types.Round{
		Number:     uint64(len(c.rounds)) + 1,
		SnapshotID: snapshotID,
		Pool:       amount.Clone(),
		Paid:       uint256.NewInt(0),
		OpenedAt:   c.now(),
	}
	c.rounds = append(c.rounds, round)

	logx.Info("DISTRIBUTION", fmt.Sprintf("Round %d opened | snapshot=%d | pool=%s", round.Number, snapshotID, amount.Dec()))
	monitoring.RecordRoundFunded(amount)
	if c.eventSink != nil {
		c.eventSink.Publish(events.NewRoundOpened(round.Number, amount, snapshotID, round.OpenedAt))
	}
	return round.Clone(), nil
}

// Claim pays caller its share of the current round. The claim is recorded
// before the payout leaves custody; a failed payout removes the record again.
func (c *Controller) Claim(caller string) (*uint256.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payout, err := c.claim(caller)
	if err != nil {
		monitoring.RecordClaimRejected(string(ledgererrors.CodeOf(err)))
		logx.Warn("DISTRIBUTION", fmt.Sprintf("Claim rejected | account=%s | reason=%v", utils.ShortenLog(caller), err))
		return nil, err
	}
	return payout, nil
}

func (c *Controller) claim(caller string) (*uint256.Int, error) {
	round, payout, err := c.entitlement(caller)
	if err != nil {
		return nil, err
	}

	key := claimKey{account: caller, snapshotID: round.SnapshotID}
	c.claimed[key] = struct{}{}
	if err := c.custody.TransferOut(caller, payout); err != nil {
		delete(c.claimed, key)
		return nil, fmt.Errorf("claim payout to %s: %w", utils.ShortenLog(caller), err)
	}

	round.Paid.Add(round.Paid, payout)
	round.Claims++
	settledAt := c.now()

	logx.Info("DISTRIBUTION", fmt.Sprintf("Claim settled | account=%s | snapshot=%d | payout=%s", utils.ShortenLog(caller), round.SnapshotID, payout.Dec()))
	monitoring.RecordClaimSettled(payout)
	if c.eventSink != nil {
		c.eventSink.Publish(events.NewClaimSettled(caller, round.SnapshotID, payout, settledAt))
	}
	return payout.Clone(), nil
}

// Entitlement reports what Claim would pay account right now, failing for
// the same reasons Claim would. It changes nothing.
func (c *Controller) Entitlement(account string) (*uint256.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, payout, err := c.entitlement(account)
	if err != nil {
		return nil, err
	}
	return payout, nil
}

func (c *Controller) entitlement(account string) (*types.Round, *uint256.Int, error) {
	round := c.currentRound()
	if round == nil {
		return nil, nil, fmt.Errorf("claim by %s: %w", utils.ShortenLog(account), ledgererrors.ErrNoActiveRound)
	}
	if _, done := c.claimed[claimKey{account: account, snapshotID: round.SnapshotID}]; done {
		return nil, nil, fmt.Errorf("claim by %s for snapshot %d: %w", utils.ShortenLog(account), round.SnapshotID, ledgererrors.ErrAlreadyClaimed)
	}

	balance, err := c.ledger.BalanceAt(account, round.SnapshotID)
	if err != nil {
		return nil, nil, fmt.Errorf("balance of %s at snapshot %d: %w", utils.ShortenLog(account), round.SnapshotID, err)
	}
	if balance.IsZero() {
		return nil, nil, fmt.Errorf("claim by %s for snapshot %d: %w", utils.ShortenLog(account), round.SnapshotID, ledgererrors.ErrNoEntitlement)
	}
	supply, err := c.ledger.TotalSupplyAt(round.SnapshotID)
	if err != nil {
		return nil, nil, fmt.Errorf("total supply at snapshot %d: %w", round.SnapshotID, err)
	}

	payout, err := ProRata(balance, round.Pool, supply)
	if err != nil {
		return nil, nil, err
	}
	return round, payout, nil
}

// TransferOwnership hands the funding capability to newOwner
func (c *Controller) TransferOwnership(caller, newOwner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return fmt.Errorf("transfer ownership by %s: %w", utils.ShortenLog(caller), ledgererrors.ErrUnauthorized)
	}
	if newOwner == "" {
		return fmt.Errorf("transfer ownership: %w", ledgererrors.ErrInvalidAddress)
	}
	logx.Info("DISTRIBUTION", fmt.Sprintf("Ownership transferred | from=%s | to=%s", utils.ShortenLog(c.owner), utils.ShortenLog(newOwner)))
	c.owner = newOwner
	return nil
}

func (c *Controller) Owner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// HasClaimed reports whether account claimed the round backed by snapshotID
func (c *Controller) HasClaimed(account string, snapshotID uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, done := c.claimed[claimKey{account: account, snapshotID: snapshotID}]
	return done
}

// CurrentSnapshotID returns the snapshot backing the open round, 0 if none was funded
func (c *Controller) CurrentSnapshotID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if round := c.currentRound(); round != nil {
		return round.SnapshotID
	}
	return 0
}

// PoolAmount returns the current round's pool, zero if none was funded
func (c *Controller) PoolAmount() *uint256.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if round := c.currentRound(); round != nil {
		return round.Pool.Clone()
	}
	return uint256.NewInt(0)
}

// CurrentRound returns a copy of the open round, nil if none was funded
func (c *Controller) CurrentRound() *types.Round {
	c.mu.Lock()
	defer c.mu.Unlock()
	if round := c.currentRound(); round != nil {
		return round.Clone()
	}
	return nil
}

// Rounds returns copies of every round in funding order
func (c *Controller) Rounds() []*types.Round {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*types.Round, len(c.rounds))
	for i, r := range c.rounds {
		out[i] = r.Clone()
	}
	return out
}

func (c *Controller) currentRound() *types.Round {
	if len(c.rounds) == 0 {
		return nil
	}
	return c.rounds[len(c.rounds)-1]
}
