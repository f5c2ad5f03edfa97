package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/config"
	ledgererrors "github.com/mezonai/snapledger/errors"
	"github.com/mezonai/snapledger/events"
	"github.com/mezonai/snapledger/interfaces"
	"github.com/mezonai/snapledger/logx"
	"github.com/mezonai/snapledger/monitoring"
	"github.com/mezonai/snapledger/types"
	"github.com/mezonai/snapledger/utils"
)

// Ledger is a fungible balance ledger with point-in-time snapshots.
// All methods are safe for concurrent use; every mutation is applied
// atomically under the ledger lock.
type Ledger struct {
	mu             sync.RWMutex
	name           string
	balances       map[string]*uint256.Int
	totalSupply    *uint256.Int
	snapshotID     uint64
	balanceHistory map[string]*checkpoints
	supplyHistory  checkpoints
	eventSink      interfaces.EventSink
}

type Option func(*Ledger)

// WithName sets the log category suffix, useful when several ledgers run side by side
func WithName(name string) Option {
	return func(l *Ledger) {
		l.name = name
	}
}

// WithEventSink publishes balance and snapshot events to sink
func WithEventSink(sink interfaces.EventSink) Option {
	return func(l *Ledger) {
		l.eventSink = sink
	}
}

func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		name:           "LEDGER",
		balances:       make(map[string]*uint256.Int),
		totalSupply:    uint256.NewInt(0),
		balanceHistory: make(map[string]*checkpoints),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateAccountsFromGenesis mints the genesis allocations
func (l *Ledger) CreateAccountsFromGenesis(allocs []config.Allocation) error {
	for _, alloc := range allocs {
		amount, err := alloc.Value()
		if err != nil {
			return fmt.Errorf("could not parse genesis amount for %s: %w", alloc.Address, err)
		}
		if err := l.Mint(alloc.Address, amount); err != nil {
			return fmt.Errorf("could not create genesis account %s: %w", alloc.Address, err)
		}
	}
	return nil
}

// Transfer moves amount from one account to another. Total supply is unchanged.
func (l *Ledger) Transfer(from, to string, amount *uint256.Int) error {
	if from == "" || to == "" {
		return fmt.Errorf("transfer %q -> %q: %w", from, to, ledgererrors.ErrInvalidAddress)
	}
	if amount == nil {
		return fmt.Errorf("transfer: %w", ledgererrors.ErrZeroAmount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	sender := l.balanceOf(from)
	if sender.Lt(amount) {
		return fmt.Errorf("transfer %s -> %s of %s (balance %s): %w",
			utils.ShortenLog(from), utils.ShortenLog(to), amount.Dec(), sender.Dec(), ledgererrors.ErrInsufficientBalance)
	}

	l.checkpointAccount(from)
	l.checkpointAccount(to)
	if from != to {
		l.setBalance(from, new(uint256.Int).Sub(sender, amount))
		l.setBalance(to, new(uint256.Int).Add(l.balanceOf(to), amount))
	}

	l.afterMutation(events.OpTransfer, from, to, amount)
	return nil
}

// Mint creates amount new units in account to
func (l *Ledger) Mint(to string, amount *uint256.Int) error {
	if to == "" {
		return fmt.Errorf("mint: %w", ledgererrors.ErrInvalidAddress)
	}
	if amount == nil {
		return fmt.Errorf("mint: %w", ledgererrors.ErrZeroAmount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	supply, overflow := new(uint256.Int).AddOverflow(l.totalSupply, amount)
	if overflow {
		return fmt.Errorf("mint %s to %s: %w", amount.Dec(), utils.ShortenLog(to), ledgererrors.ErrArithmeticOverflow)
	}

	l.checkpointAccount(to)
	l.checkpointSupply()
	l.setBalance(to, new(uint256.Int).Add(l.balanceOf(to), amount))
	l.totalSupply = supply

	l.afterMutation(events.OpMint, "", to, amount)
	return nil
}

// Burn destroys amount units held by from
func (l *Ledger) Burn(from string, amount *uint256.Int) error {
	if from == "" {
		return fmt.Errorf("burn: %w", ledgererrors.ErrInvalidAddress)
	}
	if amount == nil {
		return fmt.Errorf("burn: %w", ledgererrors.ErrZeroAmount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	holder := l.balanceOf(from)
	if holder.Lt(amount) {
		return fmt.Errorf("burn %s from %s (balance %s): %w",
			amount.Dec(), utils.ShortenLog(from), holder.Dec(), ledgererrors.ErrInsufficientBalance)
	}

	l.checkpointAccount(from)
	l.checkpointSupply()
	l.setBalance(from, new(uint256.Int).Sub(holder, amount))
	l.totalSupply = new(uint256.Int).Sub(l.totalSupply, amount)

	l.afterMutation(events.OpBurn, from, "", amount)
	return nil
}

// Snapshot seals the current state and returns the new snapshot id. No history
// is written here; the next mutation of each value records it.
func (l *Ledger) Snapshot() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.snapshotID++
	id := l.snapshotID

	logx.Info(l.name, fmt.Sprintf("Sealed snapshot %d | total_supply=%s", id, l.totalSupply.Dec()))
	monitoring.SetSnapshotID(id)
	if l.eventSink != nil {
		l.eventSink.Publish(events.NewSnapshotTaken(id))
	}
	return id
}

// BalanceAt returns the balance addr held when snapshotID was sealed
func (l *Ledger) BalanceAt(addr string, snapshotID uint64) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.validateSnapshot(snapshotID); err != nil {
		return nil, err
	}
	return l.balanceAtLocked(addr, snapshotID).Clone(), nil
}

// TotalSupplyAt returns the total supply when snapshotID was sealed
func (l *Ledger) TotalSupplyAt(snapshotID uint64) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.validateSnapshot(snapshotID); err != nil {
		return nil, err
	}
	if v, found := l.supplyHistory.valueAt(snapshotID); found {
		return v.Clone(), nil
	}
	return l.totalSupply.Clone(), nil
}

// Balance returns current balance for addr
func (l *Ledger) Balance(addr string) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balanceOf(addr).Clone()
}

func (l *Ledger) TotalSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalSupply.Clone()
}

// CurrentSnapshotID returns the latest sealed snapshot id, 0 if none
func (l *Ledger) CurrentSnapshotID() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotID
}

// Accounts lists every address that holds a balance or has history, sorted
func (l *Ledger) Accounts() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.knownAccountsLocked()
}

func (l *Ledger) knownAccountsLocked() []string {
	seen := make(map[string]struct{}, len(l.balances)+len(l.balanceHistory))
	for addr := range l.balances {
		seen[addr] = struct{}{}
	}
	for addr := range l.balanceHistory {
		seen[addr] = struct{}{}
	}
	addrs := make([]string, 0, len(seen))
	for addr := range seen {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	return addrs
}

// GetAccount returns the live balance and recorded history of addr (nil if never seen)
func (l *Ledger) GetAccount(addr string) *types.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balance, hasBalance := l.balances[addr]
	history, hasHistory := l.balanceHistory[addr]
	if !hasBalance && !hasHistory {
		return nil
	}
	acc := &types.Account{Address: addr, Balance: uint256.NewInt(0)}
	if hasBalance {
		acc.Balance = balance.Clone()
	}
	if hasHistory {
		acc.History = history.snapshot()
	}
	return acc
}

func (l *Ledger) validateSnapshot(snapshotID uint64) error {
	if snapshotID == 0 || snapshotID > l.snapshotID {
		return fmt.Errorf("snapshot %d (latest %d): %w", snapshotID, l.snapshotID, ledgererrors.ErrInvalidSnapshot)
	}
	return nil
}

// balanceOf must be called with the lock held. The result must not be mutated.
func (l *Ledger) balanceOf(addr string) *uint256.Int {
	if b, ok := l.balances[addr]; ok {
		return b
	}
	return uint256.NewInt(0)
}

func (l *Ledger) setBalance(addr string, v *uint256.Int) {
	if v.IsZero() {
		delete(l.balances, addr)
		return
	}
	l.balances[addr] = v
}

func (l *Ledger) checkpointAccount(addr string) {
	if l.snapshotID == 0 {
		return
	}
	history, ok := l.balanceHistory[addr]
	if !ok {
		history = &checkpoints{}
		l.balanceHistory[addr] = history
	}
	history.record(l.snapshotID, l.balanceOf(addr))
}

func (l *Ledger) checkpointSupply() {
	l.supplyHistory.record(l.snapshotID, l.totalSupply)
}

func (l *Ledger) afterMutation(op events.BalanceOp, from, to string, amount *uint256.Int) {
	logx.Debug(l.name, fmt.Sprintf("Applied %s | from=%s | to=%s | amount=%s | snapshot=%d",
		op, utils.ShortenLog(from), utils.ShortenLog(to), amount.Dec(), l.snapshotID))
	monitoring.RecordBalanceOp(string(op))
	if l.eventSink != nil {
		l.eventSink.Publish(events.NewBalanceChanged(op, from, to, amount, l.snapshotID))
	}
}
