package ledger

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/types"
)

// HoldersAt lists every account with a non-zero balance when snapshotID was
// sealed, sorted by address.
func (l *Ledger) HoldersAt(snapshotID uint64) ([]types.SnapshotAccount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.validateSnapshot(snapshotID); err != nil {
		return nil, err
	}
	holders := l.holdersAtLocked(snapshotID)
	for i := range holders {
		holders[i].Balance = holders[i].Balance.Clone()
	}
	return holders, nil
}

// SnapshotDigest computes a deterministic hash over every non-zero balance and
// the total supply as of snapshotID. Two ledgers agree on a snapshot iff their
// digests match. Each record is encoded as len(address)|address|balance(32B BE),
// sorted by address, followed by the supply.
func (l *Ledger) SnapshotDigest(snapshotID uint64) ([32]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.validateSnapshot(snapshotID); err != nil {
		return [32]byte{}, err
	}

	h := sha256.New()
	buf := make([]byte, 8)
	for _, holder := range l.holdersAtLocked(snapshotID) {
		binary.BigEndian.PutUint64(buf, uint64(len(holder.Address)))
		h.Write(buf)
		h.Write([]byte(holder.Address))
		word := holder.Balance.Bytes32()
		h.Write(word[:])
	}
	supply := l.totalSupply
	if v, found := l.supplyHistory.valueAt(snapshotID); found {
		supply = v
	}
	word := supply.Bytes32()
	h.Write(word[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// holdersAtLocked returns balances shared with the ledger; callers must not mutate them
func (l *Ledger) holdersAtLocked(snapshotID uint64) []types.SnapshotAccount {
	var holders []types.SnapshotAccount
	for _, addr := range l.knownAccountsLocked() {
		balance := l.balanceAtLocked(addr, snapshotID)
		if balance.IsZero() {
			continue
		}
		holders = append(holders, types.SnapshotAccount{
			Address:    addr,
			SnapshotID: snapshotID,
			Balance:    balance,
		})
	}
	return holders
}

func (l *Ledger) balanceAtLocked(addr string, snapshotID uint64) *uint256.Int {
	if history, ok := l.balanceHistory[addr]; ok {
		if v, found := history.valueAt(snapshotID); found {
			return v
		}
	}
	return l.balanceOf(addr)
}
