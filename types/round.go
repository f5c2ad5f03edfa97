package types

import (
	"time"

	"github.com/holiman/uint256"
)

// Round is one funded distribution period backed by exactly one snapshot.
type Round struct {
	Number     uint64       `json:"number"`
	SnapshotID uint64       `json:"snapshot_id"`
	Pool       *uint256.Int `json:"pool"`
	Paid       *uint256.Int `json:"paid"`
	Claims     uint64       `json:"claims"`
	OpenedAt   time.Time    `json:"opened_at"`
}

// Residual is the part of the pool not paid out (floor-division dust plus
// anything still unclaimed).
func (r *Round) Residual() *uint256.Int {
	if r.Paid.Gt(r.Pool) {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Sub(r.Pool, r.Paid)
}

// Clone returns a deep copy safe to hand out of the controller lock.
func (r *Round) Clone() *Round {
	cp := *r
	cp.Pool = r.Pool.Clone()
	cp.Paid = r.Paid.Clone()
	return &cp
}

// ClaimRecord is a settled claim for (Account, SnapshotID).
type ClaimRecord struct {
	Account    string       `json:"account"`
	SnapshotID uint64       `json:"snapshot_id"`
	Payout     *uint256.Int `json:"payout"`
	SettledAt  time.Time    `json:"settled_at"`
}
