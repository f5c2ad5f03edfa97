package types

import (
	"github.com/holiman/uint256"
)

// Checkpoint is the value an account (or total supply) held when snapshot
// SnapshotID was sealed. Written lazily by the first mutation after the seal.
type Checkpoint struct {
	SnapshotID uint64       `json:"snapshot_id"`
	Value      *uint256.Int `json:"value"`
}

type Account struct {
	Address string       `json:"address"`
	Balance *uint256.Int `json:"balance"`
	History []Checkpoint `json:"history"`
}

// SnapshotAccount is an account's balance resolved at one snapshot
type SnapshotAccount struct {
	Address    string       `json:"address"`
	SnapshotID uint64       `json:"snapshot_id"`
	Balance    *uint256.Int `json:"balance"`
}
