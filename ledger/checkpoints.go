package ledger

import (
	"sort"

	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/types"
)

// checkpoints is an append-only, id-ordered history for one balance or for
// total supply. An entry (s, v) means v was the value when snapshot s was sealed.
// Entries are written by the first mutation after s, so a value that never
// changes across several snapshots costs a single entry.
type checkpoints struct {
	entries []types.Checkpoint
}

// record stores the pre-mutation value for the current snapshot boundary, at
// most once per boundary. Nothing is recorded before the first snapshot.
func (c *checkpoints) record(current uint64, value *uint256.Int) {
	if current == 0 {
		return
	}
	if n := len(c.entries); n > 0 && c.entries[n-1].SnapshotID >= current {
		return
	}
	c.entries = append(c.entries, types.Checkpoint{SnapshotID: current, Value: value.Clone()})
}

// valueAt returns the value recorded at the first boundary >= snapshotID.
// ok is false when the value has not changed since snapshotID was sealed,
// in which case the live value is the answer.
func (c *checkpoints) valueAt(snapshotID uint64) (*uint256.Int, bool) {
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].SnapshotID >= snapshotID
	})
	if i == len(c.entries) {
		return nil, false
	}
	return c.entries[i].Value, true
}

func (c *checkpoints) snapshot() []types.Checkpoint {
	out := make([]types.Checkpoint, len(c.entries))
	for i, e := range c.entries {
		out[i] = types.Checkpoint{SnapshotID: e.SnapshotID, Value: e.Value.Clone()}
	}
	return out
}
