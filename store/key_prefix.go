package store

import "fmt"

// Declare database key prefix for objects
const (
	PrefixRound = "round:"
	PrefixClaim = "claim:"
)

// Snapshot ids are written as 16 hex digits: readable in redis-cli, free of
// SCAN glob characters, and ordered the same way as the ids.
func roundKey(snapshotID uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x", PrefixRound, snapshotID))
}

func claimPrefix(snapshotID uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x:", PrefixClaim, snapshotID))
}

// claimKey is claimPrefix(snapshotID) + account
func claimKey(snapshotID uint64, account string) []byte {
	return append(claimPrefix(snapshotID), account...)
}
