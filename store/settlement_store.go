package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/mezonai/snapledger/db"
	"github.com/mezonai/snapledger/jsonx"
	"github.com/mezonai/snapledger/logx"
	"github.com/mezonai/snapledger/types"
	"github.com/mezonai/snapledger/utils"
)

// SettlementStore journals opened rounds and settled claims. It mirrors what
// the distributor did; the distributor never reads it back.
type SettlementStore interface {
	StoreRound(round *types.Round) error
	StoreClaim(claim *types.ClaimRecord) error
	GetRound(snapshotID uint64) (*types.Round, error)
	ListRounds() ([]*types.Round, error)
	ListClaims(snapshotID uint64) ([]*types.ClaimRecord, error)
	HasClaim(snapshotID uint64, account string) (bool, error)
	MustClose()
}

type roundRecord struct {
	Number     uint64    `json:"number"`
	SnapshotID uint64    `json:"snapshot_id"`
	Pool       string    `json:"pool"`
	Paid       string    `json:"paid"`
	Claims     uint64    `json:"claims"`
	OpenedAt   time.Time `json:"opened_at"`
}

type claimRecord struct {
	Account    string    `json:"account"`
	SnapshotID uint64    `json:"snapshot_id"`
	Payout     string    `json:"payout"`
	SettledAt  time.Time `json:"settled_at"`
}

func toRoundRecord(r *types.Round) roundRecord {
	return roundRecord{
		Number:     r.Number,
		SnapshotID: r.SnapshotID,
		Pool:       utils.Uint256ToString(r.Pool),
		Paid:       utils.Uint256ToString(r.Paid),
		Claims:     r.Claims,
		OpenedAt:   r.OpenedAt,
	}
}

func (rr roundRecord) toRound() *types.Round {
	return &types.Round{
		Number:     rr.Number,
		SnapshotID: rr.SnapshotID,
		Pool:       utils.Uint256FromString(rr.Pool),
		Paid:       utils.Uint256FromString(rr.Paid),
		Claims:     rr.Claims,
		OpenedAt:   rr.OpenedAt,
	}
}

// GenericSettlementStore provides journal storage over any DatabaseProvider
type GenericSettlementStore struct {
	dbProvider db.DatabaseProvider
	txManager  *db.DBTxManager
}

func NewGenericSettlementStore(dbProvider db.DatabaseProvider) (*GenericSettlementStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	return &GenericSettlementStore{
		dbProvider: dbProvider,
		txManager:  db.NewDBTxManager(dbProvider),
	}, nil
}

func (s *GenericSettlementStore) StoreRound(round *types.Round) error {
	data, err := jsonx.Marshal(toRoundRecord(round))
	if err != nil {
		return fmt.Errorf("failed to marshal round %d: %w", round.Number, err)
	}
	if err := s.dbProvider.Put(roundKey(round.SnapshotID), data); err != nil {
		return fmt.Errorf("failed to write round %d to db: %w", round.Number, err)
	}
	return nil
}

// StoreClaim writes the claim and bumps its round's paid total in one batch.
// A claim already journaled is ignored.
func (s *GenericSettlementStore) StoreClaim(claim *types.ClaimRecord) error {
	exists, err := s.HasClaim(claim.SnapshotID, claim.Account)
	if err != nil {
		return err
	}
	if exists {
		logx.Warn("SETTLEMENT_STORE", fmt.Sprintf("Duplicate claim ignored | account=%s | snapshot=%d", utils.ShortenLog(claim.Account), claim.SnapshotID))
		return nil
	}

	round, err := s.GetRound(claim.SnapshotID)
	if err != nil {
		return err
	}
	if round == nil {
		return fmt.Errorf("no journaled round for snapshot %d", claim.SnapshotID)
	}
	round.Paid.Add(round.Paid, claim.Payout)
	round.Claims++

	claimData, err := jsonx.Marshal(claimRecord{
		Account:    claim.Account,
		SnapshotID: claim.SnapshotID,
		Payout:     utils.Uint256ToString(claim.Payout),
		SettledAt:  claim.SettledAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal claim: %w", err)
	}
	roundData, err := jsonx.Marshal(toRoundRecord(round))
	if err != nil {
		return fmt.Errorf("failed to marshal round %d: %w", round.Number, err)
	}

	return s.txManager.WithBatch(func(batch db.DatabaseBatch) error {
		batch.Put(claimKey(claim.SnapshotID, claim.Account), claimData)
		batch.Put(roundKey(claim.SnapshotID), roundData)
		return nil
	})
}

// GetRound returns nil, nil if no round was journaled for snapshotID
func (s *GenericSettlementStore) GetRound(snapshotID uint64) (*types.Round, error) {
	data, err := s.dbProvider.Get(roundKey(snapshotID))
	if err != nil {
		return nil, fmt.Errorf("could not get round for snapshot %d from db: %w", snapshotID, err)
	}
	if data == nil {
		return nil, nil
	}
	var rec roundRecord
	if err := jsonx.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round for snapshot %d: %w", snapshotID, err)
	}
	return rec.toRound(), nil
}

// ListRounds returns rounds ordered by snapshot id
func (s *GenericSettlementStore) ListRounds() ([]*types.Round, error) {
	var (
		rounds  []*types.Round
		iterErr error
	)
	err := s.dbProvider.IteratePrefix([]byte(PrefixRound), func(key, value []byte) bool {
		var rec roundRecord
		if iterErr = jsonx.Unmarshal(value, &rec); iterErr != nil {
			return false
		}
		rounds = append(rounds, rec.toRound())
		return true
	})
	if err == nil {
		err = iterErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].SnapshotID < rounds[j].SnapshotID })
	return rounds, nil
}

// ListClaims returns the claims of one round ordered by account
func (s *GenericSettlementStore) ListClaims(snapshotID uint64) ([]*types.ClaimRecord, error) {
	var (
		claims  []*types.ClaimRecord
		iterErr error
	)
	err := s.dbProvider.IteratePrefix(claimPrefix(snapshotID), func(key, value []byte) bool {
		var rec claimRecord
		if iterErr = jsonx.Unmarshal(value, &rec); iterErr != nil {
			return false
		}
		if rec.SnapshotID != snapshotID {
			return true
		}
		claims = append(claims, &types.ClaimRecord{
			Account:    rec.Account,
			SnapshotID: rec.SnapshotID,
			Payout:     utils.Uint256FromString(rec.Payout),
			SettledAt:  rec.SettledAt,
		})
		return true
	})
	if err == nil {
		err = iterErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list claims for snapshot %d: %w", snapshotID, err)
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].Account < claims[j].Account })
	return claims, nil
}

func (s *GenericSettlementStore) HasClaim(snapshotID uint64, account string) (bool, error) {
	exists, err := s.dbProvider.Has(claimKey(snapshotID, account))
	if err != nil {
		return false, fmt.Errorf("could not check claim of %s for snapshot %d: %w", account, snapshotID, err)
	}
	return exists, nil
}

func (s *GenericSettlementStore) MustClose() {
	if err := s.dbProvider.Close(); err != nil {
		logx.Error("SETTLEMENT_STORE", "Failed to close provider:", err)
	}
}
