package service

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/common"
	"github.com/mezonai/snapledger/config"
	"github.com/mezonai/snapledger/custody"
	"github.com/mezonai/snapledger/distribution"
	ledgererrors "github.com/mezonai/snapledger/errors"
	"github.com/mezonai/snapledger/interfaces"
	"github.com/mezonai/snapledger/ledger"
	"github.com/mezonai/snapledger/logx"
	"github.com/mezonai/snapledger/utils"
)

// StepResult reports the outcome of one scripted operation. Rejected
// operations are reported, not fatal.
type StepResult struct {
	Index      int    `json:"index"`
	Op         string `json:"op"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	Code       string `json:"code,omitempty"`
	Payout     string `json:"payout,omitempty"`
	SnapshotID uint64 `json:"snapshot_id,omitempty"`
}

type RoundSummary struct {
	Number     uint64 `json:"number"`
	SnapshotID uint64 `json:"snapshot_id"`
	Pool       string `json:"pool"`
	Paid       string `json:"paid"`
	Residual   string `json:"residual"`
	Claims     uint64 `json:"claims"`
	Holders    int    `json:"holders"`
	Digest     string `json:"digest"`
}

type HolderSummary struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Reward  string `json:"reward"`
}

// Summary is the final state of a simulation
type Summary struct {
	Owner        string          `json:"owner"`
	Vault        string          `json:"vault"`
	TotalSupply  string          `json:"total_supply"`
	VaultBalance string          `json:"vault_balance"`
	Steps        []StepResult    `json:"steps"`
	Rounds       []RoundSummary  `json:"rounds"`
	Holders      []HolderSummary `json:"holders"`
}

// SimulationService wires a holder ledger, a reward ledger held in custody and
// a distribution controller, and drives them with a genesis script.
type SimulationService struct {
	genesis    *config.GenesisConfig
	token      *ledger.Ledger
	rewards    *ledger.Ledger
	custody    *custody.LedgerCustody
	controller *distribution.Controller
	steps      []StepResult
}

// NewSimulationService creates the components and applies genesis allocations.
// sink may be nil.
func NewSimulationService(genesis *config.GenesisConfig, sink interfaces.EventSink) (*SimulationService, error) {
	if genesis == nil {
		return nil, fmt.Errorf("genesis config cannot be nil")
	}

	tokenOpts := []ledger.Option{ledger.WithName("TOKEN")}
	controllerOpts := []distribution.Option{}
	if sink != nil {
		tokenOpts = append(tokenOpts, ledger.WithEventSink(sink))
		controllerOpts = append(controllerOpts, distribution.WithEventSink(sink))
	}

	token := ledger.NewLedger(tokenOpts...)
	if err := token.CreateAccountsFromGenesis(genesis.Holders); err != nil {
		return nil, fmt.Errorf("holders: %w", err)
	}
	rewards := ledger.NewLedger(ledger.WithName("REWARD"))
	if err := rewards.CreateAccountsFromGenesis(genesis.Rewards); err != nil {
		return nil, fmt.Errorf("rewards: %w", err)
	}

	vault, err := custody.NewLedgerCustody(rewards, genesis.Vault)
	if err != nil {
		return nil, err
	}
	controller, err := distribution.NewController(token, vault, genesis.Owner, controllerOpts...)
	if err != nil {
		return nil, err
	}

	logx.Info("SIMULATION", fmt.Sprintf("Genesis applied | holders=%d | total_supply=%s | owner=%s",
		len(genesis.Holders), token.TotalSupply().Dec(), utils.ShortenLog(genesis.Owner)))

	return &SimulationService{
		genesis:    genesis,
		token:      token,
		rewards:    rewards,
		custody:    vault,
		controller: controller,
	}, nil
}

func (s *SimulationService) Token() *ledger.Ledger {
	return s.token
}

func (s *SimulationService) Controller() *distribution.Controller {
	return s.controller
}

// Run applies every scripted operation in order and returns the summary.
// The context is checked between steps.
func (s *SimulationService) Run(ctx context.Context) (*Summary, error) {
	for _, op := range s.genesis.Script {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.Apply(op)
	}
	return s.Summary()
}

// Apply executes one operation and records its outcome
func (s *SimulationService) Apply(op config.Operation) StepResult {
	result := StepResult{Index: len(s.steps), Op: op.String()}
	payout, snapshotID, err := s.apply(op)
	if err != nil {
		result.Error = err.Error()
		result.Code = string(ledgererrors.CodeOf(err))
		logx.Warn("SIMULATION", fmt.Sprintf("Step %d rejected | op=%s | code=%s", result.Index, result.Op, result.Code))
	} else {
		result.OK = true
		result.SnapshotID = snapshotID
		if payout != nil {
			result.Payout = payout.Dec()
		}
	}
	s.steps = append(s.steps, result)
	return result
}

func (s *SimulationService) apply(op config.Operation) (*uint256.Int, uint64, error) {
	var amount *uint256.Int
	if op.Kind != config.OpClaim {
		v, err := op.Value()
		if err != nil {
			return nil, 0, err
		}
		amount = v
	}

	switch op.Kind {
	case config.OpTransfer:
		return nil, 0, s.token.Transfer(op.From, op.To, amount)
	case config.OpMint:
		return nil, 0, s.token.Mint(op.To, amount)
	case config.OpBurn:
		return nil, 0, s.token.Burn(op.From, amount)
	case config.OpFund:
		round, err := s.controller.FundRound(op.Caller, amount)
		if err != nil {
			return nil, 0, err
		}
		return nil, round.SnapshotID, nil
	case config.OpClaim:
		snapshotID := s.controller.CurrentSnapshotID()
		payout, err := s.controller.Claim(op.Caller)
		return payout, snapshotID, err
	default:
		return nil, 0, fmt.Errorf("unknown operation %q: %w", op.Kind, ledgererrors.ErrInternal)
	}
}

// Summary snapshots the current state of all components
func (s *SimulationService) Summary() (*Summary, error) {
	summary := &Summary{
		Owner:        s.controller.Owner(),
		Vault:        s.custody.Vault(),
		TotalSupply:  s.token.TotalSupply().Dec(),
		VaultBalance: s.custody.Balance().Dec(),
		Steps:        append([]StepResult(nil), s.steps...),
	}

	for _, round := range s.controller.Rounds() {
		digest, err := s.token.SnapshotDigest(round.SnapshotID)
		if err != nil {
			return nil, fmt.Errorf("digest of snapshot %d: %w", round.SnapshotID, err)
		}
		holders, err := s.token.HoldersAt(round.SnapshotID)
		if err != nil {
			return nil, fmt.Errorf("holders at snapshot %d: %w", round.SnapshotID, err)
		}
		summary.Rounds = append(summary.Rounds, RoundSummary{
			Number:     round.Number,
			SnapshotID: round.SnapshotID,
			Pool:       round.Pool.Dec(),
			Paid:       round.Paid.Dec(),
			Residual:   round.Residual().Dec(),
			Claims:     round.Claims,
			Holders:    len(holders),
			Digest:     common.EncodeBytesToBase58(digest[:]),
		})
	}

	for _, addr := range s.token.Accounts() {
		summary.Holders = append(summary.Holders, HolderSummary{
			Address: addr,
			Balance: s.token.Balance(addr).Dec(),
			Reward:  s.rewards.Balance(addr).Dec(),
		})
	}
	return summary, nil
}
