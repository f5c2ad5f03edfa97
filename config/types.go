package config

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mezonai/snapledger/utils"
)

// Allocation is a genesis balance. Amount is decimal and may use "_" separators.
type Allocation struct {
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

func (a Allocation) Value() (*uint256.Int, error) {
	return utils.ParseAmount(a.Amount)
}

// OperationKind names a scripted step of a simulation
type OperationKind string

const (
	OpTransfer OperationKind = "transfer"
	OpMint     OperationKind = "mint"
	OpBurn     OperationKind = "burn"
	OpFund     OperationKind = "fund"
	OpClaim    OperationKind = "claim"
)

// Operation is one scripted step. Which fields are required depends on Kind:
// transfer needs from/to/amount, mint needs to/amount, burn needs from/amount,
// fund needs caller/amount and claim needs caller.
type Operation struct {
	Kind   OperationKind `yaml:"op"`
	From   string        `yaml:"from,omitempty"`
	To     string        `yaml:"to,omitempty"`
	Caller string        `yaml:"caller,omitempty"`
	Amount string        `yaml:"amount,omitempty"`
}

func (o Operation) Value() (*uint256.Int, error) {
	return utils.ParseAmount(o.Amount)
}

func (o Operation) String() string {
	switch o.Kind {
	case OpTransfer:
		return fmt.Sprintf("transfer %s %s -> %s", o.Amount, utils.ShortenLog(o.From), utils.ShortenLog(o.To))
	case OpMint:
		return fmt.Sprintf("mint %s -> %s", o.Amount, utils.ShortenLog(o.To))
	case OpBurn:
		return fmt.Sprintf("burn %s from %s", o.Amount, utils.ShortenLog(o.From))
	case OpFund:
		return fmt.Sprintf("fund %s by %s", o.Amount, utils.ShortenLog(o.Caller))
	case OpClaim:
		return fmt.Sprintf("claim by %s", utils.ShortenLog(o.Caller))
	default:
		return string(o.Kind)
	}
}

// GenesisConfig holds the configuration from genesis.yml
type GenesisConfig struct {
	Owner   string       `yaml:"owner"`
	Vault   string       `yaml:"vault,omitempty"`
	Holders []Allocation `yaml:"holders"`
	Rewards []Allocation `yaml:"rewards"`
	Script  []Operation  `yaml:"script"`
}

// ConfigFile is the top-level structure for genesis.yml
type ConfigFile struct {
	Config GenesisConfig `yaml:"config"`
}

type StoreSection struct {
	Type      string `ini:"type"`
	Directory string `ini:"directory"`
}

type EventsSection struct {
	BufferSize int `ini:"buffer_size"`
}

type MetricsSection struct {
	ListenAddr string `ini:"listen_addr"`
}

// RuntimeConfig is read from the node .ini file
type RuntimeConfig struct {
	Store   StoreSection
	Events  EventsSection
	Metrics MetricsSection
}
