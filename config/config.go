package config

import (
	"fmt"
	"log"
	"os"

	"github.com/mezonai/snapledger/common"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// LoadGenesisConfig reads, parses and validates the genesis.yml file
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	log.Printf("[config] LoadGenesisConfig called with path: %s", path)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}
	cfg := &cfgFile.Config
	if cfg.Vault == "" {
		cfg.Vault = common.DeriveAddress(DefaultVaultLabel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis config %s: %w", path, err)
	}
	log.Printf("[config] Loaded genesis: Holders=%d, Rewards=%d, Script=%d steps", len(cfg.Holders), len(cfg.Rewards), len(cfg.Script))
	return cfg, nil
}

// Validate checks addresses are base58 holder keys and amounts parse
func (g *GenesisConfig) Validate() error {
	if err := common.ValidateAddress(g.Owner); err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	if err := common.ValidateAddress(g.Vault); err != nil {
		return fmt.Errorf("vault: %w", err)
	}
	for _, group := range [][]Allocation{g.Holders, g.Rewards} {
		for _, alloc := range group {
			if err := common.ValidateAddress(alloc.Address); err != nil {
				return fmt.Errorf("allocation: %w", err)
			}
			if _, err := alloc.Value(); err != nil {
				return fmt.Errorf("allocation %s: %w", alloc.Address, err)
			}
		}
	}
	for i, op := range g.Script {
		if err := op.validate(); err != nil {
			return fmt.Errorf("script step %d (%s): %w", i, op.Kind, err)
		}
	}
	return nil
}

func (o Operation) validate() error {
	var addrs []string
	needsAmount := true
	switch o.Kind {
	case OpTransfer:
		addrs = []string{o.From, o.To}
	case OpMint:
		addrs = []string{o.To}
	case OpBurn:
		addrs = []string{o.From}
	case OpFund:
		addrs = []string{o.Caller}
	case OpClaim:
		addrs = []string{o.Caller}
		needsAmount = false
	default:
		return fmt.Errorf("unknown operation %q", o.Kind)
	}
	for _, addr := range addrs {
		if err := common.ValidateAddress(addr); err != nil {
			return err
		}
	}
	if needsAmount {
		if _, err := o.Value(); err != nil {
			return err
		}
	}
	return nil
}

// LoadRuntimeConfig reads the [store], [events] and [metrics] sections from an .ini file
func LoadRuntimeConfig(path string) (*RuntimeConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	rc := &RuntimeConfig{
		Store: StoreSection{
			Type:      DefaultStoreType,
			Directory: DefaultStoreDirectory,
		},
		Events: EventsSection{BufferSize: DefaultBufferSize},
	}
	if err := cfg.Section("store").MapTo(&rc.Store); err != nil {
		return nil, err
	}
	if err := cfg.Section("events").MapTo(&rc.Events); err != nil {
		return nil, err
	}
	if err := cfg.Section("metrics").MapTo(&rc.Metrics); err != nil {
		return nil, err
	}
	return rc, nil
}
