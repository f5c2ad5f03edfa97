package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mezonai/snapledger/config"
	"github.com/mezonai/snapledger/jsonx"
	"github.com/mezonai/snapledger/store"
	"github.com/mezonai/snapledger/utils"
	"github.com/spf13/cobra"
)

var (
	roundsConfigPath string
	roundsSnapshotID uint64
)

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Print rounds and claims from the settlement journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRounds()
	},
}

func init() {
	rootCmd.AddCommand(roundsCmd)

	roundsCmd.Flags().StringVar(&roundsConfigPath, "config", "config/node.ini", "Path to runtime configuration file")
	roundsCmd.Flags().Uint64Var(&roundsSnapshotID, "snapshot", 0, "Only show the round of this snapshot id")
}

type journalClaim struct {
	Account   string `json:"account"`
	Payout    string `json:"payout"`
	SettledAt string `json:"settled_at"`
}

type journalRound struct {
	Number     uint64         `json:"number"`
	SnapshotID uint64         `json:"snapshot_id"`
	Pool       string         `json:"pool"`
	Paid       string         `json:"paid"`
	Residual   string         `json:"residual"`
	OpenedAt   string         `json:"opened_at"`
	Claims     []journalClaim `json:"claims"`
}

func printRounds() error {
	runtimeCfg, err := config.LoadRuntimeConfig(roundsConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load runtime config: %w", err)
	}
	journal, err := store.CreateStore(storeConfig(runtimeCfg))
	if err != nil {
		return fmt.Errorf("failed to open settlement journal: %w", err)
	}
	defer journal.MustClose()

	rounds, err := journal.ListRounds()
	if err != nil {
		return err
	}

	out := make([]journalRound, 0, len(rounds))
	for _, r := range rounds {
		if roundsSnapshotID != 0 && r.SnapshotID != roundsSnapshotID {
			continue
		}
		claims, err := journal.ListClaims(r.SnapshotID)
		if err != nil {
			return err
		}
		jr := journalRound{
			Number:     r.Number,
			SnapshotID: r.SnapshotID,
			Pool:       utils.Uint256ToString(r.Pool),
			Paid:       utils.Uint256ToString(r.Paid),
			Residual:   utils.Uint256ToString(r.Residual()),
			OpenedAt:   r.OpenedAt.Format(time.RFC3339),
			Claims:     make([]journalClaim, 0, len(claims)),
		}
		for _, c := range claims {
			jr.Claims = append(jr.Claims, journalClaim{
				Account:   c.Account,
				Payout:    utils.Uint256ToString(c.Payout),
				SettledAt: c.SettledAt.Format(time.RFC3339),
			})
		}
		out = append(out, jr)
	}
	return jsonx.NewEncoder(os.Stdout).Encode(out)
}
