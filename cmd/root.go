package cmd

import (
	"os"

	"github.com/mezonai/snapledger/logx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "snapledger",
	Short: "Snapshot ledger and pro-rata reward distribution CLI",
	Long:  "Command line interface for simulating a snapshotting balance ledger with pro-rata reward rounds and inspecting the settlement journal.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
