package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mezonai/snapledger/config"
	"github.com/mezonai/snapledger/events"
	"github.com/mezonai/snapledger/exception"
	"github.com/mezonai/snapledger/jsonx"
	"github.com/mezonai/snapledger/logx"
	"github.com/mezonai/snapledger/monitoring"
	"github.com/mezonai/snapledger/service"
	"github.com/mezonai/snapledger/store"
	"github.com/spf13/cobra"
)

var (
	simulateGenesisPath string
	simulateConfigPath  string
	simulateNoJournal   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a genesis script against a fresh ledger and distributor",
	Long: `Build the holder ledger, reward custody and distribution controller from a
genesis file, apply its scripted operations in order and print a JSON summary.
Rounds and claims are journaled to the store configured in the runtime file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulation(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simulateGenesisPath, "genesis", "config/genesis.yml", "Path to genesis configuration file")
	simulateCmd.Flags().StringVar(&simulateConfigPath, "config", "config/node.ini", "Path to runtime configuration file")
	simulateCmd.Flags().BoolVar(&simulateNoJournal, "no-journal", false, "Do not write rounds and claims to the settlement journal")
}

func runSimulation(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	genesis, err := config.LoadGenesisConfig(simulateGenesisPath)
	if err != nil {
		return fmt.Errorf("failed to load genesis: %w", err)
	}
	runtimeCfg, err := config.LoadRuntimeConfig(simulateConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load runtime config: %w", err)
	}

	monitoring.InitMetrics()
	if addr := runtimeCfg.Metrics.ListenAddr; addr != "" {
		srv := startMetricsServer(addr)
		defer shutdownMetricsServer(srv)
	}

	bus := events.NewEventBus(runtimeCfg.Events.BufferSize)

	if !simulateNoJournal {
		journal, err := store.CreateStore(storeConfig(runtimeCfg))
		if err != nil {
			return fmt.Errorf("failed to open settlement journal: %w", err)
		}
		defer journal.MustClose()

		recorder := store.NewRecorder(bus, journal)
		recorder.Start()
		defer recorder.Stop()
	}

	svc, err := service.NewSimulationService(genesis, bus)
	if err != nil {
		return fmt.Errorf("failed to build simulation: %w", err)
	}
	summary, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation aborted: %w", err)
	}

	logx.Info("SIMULATE", fmt.Sprintf("Simulation finished | steps=%d | rounds=%d", len(summary.Steps), len(summary.Rounds)))
	return jsonx.NewEncoder(os.Stdout).Encode(summary)
}

func storeConfig(rc *config.RuntimeConfig) *store.StoreConfig {
	return &store.StoreConfig{
		Type:      store.StoreType(rc.Store.Type),
		Directory: rc.Store.Directory,
	}
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	monitoring.RegisterMetrics(mux)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	exception.SafeGo("MetricsServer", func() {
		logx.Info("METRICS", "Serving metrics on", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Error("METRICS", "Metrics server stopped:", err)
		}
	})
	return srv
}

func shutdownMetricsServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logx.Error("METRICS", "Failed to shut down metrics server:", err)
	}
}
