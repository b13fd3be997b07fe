// Package cli provides the command-line interface for MomentumGo
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mzkii/MomentumGo/internal/config"
	"github.com/mzkii/MomentumGo/internal/dataflows"
	"github.com/mzkii/MomentumGo/internal/display"
	"github.com/mzkii/MomentumGo/internal/scanner"
	"github.com/mzkii/MomentumGo/internal/snapshot"
)

// app bundles the wired components behind every command.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	scanner  *scanner.Scanner
	renderer *display.Renderer
}

func newApp(cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var log *zap.Logger
	var err error
	if cfg.Debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	store := snapshot.NewStore()
	dir := dataflows.NewDirectoryClient(cfg, log)
	market := dataflows.NewYahooClient(cfg, log)

	return &app{
		cfg:      cfg,
		log:      log,
		scanner:  scanner.New(cfg, log, dir, market, store),
		renderer: display.NewRenderer(os.Stdout),
	}, nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "momentum",
		Short: "MomentumGo - 20D High/Low Breakout Scanner",
		Long: `MomentumGo tracks the largest US-listed companies and flags momentum
breakouts: symbols trading above their trailing 20-day high or below their
trailing 20-day low.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive mode
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			return runInteractive(a)
		},
	}

	rootCmd.AddCommand(newScanCmd(cfg))
	rootCmd.AddCommand(newExtremesCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&cfg.MaxTickers, "max-tickers", cfg.MaxTickers, "Maximum number of tracked symbols")
	rootCmd.PersistentFlags().IntVar(&cfg.WorkerPoolSize, "workers", cfg.WorkerPoolSize, "Concurrent market-data fetches")

	return rootCmd
}

// newScanCmd runs a one-shot full refresh and prints the breakout report.
func newScanCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Full refresh: rebuild 20D extrema and report breakouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			return a.runFullScan(cmd.Context())
		},
	}

	cmd.Flags().Bool("bootstrap", false, "Take current prices from the last close instead of the directory quote")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if bootstrap, _ := cmd.Flags().GetBool("bootstrap"); bootstrap {
			cfg.PriceSource = config.PriceSourceLastClose
		}
		return nil
	}

	return cmd
}

// newExtremesCmd runs full refresh + new-extreme check in one shot.
func newExtremesCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "extremes",
		Short: "Check today's intraday highs/lows against the stored 20D baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			// A one-shot process has no prior snapshot, so build the baseline
			// first; in interactive mode the check runs against the stored one.
			if err := a.runFullScan(cmd.Context()); err != nil {
				return err
			}
			return a.runExtremeCheck(cmd.Context())
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("MomentumGo v1.0.0")
			fmt.Println("US Top 200 Stocks - 20D High/Low Scanner")
		},
	}
}

func (a *app) runFullScan(ctx context.Context) error {
	res, err := a.scanner.FullRefresh(ctx)
	if err != nil {
		return err
	}

	a.renderer.Summary("Full refresh", res)
	records := a.scanner.Store().Read()
	a.renderer.Breakouts(scanner.DetectBreakouts(records))
	a.renderer.Status(a.scanner.Store().ReadClock())
	return nil
}

func (a *app) runQuickRefresh(ctx context.Context) error {
	res, err := a.scanner.QuickRefresh(ctx)
	if err != nil {
		return err
	}

	a.renderer.Summary("Quick price refresh", res)
	records := a.scanner.Store().Read()
	a.renderer.Breakouts(scanner.DetectBreakouts(records))
	a.renderer.Status(a.scanner.Store().ReadClock())
	return nil
}

func (a *app) runExtremeCheck(ctx context.Context) error {
	extremes, err := a.scanner.CheckNewExtremes(ctx)
	if err != nil {
		return err
	}

	a.renderer.Extremes(extremes)
	a.renderer.Status(a.scanner.Store().ReadClock())
	return nil
}
