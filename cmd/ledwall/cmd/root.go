// Package cmd provides the CLI commands for ledwall.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/ledwall/internal/config"
	"github.com/Simplici0/ledwall/internal/logging"
)

// app is the state shared by subcommands once the root has loaded configuration.
type app struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ledwall",
		Short: "Price LED video-wall installations",
		Long: `ledwall computes cabinet counts, hardware cost, markup or shipping
and per-unit prices for LED video walls built from 0.5 m x 0.5 m cabinets.

Examples:
  ledwall estimate --columns 10 --rows 3
  ledwall estimate --columns 4 --rows 2 --mode custom --rate 3000 --format json
  ledwall estimate --policy transparent --shipping 15 --format xlsx --out quote.xlsx`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (overrides CONFIG_PATH)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newEstimateCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the CLI and flushes the logger whether or not the command failed.
func Execute() error {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.sync()
	return err
}

// sync flushes buffered log entries. Syncing a console fd fails on some
// platforms, so the error is dropped.
func (a *app) sync() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		if err := os.Setenv("CONFIG_PATH", a.cfgFile); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.cfg = cfg
	a.log = logger
	return nil
}

const version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ledwall version %s\n", version)
		},
	}
}
