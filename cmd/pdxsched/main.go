/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikeb26/pdxsched/internal/config"
	"github.com/mikeb26/pdxsched/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	envFiles []string
	logLevel string
	console  bool

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "pdxsched",
		Short: "Harvest PDX Indoor Soccer schedules for teamvite",
		Long: `pdxsched downloads every published PDX Indoor Soccer division schedule
for a season, turns each game into home and away records and writes them to
a pipe delimited file that can be uploaded to teamvite.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil,
		"dotenv file(s) to load (default .env)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level: debug, info, warn, error (default from LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&a.console, "console", false,
		"human readable log output")

	cmd.AddCommand(newScrapeCmd(a), newUploadCmd(a), newPlacementsCmd(a))

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	w := cmd.ErrOrStderr()
	if a.console {
		a.log = logger.NewConsole(cfg.LogLevel, w)
	} else {
		a.log = logger.New(cfg.LogLevel, w)
	}

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pdxsched: %v\n", err)
		stop()
		os.Exit(1)
	}
}
