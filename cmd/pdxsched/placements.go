/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"
	"os"

	"github.com/mikeb26/pdxsched/placements"
	"github.com/spf13/cobra"
)

func newPlacementsCmd(a *app) *cobra.Command {
	var (
		dbPath string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "placements <file>",
		Short: "Move or create teams per a season placements file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("unable to open %v: %w", args[0], err)
			}
			defer f.Close()

			p, err := placements.Parse(f)
			if err != nil {
				return err
			}
			db, err := placements.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := placements.Apply(cmd.Context(), db, p, dryRun, a.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"%d skipped, %d created, %d moved, %d ignored, %d new divisions\n",
				res.Skipped, res.Created, res.Moved, res.Ignored,
				res.DivisionsCreated)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "teamvite.db", "path to the teamvite db")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "don't commit changes")

	return cmd
}
