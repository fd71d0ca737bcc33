/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"errors"
	"fmt"

	"github.com/mikeb26/pdxsched/teamvite"
	"github.com/spf13/cobra"
)

func newUploadCmd(a *app) *cobra.Command {
	var appURL string
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload games files to teamvite",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("app-url") {
				a.cfg.AppURL = appURL
			}
			if a.cfg.AppURL == "" {
				return errors.New("APP_URL must be in environment or --app-url given")
			}
			client := teamvite.NewClient(nil, a.cfg.AppURL, a.log)
			for _, f := range args {
				n, err := client.UploadFile(cmd.Context(), f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d games from %v\n", n, f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&appURL, "app-url", "",
		"teamvite base url (default from APP_URL)")

	return cmd
}
