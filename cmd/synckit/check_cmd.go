package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCmd(logger *slog.Logger, rootFlags *rootFlags) *cobra.Command {
	var targetName string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe whether the configured settings reach a target's storage",
		Long: `check builds a throwaway client from the current configuration and
probes the target's bucket or container. Nothing a running sync may be
using is touched, so a check is always safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(logger, rootFlags)
			if err != nil {
				return err
			}

			tgt, reg, err := app.openTarget(targetName)
			if err != nil {
				return err
			}
			if !reg.SupportsConfigCheck {
				return fmt.Errorf("target %q does not support configuration checks", targetName)
			}

			res := tgt.CheckConfig(cmd.Context(), app.settings)
			if !res.OK {
				color.Red("FAILED: %s", res.ErrorMessage)
				return errors.New("configuration check failed")
			}
			color.Green("OK: %s is reachable with the current configuration", targetName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetName, "target", "t", "", "sync target name (see 'synckit targets')")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
