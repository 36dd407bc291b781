package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSyncCmd(logger *slog.Logger, rootFlags *rootFlags) *cobra.Command {
	var (
		targetName string
		dir        string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize a local directory with a sync target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(logger, rootFlags)
			if err != nil {
				return err
			}

			tgt, _, err := app.openTarget(targetName)
			if err != nil {
				return err
			}

			sync, err := tgt.Synchronizer(cmd.Context())
			if err != nil {
				return err
			}

			report, err := sync.Sync(cmd.Context(), dir)
			if report != nil {
				summary := fmt.Sprintf("%d uploaded, %d downloaded, %d deleted locally, %d deleted remotely, %d unchanged in %s",
					report.Uploaded, report.Downloaded, report.DeletedLocal, report.DeletedRemote,
					report.Unchanged, report.Duration.Round(time.Millisecond))
				if err != nil {
					color.Red("Sync finished with errors: %s", summary)
				} else {
					color.Green("Sync complete: %s", summary)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&targetName, "target", "t", "", "sync target name (see 'synckit targets')")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "local directory to synchronize")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
