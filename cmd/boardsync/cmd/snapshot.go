package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/boardsync"
	"github.com/agentstation/boardsync/pkg/logging"
	"github.com/agentstation/boardsync/pkg/table"
)

var snapshotInput string

// snapshotCmd represents the snapshot command.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Freeze point-in-time flag/tier metrics into history",
	Long: `Snapshot stamps the configured flag field to "YES" and the tier field
to the clamped priority for every input record already present in history.

Records missing from history are skipped, never created; entries absent
from the input keep their existing flag.`,
	Example: `  boardsync snapshot --input leads.csv
  boardsync snapshot --input leads.csv --store history.db --backend sqlite`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotInput, "input", "i", "", "input CSV file (required)")
	_ = snapshotCmd.MarkFlagRequired("input")
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.Default()

	t, err := table.ReadCSVFile(snapshotInput)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	bs, err := boardsync.New(
		boardsync.WithStore(store),
		boardsync.WithSettingsMap(settingsMap()),
	)
	if err != nil {
		return err
	}

	result, err := bs.Freeze(ctx, t)
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", result.RunID).
		Int("matched", result.Matched).
		Int("skipped", result.Skipped).
		Msg("Snapshot frozen")
	return nil
}
