package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/boardsync"
	"github.com/agentstation/boardsync/pkg/logging"
	"github.com/agentstation/boardsync/pkg/table"
)

var (
	syncInput  string
	syncOutput string
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile an input table into the history store and emit the board view",
	Long: `Sync reads a CSV input table, normalizes each row into a canonical
record, merges it against the history store (inserting first-seen ids,
preserving team-edited fields on existing ones), and writes the composed
board view.

The view is replaced wholesale on every run; row order mirrors the input.`,
	Example: `  boardsync sync --input leads.csv
  boardsync sync --input leads.csv --output board.csv
  boardsync sync --input leads.csv --store history.db --backend sqlite`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&syncInput, "input", "i", "", "input CSV file (required)")
	syncCmd.Flags().StringVarP(&syncOutput, "output", "o", "", "board view CSV output (default stdout)")
	_ = syncCmd.MarkFlagRequired("input")
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.Default()

	t, err := table.ReadCSVFile(syncInput)
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

	result, err := bs.Sync(ctx, t)
	if err != nil {
		return err
	}

	out := os.Stdout
	if syncOutput != "" {
		f, err := os.Create(syncOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", syncOutput, err)
		}
		defer f.Close()
		out = f
	}
	if err := result.View.WriteCSV(out); err != nil {
		return err
	}

	log.Info().
		Str("run_id", result.RunID).
		Int("rows", result.View.NumRows()).
		Int("inserted", result.Metadata.Stats.Inserted).
		Int("merged", result.Metadata.Stats.Merged).
		Msg("Board view written")
	return nil
}
