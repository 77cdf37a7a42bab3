// Package ingest contains the CSV import command.
package ingest

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jeroen-stam/Budgetting-app/cmd/root"
	"github.com/jeroen-stam/Budgetting-app/internal/ingest"
	"github.com/jeroen-stam/Budgetting-app/internal/logging"
	"github.com/jeroen-stam/Budgetting-app/internal/store"
)

// Cmd represents the ingest command.
var Cmd = &cobra.Command{
	Use:   "ingest <csv-file>",
	Short: "Import a bank-statement CSV into a profile",
	Long: `Import a bank-statement CSV file. The file needs a header row with at
least the columns date, description and amount (any casing, extra columns
are ignored). Imported rows start uncategorized; run budgetting seed or use
the web inbox to categorize them.`,
	Args: cobra.ExactArgs(1),
	RunE: ingestFunc,
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	st, err := store.Open(root.Cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close database")
		}
	}()

	logger := logging.NewLogrusAdapterFromLogger(root.Log)
	ing := ingest.New(st, logger, rune(root.Cfg.CSV.Delimiter[0]))

	n, err := ing.Ingest(args[0], root.ProfileID)
	if err != nil {
		var verr *ingest.ValidationError
		var nferr *ingest.NotFoundError
		switch {
		case errors.As(err, &verr):
			root.Log.Errorf("CSV format error: %v", verr)
		case errors.As(err, &nferr):
			root.Log.Errorf("%v (tip: pass the full path to the export)", nferr)
		}
		return err
	}

	root.Log.WithField("count", n).Info("Import finished")
	root.Log.Info("Next: run 'budgetting seed' to apply rules, or 'budgetting serve' for the inbox")
	return nil
}
