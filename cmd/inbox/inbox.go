// Package inbox contains the terminal inbox listing command.
package inbox

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeroen-stam/Budgetting-app/cmd/root"
	"github.com/jeroen-stam/Budgetting-app/internal/store"
)

var limit int

// Cmd represents the inbox command.
var Cmd = &cobra.Command{
	Use:   "inbox",
	Short: "List uncategorized transactions",
	RunE:  inboxFunc,
}

func init() {
	Cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of rows to show")
}

func inboxFunc(cmd *cobra.Command, args []string) error {
	st, err := store.Open(root.Cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close database")
		}
	}()

	rows, err := st.Uncategorized(root.ProfileID, limit)
	if err != nil {
		return err
	}

	fmt.Printf("Uncategorized transactions (showing %d):\n\n", len(rows))
	for _, t := range rows {
		fmt.Printf("%4d | %s | %8.2f | %s\n", t.ID, t.Date, t.Amount, t.Description)
	}
	return nil
}
