// Package seed contains the default-rule seeding command.
package seed

import (
	"github.com/spf13/cobra"

	"github.com/jeroen-stam/Budgetting-app/cmd/root"
	"github.com/jeroen-stam/Budgetting-app/internal/engine"
	"github.com/jeroen-stam/Budgetting-app/internal/logging"
	"github.com/jeroen-stam/Budgetting-app/internal/store"
)

var rulesFile string

// Cmd represents the seed command.
var Cmd = &cobra.Command{
	Use:   "seed",
	Short: "Ensure the default rules and apply them to a profile",
	Long: `Upsert the built-in global default rules (idempotent: existing rules are
never changed), then run rule application for the selected profile. An
optional YAML file can extend the built-in rule set.`,
	RunE: seedFunc,
}

func init() {
	Cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML file with extra seed rules (overrides config)")
}

func seedFunc(cmd *cobra.Command, args []string) error {
	st, err := store.Open(root.Cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close database")
		}
	}()

	file := rulesFile
	if file == "" {
		file = root.Cfg.Seed.RulesFile
	}

	n, err := st.SeedDefaultRules(file)
	if err != nil {
		return err
	}
	root.Log.WithField("count", n).Info("Default rules ensured")

	logger := logging.NewLogrusAdapterFromLogger(root.Log)
	summary, err := engine.New(st, logger).Apply(root.ProfileID)
	if err != nil {
		return err
	}

	root.Log.WithFields(map[string]interface{}{
		"profile_id":    root.ProfileID,
		"categorized":   summary.DefaultPass,
		"recategorized": summary.UserPass,
	}).Info("Rules applied")
	return nil
}
