// Package root contains the root command for the application.
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeroen-stam/Budgetting-app/internal/config"
	"github.com/jeroen-stam/Budgetting-app/internal/models"
	"github.com/jeroen-stam/Budgetting-app/internal/store"
)

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cfg holds the loaded configuration after PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "budgetting",
		Short: "Import bank-statement CSVs and categorize transactions.",
		Long: `budgetting imports bank-statement CSV files into a per-profile SQLite
database and assigns spending categories with keyword rules: global default
rules fill gaps, per-profile rules override. The serve command runs the
HTTP API with a web inbox for manual categorization.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to budgetting!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			if DatabasePath != "" {
				cfg.Database.Path = DatabasePath
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			store.SetLogger(Log)
			return nil
		},
	}

	// DatabasePath overrides the configured SQLite path when set.
	DatabasePath string

	// ProfileID selects the profile commands operate on.
	ProfileID int64
)

// Init initializes the root command and all persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVar(&DatabasePath, "db", "", "Path to the SQLite database (overrides config)")
	Cmd.PersistentFlags().Int64Var(&ProfileID, "profile-id", models.DefaultProfileID, "Profile to operate on")
}
