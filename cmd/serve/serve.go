// Package serve runs the HTTP API and the inbox UI.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/jeroen-stam/Budgetting-app/cmd/root"
	"github.com/jeroen-stam/Budgetting-app/internal/logging"
	"github.com/jeroen-stam/Budgetting-app/internal/server"
	"github.com/jeroen-stam/Budgetting-app/internal/store"
)

var addr string

// Cmd represents the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the budgetting API and web inbox",
	Long:  `Serve the JSON API and the single-page inbox for manual categorization.`,
	RunE:  serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	st, err := store.Open(root.Cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close database")
		}
	}()

	listen := addr
	if listen == "" {
		listen = root.Cfg.Server.Addr
	}

	logger := logging.NewLogrusAdapterFromLogger(root.Log)
	return server.New(st, logger).Run(listen)
}
