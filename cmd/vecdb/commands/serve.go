package commands

import (
	"github.com/spf13/cobra"

	"github.com/Zereker/vecdb/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway and the Kafka consumer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := server.LoadConfig(a.configFile)
			if err != nil {
				return err
			}
			if a.verbose {
				conf.Log.Level = "debug"
			}

			srv, err := server.NewServer(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer func() { _ = srv.Shutdown() }()

			return srv.Start(cmd.Context())
		},
	}
}
