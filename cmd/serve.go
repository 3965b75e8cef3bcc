package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prosperian/prosperian-api/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead-aggregation REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		srv := server.New(cfg, env.Agg, env.Pronto, env.Places, env.Store)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
