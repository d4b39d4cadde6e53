package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/snagtrack/snagtrack/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		log.Info().Str("db", cfg.DatabaseURL).Int("port", cfg.Port).Msg("serving")
		return server.Run(ctx, server.Config{
			Port:  cfg.Port,
			Store: s,
			Rules: rules,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
