package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nathantheresa/portfolio/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("Starting server in %s mode", cfg.Environment)

		srv, err := server.NewServer(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to create server: %v", err)
			return err
		}
		defer srv.Close()

		if err := srv.Start(ctx); err != nil {
			logger.Error("Server error: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Port to listen on (overrides API_PORT)")
}
