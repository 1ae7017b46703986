package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/fleetdesk/internal/config"
	"github.com/dharmasatrya/fleetdesk/internal/logger"
	"github.com/dharmasatrya/fleetdesk/internal/mcp"
	"github.com/dharmasatrya/fleetdesk/internal/schema"
	"github.com/dharmasatrya/fleetdesk/internal/service"
	"github.com/dharmasatrya/fleetdesk/internal/store"
)

func newMCPCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start a Model Context Protocol server on stdio that works directly on the local plane and leg stores.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: "json"})
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			planeStore, err := store.Open(cfg.StoreBackend, cfg.StorePath("planes"), schema.Planes)
			if err != nil {
				return fmt.Errorf("open plane store: %w", err)
			}
			defer planeStore.Close()

			legStore, err := store.Open(cfg.StoreBackend, cfg.StorePath("legs"), schema.Legs)
			if err != nil {
				return fmt.Errorf("open leg store: %w", err)
			}
			defer legStore.Close()

			server := mcp.NewServer(
				service.NewFleet(planeStore, service.WithLogger(log)),
				service.NewFleet(legStore, service.WithLogger(log)),
				version,
			)
			return server.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the server YAML config file")
	return cmd
}
