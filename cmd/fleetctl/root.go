package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dharmasatrya/fleetdesk/internal/client"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fleetctl",
		Short:         "fleetctl - manage planes and scheduled flights",
		Long:          "fleetctl talks to a fleetdesk server to manage planes, flight legs and the flight assistant.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().String("server", "", "fleetdesk server address (default "+client.DefaultServer+")")
	cmd.PersistentFlags().Duration("timeout", 0, "request timeout (default 60s)")

	cmd.AddCommand(newPlanesCmd())
	cmd.AddCommand(newLegsCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

type settings struct {
	Server  string        `mapstructure:"server"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// loadSettings merges, lowest first: defaults, $XDG_CONFIG_HOME/fleetctl/config.yaml,
// FLEETCTL_* environment variables and command-line flags.
func loadSettings(cmd *cobra.Command) (settings, error) {
	v := viper.New()
	v.SetDefault("server", client.DefaultServer)
	v.SetDefault("timeout", "60s")

	v.SetEnvPrefix("FLEETCTL")
	v.AutomaticEnv()

	xdg.Reload()
	if path, err := xdg.SearchConfigFile(filepath.Join("fleetctl", "config.yaml")); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	flags := cmd.Root().PersistentFlags()
	if f := flags.Lookup("server"); f != nil && f.Changed {
		v.Set("server", f.Value.String())
	}
	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		v.Set("timeout", f.Value.String())
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("parse settings: %w", err)
	}
	if s.Server == "" {
		return settings{}, errors.New("no server configured")
	}
	return s, nil
}

func newClient(cmd *cobra.Command) (*client.Client, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	return client.New(s.Server, s.Timeout)
}
