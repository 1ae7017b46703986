package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

func newLegsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legs",
		Short: "Manage flight legs",
	}
	cmd.AddCommand(newLegsListCmd())
	cmd.AddCommand(newLegsAddCmd())
	cmd.AddCommand(newLegsDeleteCmd())
	cmd.AddCommand(newLegsAddFlightCmd())
	cmd.AddCommand(newLegsDeleteFlightCmd())
	return cmd
}

func newLegsListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List flight legs grouped by plane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			groups, err := c.ListLegs(cmd.Context())
			if err != nil {
				return err
			}
			if format == "json" {
				return outputJSON(cmd, groups)
			}
			outputLegs(cmd, groups)
			return nil
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

type legFlags struct {
	date   string
	from   string
	to     string
	status string
}

func (f *legFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Flight date")
	cmd.Flags().StringVar(&f.from, "from", "", "Departure airport")
	cmd.Flags().StringVar(&f.to, "to", "", "Arrival airport")
	cmd.Flags().StringVar(&f.status, "status", "", "Flight status (default "+models.DefaultStatus+")")
}

func (f *legFlags) validate() error {
	if err := singleDate(f.date); err != nil {
		return err
	}
	if strings.TrimSpace(f.from) == "" || strings.TrimSpace(f.to) == "" {
		return errors.New("--from and --to are required")
	}
	return nil
}

func newLegsAddCmd() *cobra.Command {
	var (
		id       int
		name     string
		model    string
		capacity int
		leg      legFlags
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a plane with its first flight leg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" || strings.TrimSpace(model) == "" {
				return errors.New("--name and --model are required")
			}
			if err := leg.validate(); err != nil {
				return err
			}

			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			body := map[string]any{
				"id":       id,
				"name":     name,
				"model":    model,
				"capacity": capacity,
				"date":     leg.date,
				"from":     leg.from,
				"to":       leg.to,
			}
			if leg.status != "" {
				body["status"] = leg.status
			}
			rec, err := c.AddLeg(cmd.Context(), body)
			if err != nil {
				return err
			}
			printMessage(cmd, fmt.Sprintf("Flight %d on %s from %s to %s added.", rec.ID, rec.Date, rec.From, rec.To))
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Plane ID")
	cmd.Flags().StringVar(&name, "name", "", "Plane name")
	cmd.Flags().StringVar(&model, "model", "", "Aircraft model")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "Seat capacity")
	leg.register(cmd)
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newLegsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete every leg of a plane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			msg, err := c.DeleteLegs(cmd.Context(), id)
			if err != nil {
				return err
			}
			printMessage(cmd, msg)
			return nil
		},
	}
}

func newLegsAddFlightCmd() *cobra.Command {
	var leg legFlags

	cmd := &cobra.Command{
		Use:   "add-flight ID",
		Short: "Add a leg to an existing plane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := leg.validate(); err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			msg, err := c.AddLegFlight(cmd.Context(), models.FlightRequest{
				ID:     id,
				Date:   leg.date,
				From:   leg.from,
				To:     leg.to,
				Status: leg.status,
			})
			if err != nil {
				return err
			}
			printMessage(cmd, msg)
			return nil
		},
	}
	leg.register(cmd)
	return cmd
}

func newLegsDeleteFlightCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "delete-flight ID DATE",
		Short: "Remove the legs of a plane on a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := singleDate(args[1]); err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			msg, err := c.DeleteLegFlight(cmd.Context(), models.FlightRequest{
				ID:   id,
				Date: strings.TrimSpace(args[1]),
				From: from,
				To:   to,
			})
			if err != nil {
				return err
			}
			printMessage(cmd, msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Only remove legs departing from this airport")
	cmd.Flags().StringVar(&to, "to", "", "Only remove legs arriving at this airport")
	return cmd
}
