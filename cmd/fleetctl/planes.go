package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newPlanesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planes",
		Short: "Manage planes and their flight dates",
	}
	cmd.AddCommand(newPlanesListCmd())
	cmd.AddCommand(newPlanesAddCmd())
	cmd.AddCommand(newPlanesDeleteCmd())
	cmd.AddCommand(newPlanesAddFlightCmd())
	cmd.AddCommand(newPlanesDeleteFlightCmd())
	return cmd
}

func newPlanesListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List planes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			planes, err := c.ListPlanes(cmd.Context())
			if err != nil {
				return err
			}
			if format == "json" {
				return outputJSON(cmd, planes)
			}
			outputPlanes(cmd, planes)
			return nil
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newPlanesAddCmd() *cobra.Command {
	var (
		id       int
		name     string
		model    string
		capacity int
		dates    []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a plane with at least one flight date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" || strings.TrimSpace(model) == "" {
				return errors.New("--name and --model are required")
			}
			if len(dates) == 0 {
				return errors.New("at least one --date is required")
			}
			for _, d := range dates {
				if err := singleDate(d); err != nil {
					return err
				}
			}

			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			plane, err := c.AddPlane(cmd.Context(), map[string]any{
				"id":           id,
				"name":         name,
				"model":        model,
				"capacity":     capacity,
				"flight_dates": dates,
			})
			if err != nil {
				return err
			}
			printMessage(cmd, fmt.Sprintf("Plane %d added.", plane.ID))
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Plane ID")
	cmd.Flags().StringVar(&name, "name", "", "Plane name")
	cmd.Flags().StringVar(&model, "model", "", "Aircraft model")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "Seat capacity")
	cmd.Flags().StringArrayVar(&dates, "date", nil, "Flight date (repeatable)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newPlanesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a plane",
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
			msg, err := c.DeletePlane(cmd.Context(), id)
			if err != nil {
				return err
			}
			printMessage(cmd, msg)
			return nil
		},
	}
}

func newPlanesAddFlightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-flight ID DATE",
		Short: "Schedule a flight date for a plane",
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
			msg, err := c.AddFlight(cmd.Context(), id, strings.TrimSpace(args[1]))
			if err != nil {
				return err
			}
			printMessage(cmd, msg)
			return nil
		},
	}
}

func newPlanesDeleteFlightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-flight ID DATE",
		Short: "Remove a flight date from a plane",
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
			msg, err := c.DeleteFlight(cmd.Context(), id, strings.TrimSpace(args[1]))
			if err != nil {
				return err
			}
			printMessage(cmd, msg)
			return nil
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid plane ID %q", s)
	}
	return id, nil
}

func singleDate(d string) error {
	d = strings.TrimSpace(d)
	if d == "" {
		return errors.New("date must not be empty")
	}
	if strings.Contains(d, ",") {
		return fmt.Errorf("enter only one date, got %q", d)
	}
	return nil
}
