package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", "table", "Output format: table or json")
}

func checkFormat(format string) error {
	switch format {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

func outputPlanes(cmd *cobra.Command, planes []models.PlaneRecord) {
	if len(planes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No planes found.")
		return
	}

	t := newTable(cmd)
	t.AppendHeader(table.Row{"ID", "Name", "Model", "Capacity", "Flight Dates"})
	for _, p := range planes {
		t.AppendRow(table.Row{p.ID, p.Name, p.Model, p.Capacity, strings.Join(p.FlightDates, ", ")})
	}
	t.Render()
}

func outputLegs(cmd *cobra.Command, groups []models.PlaneRoutes) {
	if len(groups) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No flights found.")
		return
	}

	t := newTable(cmd)
	t.AppendHeader(table.Row{"ID", "Name", "Model", "Capacity", "Date", "From", "To", "Status"})
	for _, g := range groups {
		for i, r := range g.Routes {
			if i == 0 {
				t.AppendRow(table.Row{g.ID, g.Name, g.Model, g.Capacity, r.Date, r.From, r.To, r.Status})
				continue
			}
			t.AppendRow(table.Row{"", "", "", "", r.Date, r.From, r.To, r.Status})
		}
		t.AppendSeparator()
	}
	t.Render()
}

func printMessage(cmd *cobra.Command, msg string) {
	fmt.Fprintln(cmd.OutOrStdout(), msg)
}
