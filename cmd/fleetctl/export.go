package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/fleetdesk/internal/models"
	"github.com/dharmasatrya/fleetdesk/internal/schema"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the plane list as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			planes, err := c.ListPlanes(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return writePlanesCSV(cmd.OutOrStdout(), planes)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := writePlanesCSV(f, planes); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d planes to %s\n", len(planes), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

// writePlanesCSV writes planes in the same layout the server stores them.
func writePlanesCSV(out io.Writer, planes []models.PlaneRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(schema.Planes.Header()); err != nil {
		return err
	}
	for i := range planes {
		row, err := schema.Planes.Encode(&planes[i])
		if err != nil {
			return err
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
