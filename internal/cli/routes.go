// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/api2spec/routelint/internal/output"
	"github.com/api2spec/routelint/pkg/types"
)

var routesMissingOnly bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print every route the routes files generate",
	Long: `Routes prints the route log the routes files generate, one route per
line, with the call site that declared it.

Example:
  routelint routes                        # location  verb  method  controller#action
  routelint routes --missing              # Only routes without an action
  routelint routes --format yaml          # Machine readable log`,
	RunE: runRoutes,
}

func init() {
	routesCmd.Flags().BoolVar(&routesMissingOnly, "missing", false, "print only routes whose action is not implemented")
}

func runRoutes(cmd *cobra.Command, args []string) error {
	s, err := newSession(nil)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	result, _, err := s.analyze(cmd.Context())
	if err != nil {
		return fail(err)
	}

	report := result.RouteReport()
	if routesMissingOnly {
		kept := report.Events[:0]
		for _, ev := range report.Events {
			if !ev.Implemented {
				kept = append(kept, ev)
			}
		}
		report.Events = kept
	}

	if s.format() == "text" {
		err = writeRouteLog(cmd.OutOrStdout(), report.Events)
	} else {
		err = output.NewWriter().Write(report, s.format(), cmd.OutOrStdout())
	}
	if err != nil {
		return fail(err)
	}
	return nil
}

// writeRouteLog prints events in aligned columns.
func writeRouteLog(w io.Writer, events []types.RouteEvent) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, ev := range events {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s#%s\n", ev.Location, ev.Verb, ev.Method, ev.Controller, ev.Action); err != nil {
			return err
		}
	}
	return tw.Flush()
}
