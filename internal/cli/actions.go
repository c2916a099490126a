// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/api2spec/routelint/internal/actions"
	"github.com/api2spec/routelint/internal/config"
	"github.com/api2spec/routelint/internal/gems"
	"github.com/api2spec/routelint/internal/output"
)

var actionsCmd = &cobra.Command{
	Use:   "actions [extras...]",
	Short: "List controller actions that no route reaches",
	Long: fmt.Sprintf(`Actions prints the controller hierarchy with every public action that no
route reaches, preceded by the controllers no route reaches at all.

Extras widen the report:
  duplicates   include actions inherited unchanged from the parent
  gems         include actions implemented inside installed gems
  modules      include actions provided by included modules
  full         print absolute source paths
  metadata     print route and inheritance details
  all          include actions that do have a route

Accepted extras: %s

Example:
  routelint actions                       # Actions without a route
  routelint actions modules metadata      # With module actions and details
  routelint actions all --format json     # Every action as JSON`, strings.Join(config.ReportExtras, ", ")),
	RunE: runActions,
}

func runActions(cmd *cobra.Command, args []string) error {
	s, err := newSession(func(cfg *config.Config) error {
		return config.ApplyReportExtras(cfg, args)
	})
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	result, controllers, err := s.analyze(cmd.Context())
	if err != nil {
		return fail(err)
	}

	locator, err := gems.NewLocator(s.root, s.cfg.Gems.Entries, s.cfg.Gems.Paths)
	if err != nil {
		return fail(fmt.Errorf("failed to locate gems: %w", err))
	}
	s.logger.Debug("located gems", "gems", len(locator.Gems()))

	opts := actions.Options{
		ReportDuplicates: s.cfg.Report.Duplicates,
		ReportGems:       s.cfg.Report.Gems,
		ReportModules:    s.cfg.Report.Modules,
		FullPath:         s.cfg.Report.FullPath,
		Metadata:         s.cfg.Report.Metadata,
		ReportAll:        s.cfg.Report.All,
	}
	report := actions.NewReport(actions.Build(controllers.Roots(), result, locator, opts), opts)

	if s.format() == "text" {
		err = report.Write(cmd.OutOrStdout())
	} else {
		err = output.NewWriter().Write(report.ActionReport(s.root), s.format(), cmd.OutOrStdout())
	}
	if err != nil {
		return fail(err)
	}
	return nil
}
