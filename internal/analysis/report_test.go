// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_IssueReport(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	report := analyze(t, Options{}, badRouteEvents()).IssueReport(now)

	assert.Equal(t, testRoot, report.Root)
	assert.Equal(t, now, report.GeneratedAt)
	assert.Equal(t, 8, report.Summary.Total)
	assert.Equal(t, 3, report.Summary.NoController)
	assert.Equal(t, 2, report.Summary.NoAction)
	assert.Equal(t, 3, report.Summary.Resources)
	require.Len(t, report.Issues, 8)

	first := report.Issues[0]
	assert.Equal(t, "resources", first.Kind)
	assert.Equal(t, "routes_bad.rb:4", first.Location)
	assert.Equal(t, "/app/routes_bad.rb", first.File)
	assert.Equal(t, 4, first.Line)
	assert.Equal(t, "home", first.Controller)
	assert.Equal(t, "HomeController", first.Class)
	assert.Equal(t, []string{"index", "show"}, first.Present)
	assert.Equal(t, []string{"create", "destroy", "edit", "new", "update"}, first.Missing)
	assert.Equal(t, "only: [:index, :show]", first.SuggestedParam)
	assert.Equal(t, "use only: [:index, :show]", first.Suggestion)
	assert.Equal(t, "`resources' call at routes_bad.rb:4 for HomeController should use only: [:index, :show]", first.Message)

	var noAction, noController int
	for _, entry := range report.Issues {
		switch entry.Kind {
		case "no_action":
			noAction++
			assert.Equal(t, "FullItemsController", entry.Class)
			assert.Len(t, entry.Missing, 1)
			assert.Empty(t, entry.SuggestedParam)
		case "no_controller":
			noController++
			assert.Empty(t, entry.Present)
			assert.NotNil(t, entry.Present)
			assert.Equal(t, []string{"index"}, entry.Missing)
		}
	}
	assert.Equal(t, 2, noAction)
	assert.Equal(t, 3, noController)
}

func TestResult_IssueReport_Clean(t *testing.T) {
	report := analyze(t, Options{}, []Event{
		{Location: "routes.rb:2", Method: "root", Controller: "home", Action: "index"},
	}).IssueReport(time.Time{})

	assert.Equal(t, 0, report.Summary.Total)
	assert.NotNil(t, report.Issues)
	assert.Empty(t, report.Issues)
}

func TestResult_IssueReport_LineContext(t *testing.T) {
	events := []Event{
		{Location: "routes_bad_loops.rb:7", Method: "get", Controller: "home", Action: "index"},
		{Location: "routes_bad_loops.rb:7", Method: "get", Controller: "home", Action: "unknown_action"},
	}
	report := analyze(t, Options{}, events).IssueReport(time.Time{})

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "remove case for :unknown_action", report.Issues[0].Suggestion)
}

func TestResult_RouteReport(t *testing.T) {
	events := []Event{
		{Location: "routes.rb:2", Verb: "GET", Method: "root", Controller: "home", Action: "index"},
		{Location: "routes.rb:3", Verb: "GET", Method: "get", Controller: "home", Action: "gone"},
	}
	report := analyze(t, Options{}, events).RouteReport()

	assert.Equal(t, testRoot, report.Root)
	require.Len(t, report.Events, 2)
	assert.Equal(t, "routes.rb:2", report.Events[0].Location)
	assert.Equal(t, "root", report.Events[0].Method)
	assert.Equal(t, "GET", report.Events[0].Verb)
	assert.True(t, report.Events[0].Implemented)
	assert.Equal(t, "gone", report.Events[1].Action)
	assert.False(t, report.Events[1].Implemented)
}
