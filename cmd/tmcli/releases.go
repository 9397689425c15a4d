package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/ui"
)

var releasesCmd = &cobra.Command{
	Use:   "releases <projectId>",
	Short: "List the releases of a project with progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		releases, err := c.ListReleases(ctx, args[0])
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, releaseColumns, releases, ui.TableOptions{})
		return nil
	},
}

var releaseColumns = []ui.Column[model.ReleaseSummary]{
	{Key: "version", Header: "VERSION", Cell: func(r model.ReleaseSummary) string { return r.Version }},
	{Key: "name", Header: "NAME", Cell: func(r model.ReleaseSummary) string { return r.Name }},
	{Key: "status", Header: "STATUS", Cell: func(r model.ReleaseSummary) string {
		return ui.ReleaseStatuses.Render(r.Status)
	}},
	{Key: "start", Header: "START", Cell: func(r model.ReleaseSummary) string {
		return r.StartDate.Format(time.DateOnly)
	}},
	{Key: "cases", Header: "CASES", Cell: func(r model.ReleaseSummary) string {
		return fmt.Sprintf("%d", r.Stats.TotalTestCases)
	}},
	{Key: "progress", Header: "PROGRESS", Cell: func(r model.ReleaseSummary) string {
		return fmt.Sprintf("%.0f%%", r.Stats.ReleaseProgress)
	}},
	{Key: "id", Header: "ID", Cell: func(r model.ReleaseSummary) string { return r.ID }},
}
