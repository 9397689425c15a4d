package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/ui"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Browse projects",
}

var projectColumns = []ui.Column[model.ProjectWithStats]{
	{Key: "name", Header: "NAME", Cell: func(p model.ProjectWithStats) string { return p.Name }},
	{Key: "env", Header: "ENV", Cell: func(p model.ProjectWithStats) string { return p.Environment }},
	{Key: "cases", Header: "CASES", Cell: func(p model.ProjectWithStats) string {
		return fmt.Sprintf("%d", p.TestCasesCount)
	}},
	{Key: "pass", Header: "PASS%", Cell: func(p model.ProjectWithStats) string {
		return fmt.Sprintf("%.1f", p.SuccessRate)
	}},
	{Key: "lastrun", Header: "LAST RUN", Cell: func(p model.ProjectWithStats) string {
		if p.LastRun == nil {
			return "-"
		}
		return p.LastRun.Format(time.DateTime)
	}},
	{Key: "id", Header: "ID", Cell: func(p model.ProjectWithStats) string { return p.ID }},
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		projects, err := c.ListProjectsWithStats(ctx)
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, projectColumns, projects, ui.TableOptions{
			SortKey: projectSort, SortDesc: projectSortDesc, Filter: projectFilter,
		})
		return nil
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one project with its statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		p, err := c.GetProject(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Name:        %s\n", p.Name)
		fmt.Printf("Environment: %s\n", p.Environment)
		fmt.Printf("Description: %s\n", ui.Deref(p.Description))
		fmt.Printf("Test cases:  %d\n", p.TestCasesCount)
		fmt.Printf("Total runs:  %d\n", p.TotalRuns)
		fmt.Printf("Pass rate:   %.1f%%\n", p.SuccessRate)
		if p.LastRun != nil {
			fmt.Printf("Last run:    %s by %s\n", p.LastRun.Format(time.DateTime), ui.Deref(p.LastRunBy))
		}
		return nil
	},
}

var (
	projectSort     string
	projectSortDesc bool
	projectFilter   string
)

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsShowCmd)

	projectsListCmd.Flags().StringVar(&projectSort, "sort", "name", "column key to sort by")
	projectsListCmd.Flags().BoolVar(&projectSortDesc, "desc", false, "sort descending")
	projectsListCmd.Flags().StringVarP(&projectFilter, "filter", "f", "", "substring filter across all columns")
}
