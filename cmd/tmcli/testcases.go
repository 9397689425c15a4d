package main

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/ui"
)

var testCasesCmd = &cobra.Command{
	Use:     "test-cases",
	Aliases: []string{"tc"},
	Short:   "Browse test cases",
}

var testCaseColumns = []ui.Column[model.TestCase]{
	{Key: "name", Header: "NAME", Cell: func(t model.TestCase) string { return t.Name }},
	{Key: "status", Header: "STATUS", Cell: func(t model.TestCase) string {
		return ui.TestCaseStatuses.Render(t.Status)
	}},
	{Key: "version", Header: "VERSION", Cell: func(t model.TestCase) string { return ui.Deref(t.Version) }},
	{Key: "manual", Header: "MANUAL", Cell: func(t model.TestCase) string {
		if t.IsManual {
			return "yes"
		}
		return "no"
	}},
	{Key: "tags", Header: "TAGS", Cell: func(t model.TestCase) string {
		if len(t.Tags) == 0 {
			return "-"
		}
		return strings.Join(t.Tags, ",")
	}},
	{Key: "lastrun", Header: "LAST RUN", Cell: func(t model.TestCase) string {
		if t.LastRun == nil {
			return "-"
		}
		return t.LastRun.Format(time.DateTime)
	}},
	{Key: "id", Header: "ID", Cell: func(t model.TestCase) string { return t.ID }},
}

var (
	tcProject string
	tcStatus  string
	tcSort    string
	tcDesc    bool
	tcFilter  string
)

var testCasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List test cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		cases, err := c.ListTestCases(ctx, tcProject, tcStatus)
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, testCaseColumns, cases, ui.TableOptions{
			SortKey: tcSort, SortDesc: tcDesc, Filter: tcFilter,
		})
		return nil
	},
}

var testCaseVersionColumns = []ui.Column[model.TestCaseVersion]{
	{Key: "version", Header: "VERSION", Cell: func(v model.TestCaseVersion) string { return v.Version }},
	{Key: "name", Header: "NAME", Cell: func(v model.TestCaseVersion) string { return v.Name }},
	{Key: "created", Header: "CREATED", Cell: func(v model.TestCaseVersion) string {
		return v.CreatedAt.Format(time.DateTime)
	}},
	{Key: "id", Header: "ID", Cell: func(v model.TestCaseVersion) string { return v.ID }},
}

var testCaseVersionsCmd = &cobra.Command{
	Use:   "versions <testCaseId>",
	Short: "List the version snapshots of a test case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		versions, err := c.ListTestCaseVersions(ctx, args[0])
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, testCaseVersionColumns, versions, ui.TableOptions{})
		return nil
	},
}

var testCaseRestoreCmd = &cobra.Command{
	Use:   "restore <testCaseId> <version>",
	Short: "Restore a test case to a version snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		tc, err := c.RestoreTestCaseVersion(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, testCaseColumns, []model.TestCase{tc}, ui.TableOptions{})
		return nil
	},
}

var testCaseStepsCmd = &cobra.Command{
	Use:   "steps <testCaseId>",
	Short: "List the steps of a test case in execution order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		steps, err := c.ListTestCaseSteps(ctx, args[0])
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, stepColumns, steps, ui.TableOptions{})
		return nil
	},
}

func init() {
	testCasesCmd.AddCommand(testCasesListCmd)
	testCasesCmd.AddCommand(testCaseVersionsCmd)
	testCasesCmd.AddCommand(testCaseRestoreCmd)
	testCasesCmd.AddCommand(testCaseStepsCmd)

	testCasesListCmd.Flags().StringVarP(&tcProject, "project", "p", "", "restrict to one project id")
	testCasesListCmd.Flags().StringVar(&tcStatus, "status", "", "restrict to one status")
	testCasesListCmd.Flags().StringVar(&tcSort, "sort", "", "column key to sort by")
	testCasesListCmd.Flags().BoolVar(&tcDesc, "desc", false, "sort descending")
	testCasesListCmd.Flags().StringVarP(&tcFilter, "filter", "f", "", "substring filter across all columns")
}
