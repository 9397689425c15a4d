package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qaops/test-manager/internal/client"
	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/ui"
)

var resultsProject string

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List test result runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		results, err := c.ListResults(ctx, resultsProject)
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, resultColumns, results, ui.TableOptions{})
		return nil
	},
}

var resultColumns = []ui.Column[model.TestResult]{
	{Key: "name", Header: "NAME", Cell: func(r model.TestResult) string { return ui.Deref(r.Name) }},
	{Key: "status", Header: "STATUS", Cell: func(r model.TestResult) string {
		return ui.ResultStatuses.Render(r.Status)
	}},
	{Key: "time", Header: "TIME(MS)", Cell: func(r model.TestResult) string {
		if r.ExecutionTime == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *r.ExecutionTime)
	}},
	{Key: "browser", Header: "BROWSER", Cell: func(r model.TestResult) string { return ui.Deref(r.Browser) }},
	{Key: "created", Header: "CREATED", Cell: func(r model.TestResult) string {
		return r.CreatedAt.Format(time.DateTime)
	}},
	{Key: "id", Header: "ID", Cell: func(r model.TestResult) string { return r.ID }},
}

// executionsCmd renders the aggregated detail view of one execution: the
// execution, its parent run, the test case that ran, and every sibling
// execution from the same run with resolved names.
var executionsCmd = &cobra.Command{
	Use:   "execution <id>",
	Short: "Show one execution with its run context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		d, err := c.FetchExecutionDetail(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Execution:  %s\n", d.Execution.ID)
		fmt.Printf("Test case:  %s\n", d.TestCase.Name)
		fmt.Printf("Status:     %s\n", ui.TestCaseStatuses.Render(d.Execution.Status))
		if d.Execution.Duration != nil {
			fmt.Printf("Duration:   %dms\n", *d.Execution.Duration)
		}
		fmt.Printf("Retries:    %d\n", d.Execution.Retries)
		fmt.Printf("Run:        %s (%s)\n", ui.Deref(d.Result.Name), d.Result.ID)
		if d.Execution.ErrorMessage != nil {
			fmt.Printf("Error:      %s\n", *d.Execution.ErrorMessage)
		}

		if len(d.Siblings) > 0 {
			fmt.Println("\nExecutions in this run:")
			ui.RenderTable(os.Stdout, siblingColumns, d.Siblings, ui.TableOptions{})
		}
		return nil
	},
}

var siblingColumns = []ui.Column[client.SiblingExecution]{
	{Key: "name", Header: "TEST CASE", Cell: func(s client.SiblingExecution) string { return s.TestCaseName }},
	{Key: "status", Header: "STATUS", Cell: func(s client.SiblingExecution) string {
		return ui.TestCaseStatuses.Render(s.Status)
	}},
	{Key: "duration", Header: "DURATION(MS)", Cell: func(s client.SiblingExecution) string {
		if s.Duration == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *s.Duration)
	}},
	{Key: "retries", Header: "RETRIES", Cell: func(s client.SiblingExecution) string {
		return fmt.Sprintf("%d", s.Retries)
	}},
	{Key: "id", Header: "ID", Cell: func(s client.SiblingExecution) string { return s.ID }},
}

func init() {
	resultsCmd.Flags().StringVarP(&resultsProject, "project", "p", "", "restrict to one project id")
}
