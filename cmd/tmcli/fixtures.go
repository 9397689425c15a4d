package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/ui"
)

var fixturesCmd = &cobra.Command{
	Use:     "fixtures",
	Aliases: []string{"fx"},
	Short:   "Browse fixtures and their steps",
}

var fixtureColumns = []ui.Column[model.Fixture]{
	{Key: "name", Header: "NAME", Cell: func(f model.Fixture) string { return f.Name }},
	{Key: "type", Header: "TYPE", Cell: func(f model.Fixture) string { return f.Type }},
	{Key: "status", Header: "STATUS", Cell: func(f model.Fixture) string { return f.Status }},
	{Key: "project", Header: "PROJECT", Cell: func(f model.Fixture) string { return f.ProjectID }},
	{Key: "id", Header: "ID", Cell: func(f model.Fixture) string { return f.ID }},
}

// stepColumns is shared with the test-cases steps subcommand.
var stepColumns = []ui.Column[model.Step]{
	{Key: "order", Header: "#", Cell: func(s model.Step) string { return strconv.Itoa(s.Order) }},
	{Key: "action", Header: "ACTION", Cell: func(s model.Step) string { return s.Action }},
	{Key: "data", Header: "DATA", Cell: func(s model.Step) string { return ui.Deref(s.Data) }},
	{Key: "expected", Header: "EXPECTED", Cell: func(s model.Step) string { return ui.Deref(s.Expected) }},
	{Key: "disabled", Header: "DISABLED", Cell: func(s model.Step) string {
		if s.Disabled {
			return "yes"
		}
		return "no"
	}},
	{Key: "id", Header: "ID", Cell: func(s model.Step) string { return s.ID }},
}

var fixturesProject string

var fixturesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		fixtures, err := c.ListFixtures(ctx, fixturesProject)
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, fixtureColumns, fixtures, ui.TableOptions{})
		return nil
	},
}

var fixtureStepsCmd = &cobra.Command{
	Use:   "steps <fixtureId>",
	Short: "List the steps of a fixture in execution order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		steps, err := c.ListFixtureSteps(ctx, args[0])
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, stepColumns, steps, ui.TableOptions{})
		return nil
	},
}

func init() {
	fixturesCmd.AddCommand(fixturesListCmd)
	fixturesCmd.AddCommand(fixtureStepsCmd)

	fixturesListCmd.Flags().StringVarP(&fixturesProject, "project", "p", "", "restrict to one project id")
}
