package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qaops/test-manager/internal/client"
	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/ui"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Browse pages and their locators",
}

var pageColumns = []ui.Column[model.Page]{
	{Key: "name", Header: "NAME", Cell: func(p model.Page) string { return p.Name }},
	{Key: "project", Header: "PROJECT", Cell: func(p model.Page) string { return p.ProjectID }},
	{Key: "id", Header: "ID", Cell: func(p model.Page) string { return p.ID }},
}

var locatorColumns = []ui.Column[model.PageLocator]{
	{Key: "key", Header: "KEY", Cell: func(l model.PageLocator) string { return l.Key }},
	{Key: "value", Header: "VALUE", Cell: func(l model.PageLocator) string { return l.Value }},
	{Key: "id", Header: "ID", Cell: func(l model.PageLocator) string { return l.ID }},
}

var pagesProject string

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		pages, err := c.ListPages(ctx, pagesProject)
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, pageColumns, pages, ui.TableOptions{})
		return nil
	},
}

var locatorsCmd = &cobra.Command{
	Use:   "locators <pageId>",
	Short: "List the locators of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		locs, err := c.ListLocators(ctx, args[0])
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, locatorColumns, locs, ui.TableOptions{SortKey: "key"})
		return nil
	},
}

var addLocatorCmd = &cobra.Command{
	Use:   "add-locator <pageId> <key> <value>",
	Short: "Add a locator to a page",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		// blocked client-side before any request goes out
		if err := client.ValidateLocator(args[1], args[2]); err != nil {
			return err
		}

		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		loc, err := c.CreateLocator(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		color.Green("✓ Added locator %s", loc.Key)

		// refetch so the new row shows in its sorted position
		locs, err := c.ListLocators(ctx, args[0])
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, locatorColumns, locs, ui.TableOptions{SortKey: "key"})
		return nil
	},
}

var rmLocatorCmd = &cobra.Command{
	Use:   "rm-locator <pageId> <locatorId>",
	Short: "Delete a locator",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		if err := c.DeleteLocator(ctx, args[0], args[1]); err != nil {
			return err
		}
		color.Green("✓ Deleted locator %s", args[1])
		return nil
	},
}

func init() {
	pagesCmd.AddCommand(pagesListCmd)
	pagesCmd.AddCommand(locatorsCmd)
	pagesCmd.AddCommand(addLocatorCmd)
	pagesCmd.AddCommand(rmLocatorCmd)

	pagesListCmd.Flags().StringVarP(&pagesProject, "project", "p", "", "restrict to one project id")
}
