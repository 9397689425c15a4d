package main

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qaops/test-manager/internal/client"
	"github.com/qaops/test-manager/internal/model"
	"github.com/qaops/test-manager/internal/ui"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var userColumns = []ui.Column[model.User]{
	{Key: "username", Header: "USERNAME", Cell: func(u model.User) string { return u.Username }},
	{Key: "email", Header: "EMAIL", Cell: func(u model.User) string { return u.Email }},
	{Key: "role", Header: "ROLE", Cell: func(u model.User) string { return ui.RoleStatuses.Render(u.Role) }},
	{Key: "active", Header: "ACTIVE", Cell: func(u model.User) string {
		if u.IsActive {
			return "yes"
		}
		return "no"
	}},
	{Key: "created", Header: "CREATED", Cell: func(u model.User) string {
		return u.CreatedAt.Format(time.DateOnly)
	}},
	{Key: "id", Header: "ID", Cell: func(u model.User) string { return u.ID }},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		users, err := c.ListUsers(ctx)
		if err != nil {
			return err
		}
		ui.RenderTable(os.Stdout, userColumns, users, ui.TableOptions{
			SortKey: sortKey, SortDesc: sortDesc, Filter: filterText,
		})
		return nil
	},
}

var newUser client.CreateUserInput
var newUserConfirm string

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		// validation failures never reach the network
		if err := client.ValidateNewUser(newUser.Username, newUser.Password, newUserConfirm); err != nil {
			return err
		}

		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		u, err := c.CreateUser(ctx, newUser)
		if err != nil {
			return err
		}
		color.Green("✓ Created user %s (%s)", u.Username, u.ID)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		if err := c.DeleteUser(ctx, args[0]); err != nil {
			return err
		}
		color.Green("✓ Deleted user %s", args[0])
		return nil
	},
}

var (
	sortKey    string
	sortDesc   bool
	filterText string
)

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersListCmd.Flags().StringVar(&sortKey, "sort", "", "column key to sort by")
	usersListCmd.Flags().BoolVar(&sortDesc, "desc", false, "sort descending")
	usersListCmd.Flags().StringVarP(&filterText, "filter", "f", "", "substring filter across all columns")

	usersCreateCmd.Flags().StringVar(&newUser.Email, "email", "", "email address")
	usersCreateCmd.Flags().StringVar(&newUser.Username, "username", "", "username (min 4 chars, [A-Za-z0-9_])")
	usersCreateCmd.Flags().StringVar(&newUser.Password, "password", "", "password")
	usersCreateCmd.Flags().StringVar(&newUserConfirm, "confirm", "", "password confirmation")
	usersCreateCmd.Flags().StringVar(&newUser.Role, "role", "USER", "role (ADMIN or USER)")
	_ = usersCreateCmd.MarkFlagRequired("email")
	_ = usersCreateCmd.MarkFlagRequired("username")
	_ = usersCreateCmd.MarkFlagRequired("password")
	_ = usersCreateCmd.MarkFlagRequired("confirm")
}
