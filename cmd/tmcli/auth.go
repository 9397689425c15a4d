package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginEmail, loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store a session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginPassword == "" {
			fmt.Print("Password: ")
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return err
			}
			loginPassword = string(b)
		}

		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		res, err := c.Login(ctx, loginEmail, loginPassword)
		if err != nil {
			return err
		}
		color.Green("✓ Logged in as %s (%s)", res.User.Username, res.User.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and clear the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		if err := c.Logout(ctx); err != nil {
			return err
		}
		color.Green("✓ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ctx, cancel := cmdCtx()
		defer cancel()

		u, err := c.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> role=%s active=%t\n", u.Username, u.Email, u.Role, u.IsActive)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("email")
}
