package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qaops/test-manager/internal/client"
)

var (
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "tmcli",
		Short: "Command line client for the test-manager API",
		Long: `Browse and manage projects, test cases, pages, releases and test
results from the terminal. The API address comes from --api or TM_API_URL.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

var apiURL string

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default TM_API_URL or http://localhost:8080/api/v1)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(testCasesCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(releasesCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(executionsCmd)
}

// apiClient builds the shared client with the persisted session token.
func apiClient() (*client.Client, error) {
	store, err := client.DefaultFileStore()
	if err != nil {
		return nil, err
	}
	return client.New(apiURL, store), nil
}

// cmdCtx bounds one CLI invocation.
func cmdCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if err == client.ErrUnauthorized {
			fmt.Fprintln(os.Stderr, "Error: not logged in (run `tmcli login`)")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
