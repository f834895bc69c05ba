// Command bizadmin runs the admin backend and drives it from the terminal.
//
//	bizadmin serve
//	bizadmin migrate
//	bizadmin leads list --search ban
//	bizadmin food add --set name=Pie --set descr=apple --set price=12.50
//	bizadmin chat "hello"
//	bizadmin report history --sort date
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/client"
)

var (
	apiURL   string
	apiToken string
)

var rootCmd = &cobra.Command{
	Use:           "bizadmin",
	Short:         "Business admin backend and CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// apiClient is the client used by the data commands.
func apiClient() *client.Client {
	c := client.New(apiURL)
	c.Token = apiToken
	return c
}

func init() {
	_ = config.Load()
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", config.APIURL(), "API base URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("BIZADMIN_TOKEN"), "bearer token for mutations")

	// server
	rootCmd.AddCommand(serveCmd, routeListCmd)
	// database
	rootCmd.AddCommand(migrateCmd, migrateRollbackCmd, migrateStatusCmd, seedCmd)
	// workers
	rootCmd.AddCommand(queueWorkCmd, scheduleRunCmd)
	// data
	rootCmd.AddCommand(foodCmd(), leadsCmd(), productsCmd(), loginCmd, chatCmd, reportCmd)
}
