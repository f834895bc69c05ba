package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/database/seeders"
	"github.com/shashiranjanraj/bizadmin/pkg/database"
	"github.com/shashiranjanraj/bizadmin/pkg/migration"

	_ "github.com/shashiranjanraj/bizadmin/database/migrations"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// bizadmin migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		ran, err := migration.New(database.DB).Run(cmd.Context())
		for _, name := range ran {
			fmt.Println("Migrated:", name)
		}
		if err == nil && len(ran) == 0 {
			fmt.Println("Nothing to migrate.")
		}
		return err
	},
}

// bizadmin migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		rolled, err := migration.New(database.DB).Rollback(cmd.Context())
		for _, name := range rolled {
			fmt.Println("Rolled back:", name)
		}
		if err == nil && len(rolled) == 0 {
			fmt.Println("Nothing to roll back.")
		}
		return err
	},
}

// bizadmin migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		st, err := migration.New(database.DB).Status(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
		for _, s := range st {
			ran, batch := "no", "-"
			if s.Ran {
				ran, batch = "yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, s.Name)
		}
		return w.Flush()
	},
}

// bizadmin seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		ran, err := seeders.RunAll(cmd.Context(), database.DB)
		fmt.Printf("Seeded: %v\n", ran)
		return err
	},
}
