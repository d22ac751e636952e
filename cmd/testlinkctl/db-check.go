package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"testlinkctl/pkg/config"
)

// dbCheckCmd represents the db check command
var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the TestLink schema is present",
	Long: `Check whether the TestLink schema is present.

The check looks for the users table in the configured database. Exit code 0
means the schema is present, 1 means it is not (or the check failed).

Example:
  testlinkctl db check`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()

		database, err := connectDB(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
			os.Exit(1)
		}

		seeder := newSchemaSeeder(cfg, database, nil)
		exists, err := seeder.TableExists(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

		if !exists {
			fmt.Printf("Schema is missing: table %q not found in %q\n", seeder.Table, cfg.DBName)
			os.Exit(1)
		}
		fmt.Printf("Schema is present: table %q found in %q\n", seeder.Table, cfg.DBName)
	},
}

func init() {
	dbCmd.AddCommand(dbCheckCmd)
}
