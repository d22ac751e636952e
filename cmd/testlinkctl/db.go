package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"testlinkctl/pkg/config"
	"testlinkctl/pkg/container"
	"testlinkctl/pkg/db"
	"testlinkctl/pkg/provision"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the TestLink database",
	Long:  `Manage the TestLink database schema.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'db' requires a subcommand (check, seed)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
}

func connectDB(cfg *config.Config) (*gorm.DB, error) {
	return db.Connect(db.Config{DSN: cfg.DSN()})
}

func newSchemaSeeder(cfg *config.Config, database *gorm.DB, runtime container.Runtime) *provision.SchemaSeeder {
	return &provision.SchemaSeeder{
		DB:           database,
		Runtime:      runtime,
		AppContainer: cfg.AppContainer,
		SchemaFile:   cfg.SchemaFile,
		DataFile:     cfg.DataFile,
		Database:     cfg.DBName,
		Table:        cfg.Table("users"),
		Out:          os.Stdout,
	}
}
