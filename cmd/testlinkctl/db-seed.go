package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"testlinkctl/pkg/config"
	"testlinkctl/pkg/container"
)

// dbSeedCmd represents the db seed command
var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the TestLink schema and default data",
	Long: `Import the TestLink schema and default data.

The installer SQL files are read out of the running application container and
executed against the configured database. If the schema is already present
the command is a no-op.

Example:
  testlinkctl db seed`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()

		if err := seedSchema(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Schema seeding failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbSeedCmd)
}

func seedSchema(cfg *config.Config) error {
	database, err := connectDB(cfg)
	if err != nil {
		return err
	}

	runtime, err := container.NewDockerRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = runtime.Close() }()

	seeder := newSchemaSeeder(cfg, database, runtime)
	imported, err := seeder.Seed(context.Background())
	if err != nil {
		return err
	}

	if imported {
		fmt.Println("Schema and default data imported")
	} else {
		fmt.Println("Schema already present, nothing to do")
	}
	return nil
}
