package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"testlinkctl/pkg/config"
	"testlinkctl/pkg/provision"
)

// accountSeedCmd represents the account seed command
var accountSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the admin account and pin its API key",
	Long: `Seed the admin account and pin its API key.

The admin row is inserted only if the login is absent; the API key column is
overwritten with the configured pre-shared key on every run, so a drifted key
can be repaired by rerunning this command.

The pre-shared key comes from TESTLINK_API_KEY or the config file.

Example:
  testlinkctl account seed
  testlinkctl account seed --login qa-admin --email qa@example.com`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		database, err := connectDB(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
			os.Exit(1)
		}

		login, _ := cmd.Flags().GetString("login")
		password, _ := cmd.Flags().GetString("password")
		email, _ := cmd.Flags().GetString("email")

		seeder := newAccountSeeder(cfg, database, login, password, email)
		if err := seeder.Seed(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Account seeding failed: %v\n", err)
			os.Exit(1)
		}

		user, err := seeder.Lookup(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Account seeded but verification failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Admin account %q (id %d) seeded with pre-shared API key\n", user.Login, user.ID)
	},
}

func init() {
	accountCmd.AddCommand(accountSeedCmd)
	accountSeedCmd.Flags().StringP("login", "l", "admin", "Admin login name")
	accountSeedCmd.Flags().StringP("password", "p", "admin", "Admin password (stored as an MD5 hash)")
	accountSeedCmd.Flags().StringP("email", "e", "admin@example.com", "Admin email address")
}

func newAccountSeeder(cfg *config.Config, database *gorm.DB, login, password, email string) *provision.AccountSeeder {
	return &provision.AccountSeeder{
		DB:        database,
		Table:     cfg.Table("users"),
		Login:     login,
		Password:  password,
		Email:     email,
		FirstName: "Testlink",
		LastName:  "Administrator",
		Locale:    "en_GB",
		APIKey:    cfg.APIKey,
	}
}
