package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// accountCmd represents the account command
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the TestLink admin account",
	Long:  `Manage the TestLink administrative account and its API key.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'account' requires a subcommand (seed)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
}
