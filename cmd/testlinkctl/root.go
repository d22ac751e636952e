package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testlinkctl",
	Short: "Provision and front a TestLink instance",
	Long: `testlinkctl provisions a containerized TestLink instance and serves a
prompt-driven HTTP facade over its XML-RPC API.

A typical first run:

  testlinkctl stack up
  testlinkctl setup
  testlinkctl server`,
}

// Execute runs the root command. It is called once, from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
