package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"testlinkctl/pkg/config"
)

// stackCmd represents the stack command
var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Manage the TestLink container stack",
	Long: `Manage the TestLink container stack via docker compose.

The compose file defaults to the one named in the configuration (compose_file
or COMPOSE_FILE).`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'stack' requires a subcommand (up, down, logs, restart, clean)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var stackUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the TestLink containers",
	Run: func(cmd *cobra.Command, args []string) {
		runCompose("up", "-d")
	},
}

var stackDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop the TestLink containers",
	Run: func(cmd *cobra.Command, args []string) {
		runCompose("down")
	},
}

var stackLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Tail the TestLink container logs",
	Run: func(cmd *cobra.Command, args []string) {
		follow, _ := cmd.Flags().GetBool("follow")
		if follow {
			runCompose("logs", "-f")
			return
		}
		runCompose("logs")
	},
}

var stackRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the TestLink containers",
	Run: func(cmd *cobra.Command, args []string) {
		runCompose("restart")
	},
}

var stackCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Stop the containers and remove their volumes",
	Long: `Stop the containers and remove their volumes.

This deletes the TestLink database. The next "setup" run starts from an empty
instance.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCompose("down", "--volumes", "--remove-orphans")
	},
}

func init() {
	rootCmd.AddCommand(stackCmd)
	stackCmd.AddCommand(stackUpCmd)
	stackCmd.AddCommand(stackDownCmd)
	stackCmd.AddCommand(stackLogsCmd)
	stackCmd.AddCommand(stackRestartCmd)
	stackCmd.AddCommand(stackCleanCmd)

	stackLogsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
}

func runCompose(args ...string) {
	cfg := config.Get()

	composeArgs := []string{"compose"}
	if cfg.ComposeFile != "" {
		composeArgs = append(composeArgs, "-f", cfg.ComposeFile)
	}
	composeArgs = append(composeArgs, args...)

	cmd := exec.Command("docker", composeArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "docker compose failed: %v\n", err)
		os.Exit(1)
	}
}
