package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"testlinkctl/pkg/config"
	"testlinkctl/pkg/container"
	"testlinkctl/pkg/provision"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for TestLink to be ready",
	Long: `Wait for TestLink to be ready.

Readiness requires two signals: the database container reports running, and
the TestLink login page answers over HTTP. The command polls both at a fixed
interval until they hold or the retry budget runs out.

Example:
  testlinkctl wait
  testlinkctl wait --interval 5 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()

		interval, _ := cmd.Flags().GetInt("interval")
		retries, _ := cmd.Flags().GetInt("retries")
		if interval == 0 {
			interval = cfg.ProbeIntervalSeconds
		}
		if retries == 0 {
			retries = cfg.ProbeRetries
		}

		if err := waitForTestLink(cfg, interval, retries); err != nil {
			fmt.Fprintf(os.Stderr, "TestLink did not become ready: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("TestLink is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("interval", "i", 0, "Seconds between probes (default: probe_interval_seconds)")
	waitCmd.Flags().IntP("retries", "r", 0, "Number of probes before giving up (default: probe_retries)")
}

func waitForTestLink(cfg *config.Config, interval, retries int) error {
	runtime, err := container.NewDockerRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = runtime.Close() }()

	prober := &provision.Prober{
		Runtime:     runtime,
		DBContainer: cfg.DBContainer,
		LoginURL:    cfg.LoginURL(),
		Interval:    time.Duration(interval) * time.Second,
		Retries:     retries,
		Out:         os.Stdout,
	}
	return prober.Wait(context.Background())
}
