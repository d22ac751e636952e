package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"testlinkctl/pkg/config"
	"testlinkctl/pkg/server"
	"testlinkctl/pkg/server/endpoints"
	"testlinkctl/pkg/testlink"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the prompt facade server",
	Long: `Run the prompt facade server.

The facade accepts free-text prompts on POST /testlink/prompt and dispatches
them to TestLink's XML-RPC API. With --demo (or DEMO_MODE=true) it serves
canned data and never contacts TestLink.

Example:
  testlinkctl server
  testlinkctl server --port 3000 --demo`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()

		demo, _ := cmd.Flags().GetBool("demo")
		demo = demo || cfg.DemoMode

		var client testlink.Client
		if demo {
			log.Println("Demo mode: serving canned data")
			client = testlink.NewDemoClient()
		} else {
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
				os.Exit(1)
			}
			c, err := testlink.NewClient(cfg.TestLinkURL, cfg.LoginURL(), cfg.APIKey)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to create TestLink client: %v\n", err)
				os.Exit(1)
			}
			client = c
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		if host == "" {
			host = cfg.BindAddress
		}
		if port == "" {
			port = cfg.Port
		}

		s := server.NewServer(client, cfg, host, port)
		endpoints.RegisterAll(s)

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			go watchConfigFile(cfg.ConfigFilePath(), func() {
				if demo {
					// Demo mode never contacts TestLink; nothing to rebuild.
					return
				}
				fresh := config.Get()
				if err := fresh.Validate(); err != nil {
					log.Printf("Reloaded configuration is invalid, keeping the old client: %v", err)
					return
				}
				c, err := testlink.NewClient(fresh.TestLinkURL, fresh.LoginURL(), fresh.APIKey)
				if err != nil {
					log.Printf("Failed to rebuild TestLink client, keeping the old one: %v", err)
					return
				}
				s.SetClient(c)
				log.Println("TestLink client rebuilt from reloaded configuration")
			})
		}

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "server listen port (default: api_port)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (default: api_host)")
	serverCmd.Flags().Bool("demo", false, "serve canned data without contacting TestLink")
	serverCmd.Flags().Bool("watch", false, "reload configuration and rebuild the TestLink client when the config file changes")
}

// watchConfigFile reloads the configuration whenever the config file is
// rewritten, then invokes onReload so the new values reach the running
// server. Reload failures keep the previous configuration.
func watchConfigFile(filename string, onReload func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Config watch disabled: %v", err)
		return
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		log.Printf("Config watch disabled, cannot watch %s: %v", filename, err)
		return
	}

	log.Printf("Watching %s for configuration changes", filename)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if err := config.Reload(); err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				log.Println("Configuration reloaded")
				if onReload != nil {
					onReload()
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watch error: %v", err)
		}
	}
}
