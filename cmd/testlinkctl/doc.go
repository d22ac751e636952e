// Package main provides testlinkctl, a provisioning and API tool for
// containerized TestLink instances.
//
// TestLink is a web-based test management system. Its container images ship
// without a seeded database or API-enabled admin account, so fresh instances
// need several manual steps before the XML-RPC API is usable. testlinkctl
// automates those steps and then fronts the API with a small prompt-driven
// HTTP facade.
//
// # Architecture
//
// The tool is organized into several packages:
//
//   - pkg/server: HTTP facade and routing
//   - pkg/server/endpoints: REST endpoint handlers
//   - pkg/dispatch: prompt-to-action matching and execution
//   - pkg/testlink: TestLink XML-RPC client
//   - pkg/provision: readiness probing, schema and account seeding
//   - pkg/container: container runtime access
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/config: configuration management
//
// # Quick Start
//
// The tool is run via the testlinkctl CLI:
//
//	# Start the TestLink containers
//	testlinkctl stack up
//
//	# Wait for them, seed the schema and the admin account
//	testlinkctl setup
//
//	# Start the prompt facade
//	testlinkctl server
//
// # Environment Variables
//
//   - TESTLINK_URL: TestLink XML-RPC endpoint URL
//   - TESTLINK_API_KEY: Pre-shared 32-character devKey
//   - DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME: TestLink database
//   - TESTLINK_CONTAINER, DB_CONTAINER: Container names to probe
//   - API_HOST, API_PORT: Facade listen address (default: 0.0.0.0:8012)
//   - DEMO_MODE: Serve canned data without contacting TestLink
//   - TESTLINKCTL_CONFIG_PATH: Config file directory (default: /etc/testlinkctl)
package main
