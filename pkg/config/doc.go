// Package config provides configuration management for testlinkctl.
//
// Configuration is resolved at startup from three layers, in increasing
// precedence: built-in defaults (targeting the local compose stack), an
// optional YAML file, and environment variables. The source of every value
// is tracked so "configuration show" can report where a setting came from.
//
// # Environment Variables
//
//   - TESTLINK_URL: TestLink XML-RPC endpoint URL
//   - TESTLINK_API_KEY: pre-shared 32-character devKey
//   - API_HOST, API_PORT: facade bind address
//   - DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME: database connection
//   - DB_TABLE_PREFIX: TestLink table name prefix
//   - TESTLINK_CONTAINER, DB_CONTAINER: container names
//   - PROBE_INTERVAL_SECONDS, PROBE_RETRIES: readiness wait tuning
//   - DEMO_MODE: serve canned responses without a TestLink instance
//   - TESTLINKCTL_CONFIG_PATH: directory holding testlinkctl.yml
package config
