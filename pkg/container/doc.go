// Package container wraps the Docker Engine API for the two operations
// provisioning relies on: checking that a container is running and copying
// installer files out of the TestLink application container. The Runtime
// interface keeps the provisioning logic testable without a daemon.
package container
