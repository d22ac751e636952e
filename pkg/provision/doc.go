// Package provision implements the readiness wait and seeding steps that
// make a freshly started TestLink stack usable: a bounded two-signal
// readiness prober, a one-shot schema/default-data importer, and an
// idempotent administrative-account seeder.
//
// Execution is strictly sequential; the only suspension points are the
// fixed-interval waits inside the prober, and those honor context
// cancellation.
package provision
