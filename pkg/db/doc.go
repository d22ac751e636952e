// Package db provides database connection utilities for testlinkctl.
//
// The TestLink database is MySQL/MariaDB and is owned by the TestLink
// application itself; this package only opens connections to it. GORM is
// used with parameterized statements throughout so no SQL is ever built by
// string interpolation.
//
// Set LOG_LEVEL=debug to enable SQL query logging.
package db
