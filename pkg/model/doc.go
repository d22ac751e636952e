// Package model contains database models for the TestLink tables touched by
// provisioning. Only the users table is written by this system; everything
// else in the TestLink schema is treated as an opaque external dataset.
package model
