package provision

import (
	"context"
	"fmt"
	"log"
)

// Setup runs the full provisioning sequence: readiness wait, schema seed,
// account seed. Steps run strictly one after another.
//
// Error policy: a readiness timeout or schema import failure aborts the run;
// an account-seeding failure is logged as a warning only, since an operator
// can repair that step by hand without redoing the rest.
type Setup struct {
	Prober  *Prober
	Schema  *SchemaSeeder
	Account *AccountSeeder

	// Log receives warnings and progress. Defaults to the standard logger.
	Log *log.Logger
}

func (s *Setup) logger() *log.Logger {
	if s.Log == nil {
		return log.Default()
	}
	return s.Log
}

// Run executes the provisioning sequence. The returned error is fatal:
// callers should exit non-zero when it is non-nil.
func (s *Setup) Run(ctx context.Context) error {
	if err := s.Prober.Wait(ctx); err != nil {
		return fmt.Errorf("readiness wait failed: %w", err)
	}

	imported, err := s.Schema.Seed(ctx)
	if err != nil {
		return err
	}
	if imported {
		s.logger().Println("Schema and default data imported")
	}

	if err := s.Account.Seed(ctx); err != nil {
		// Non-fatal: the operator may need to seed the account manually.
		s.logger().Printf("Warning: account seeding failed: %v", err)
	} else {
		s.logger().Printf("Admin account %q seeded with pre-shared API key", s.Account.Login)
	}

	return nil
}
