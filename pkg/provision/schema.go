package provision

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"testlinkctl/pkg/container"
)

// SchemaSeeder performs the one-time import of TestLink's installer SQL.
// The schema and default-data files live inside the already-running
// application container; their contents are pulled out through the container
// runtime and executed statement by statement with a native client.
type SchemaSeeder struct {
	DB      *gorm.DB
	Runtime container.Runtime

	// AppContainer names the TestLink web container holding the installer SQL.
	AppContainer string
	// SchemaFile and DataFile are paths inside AppContainer.
	SchemaFile string
	DataFile   string

	// Database is the schema name the existence check runs against.
	Database string
	// Table is the (prefix-applied) table whose presence marks a seeded
	// database.
	Table string

	// Out receives progress output. Defaults to io.Discard.
	Out io.Writer
}

func (s *SchemaSeeder) out() io.Writer {
	if s.Out == nil {
		return io.Discard
	}
	return s.Out
}

// TableExists checks for the expected table with a lightweight
// information_schema query.
func (s *SchemaSeeder) TableExists(ctx context.Context) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ? AND table_name = ?`,
		s.Database, s.Table,
	).Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for table %s: %w", s.Table, err)
	}
	return count > 0, nil
}

// Seed imports the schema and default data if the expected table is absent.
// It reports whether an import happened. Re-running against a seeded
// database is a no-op. Any import failure is a hard error carrying the
// in-container file path so an operator can tell "files moved" apart from
// "database unreachable".
func (s *SchemaSeeder) Seed(ctx context.Context) (bool, error) {
	exists, err := s.TableExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		fmt.Fprintf(s.out(), "Table %s already exists, skipping schema import\n", s.Table)
		return false, nil
	}

	fmt.Fprintf(s.out(), "Table %s not found, importing TestLink schema...\n", s.Table)

	for _, file := range []string{s.SchemaFile, s.DataFile} {
		if err := s.importFile(ctx, file); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out(), "Imported %s\n", file)
	}

	return true, nil
}

func (s *SchemaSeeder) importFile(ctx context.Context, path string) error {
	data, err := s.Runtime.ReadFile(ctx, s.AppContainer, path)
	if err != nil {
		return fmt.Errorf("schema import failed: could not read %s from container %q: %w",
			path, s.AppContainer, err)
	}

	for _, stmt := range SplitStatements(string(data)) {
		if err := s.DB.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("schema import failed while executing %s: %w", path, err)
		}
	}
	return nil
}

// SplitStatements splits installer SQL into executable statements. The
// TestLink installer files are plain DDL and INSERTs terminated by ";" at
// end of line; line comments and empty lines are dropped.
func SplitStatements(script string) []string {
	var stmts []string
	var current strings.Builder

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" ||
			strings.HasPrefix(trimmed, "--") ||
			strings.HasPrefix(trimmed, "#") ||
			(strings.HasPrefix(trimmed, "/*") && strings.HasSuffix(trimmed, "*/")) {
			continue
		}

		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			stmt = strings.TrimSuffix(stmt, ";")
			if stmt != "" {
				stmts = append(stmts, stmt)
			}
			current.Reset()
		}
	}

	// Trailing statement without a terminator
	if tail := strings.TrimSpace(current.String()); tail != "" {
		stmts = append(stmts, tail)
	}

	return stmts
}
