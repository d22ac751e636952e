package provision

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	schemaPath = "/var/www/html/install/sql/mysql/testlink_create_tables.sql"
	dataPath   = "/var/www/html/install/sql/mysql/testlink_create_default_data.sql"
)

func newSchemaSeeder(t *testing.T, rt *fakeRuntime) (*SchemaSeeder, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return &SchemaSeeder{
		DB:           db,
		Runtime:      rt,
		AppContainer: "testlink",
		SchemaFile:   schemaPath,
		DataFile:     dataPath,
		Database:     "testlink",
		Table:        "users",
	}, mock
}

func expectTableCount(mock sqlmock.Sqlmock, count int) {
	rows := sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(count)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM information_schema.tables`).
		WithArgs("testlink", "users").
		WillReturnRows(rows)
}

func TestSchemaSeeder_TablePresentIsNoop(t *testing.T) {
	rt := &fakeRuntime{}
	s, mock := newSchemaSeeder(t, rt)

	expectTableCount(mock, 1)

	imported, err := s.Seed(context.Background())
	require.NoError(t, err)
	assert.False(t, imported)
	assert.NoError(t, mock.ExpectationsWereMet(), "no import statements may run")
}

func TestSchemaSeeder_TableAbsentImportsBothFiles(t *testing.T) {
	rt := &fakeRuntime{files: map[string][]byte{
		schemaPath: []byte("CREATE TABLE users (id INT);\nCREATE TABLE roles (id INT);\n"),
		dataPath:   []byte("INSERT INTO roles (id) VALUES (8);\n"),
	}}
	s, mock := newSchemaSeeder(t, rt)

	expectTableCount(mock, 0)
	mock.ExpectExec(`CREATE TABLE users`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE roles`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO roles`).WillReturnResult(sqlmock.NewResult(0, 1))

	imported, err := s.Seed(context.Background())
	require.NoError(t, err)
	assert.True(t, imported)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaSeeder_MissingFileNamesPath(t *testing.T) {
	rt := &fakeRuntime{files: map[string][]byte{}}
	s, mock := newSchemaSeeder(t, rt)

	expectTableCount(mock, 0)

	_, err := s.Seed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), schemaPath,
		"diagnostic must name the searched file path")
}

func TestSchemaSeeder_StatementFailureAborts(t *testing.T) {
	rt := &fakeRuntime{files: map[string][]byte{
		schemaPath: []byte("CREATE TABLE users (id INT);\n"),
		dataPath:   []byte("INSERT INTO roles (id) VALUES (8);\n"),
	}}
	s, mock := newSchemaSeeder(t, rt)

	expectTableCount(mock, 0)
	mock.ExpectExec(`CREATE TABLE users`).WillReturnError(assert.AnError)

	_, err := s.Seed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), schemaPath)
}

func TestSplitStatements(t *testing.T) {
	script := `-- TestLink schema
# legacy comment
/* block comment */

CREATE TABLE users (
  id INT PRIMARY KEY,
  login VARCHAR(100)
);

INSERT INTO users (id, login) VALUES (1, 'admin');
`
	stmts := SplitStatements(script)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE users")
	assert.Contains(t, stmts[0], "login VARCHAR(100)")
	assert.Contains(t, stmts[1], "INSERT INTO users")
}

func TestSplitStatements_TrailingWithoutTerminator(t *testing.T) {
	stmts := SplitStatements("UPDATE users SET active = 1")
	require.Len(t, stmts, 1)
	assert.Equal(t, "UPDATE users SET active = 1", stmts[0])
}

func TestSplitStatements_Empty(t *testing.T) {
	assert.Empty(t, SplitStatements("-- nothing here\n\n"))
}
