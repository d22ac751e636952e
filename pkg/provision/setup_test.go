package provision

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSetup(t *testing.T, rt *fakeRuntime, loginURL string) (*Setup, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)

	prober := &Prober{
		Runtime:     rt,
		DBContainer: "testlink-db",
		LoginURL:    loginURL,
		Interval:    time.Millisecond,
		Retries:     5,
	}
	schema := &SchemaSeeder{
		DB:           db,
		Runtime:      rt,
		AppContainer: "testlink",
		SchemaFile:   schemaPath,
		DataFile:     dataPath,
		Database:     "testlink",
		Table:        "users",
	}
	account := newAccountSeeder(db)

	return &Setup{
		Prober:  prober,
		Schema:  schema,
		Account: account,
		Log:     log.New(io.Discard, "", 0),
	}, mock
}

func readyServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSetup_AccountFailureIsNonFatal(t *testing.T) {
	srv := readyServer(t)
	rt := &fakeRuntime{running: map[string]bool{"testlink-db": true}}
	setup, mock := newSetup(t, rt, srv.URL)

	expectTableCount(mock, 1)
	mock.ExpectExec("INSERT IGNORE INTO `users`").
		WillReturnError(assert.AnError)

	// Steps 1-3 succeeded; a seeding failure alone must not fail the run.
	require.NoError(t, setup.Run(context.Background()))
}

func TestSetup_SchemaFailureIsFatal(t *testing.T) {
	srv := readyServer(t)
	rt := &fakeRuntime{running: map[string]bool{"testlink-db": true}, files: map[string][]byte{}}
	setup, mock := newSetup(t, rt, srv.URL)

	expectTableCount(mock, 0)

	err := setup.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), schemaPath)
}

func TestSetup_ReadinessTimeoutIsFatal(t *testing.T) {
	rt := &fakeRuntime{running: map[string]bool{}}
	setup, _ := newSetup(t, rt, "http://127.0.0.1:0/never")

	err := setup.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSetup_FullRun(t *testing.T) {
	srv := readyServer(t)
	rt := &fakeRuntime{
		running: map[string]bool{"testlink-db": true},
		files: map[string][]byte{
			schemaPath: []byte("CREATE TABLE users (id INT);\n"),
			dataPath:   []byte("INSERT INTO roles (id) VALUES (8);\n"),
		},
	}
	setup, mock := newSetup(t, rt, srv.URL)

	expectTableCount(mock, 0)
	mock.ExpectExec(`CREATE TABLE users`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO roles`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectSeed(mock, 1)

	require.NoError(t, setup.Run(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
