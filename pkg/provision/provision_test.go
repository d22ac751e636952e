package provision

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeRuntime implements container.Runtime for tests.
type fakeRuntime struct {
	running      map[string]bool
	runningErr   error
	files        map[string][]byte
	inspectCalls int
}

func (f *fakeRuntime) ContainerRunning(_ context.Context, name string) (bool, error) {
	f.inspectCalls++
	if f.runningErr != nil {
		return false, f.runningErr
	}
	return f.running[name], nil
}

func (f *fakeRuntime) ReadFile(_ context.Context, containerName, path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("stat %s: no such file or directory", path)
	}
	_ = containerName
	return data, nil
}

func (f *fakeRuntime) Close() error { return nil }

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		mysql.New(mysql.Config{
			Conn:                      mockDB,
			SkipInitializeWithVersion: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return gormDB, mock
}
