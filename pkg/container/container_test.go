package container

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tarWithFile(t *testing.T, name string, contents []byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(contents)),
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(contents)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	return &buf
}

func TestExtractFromTar(t *testing.T) {
	sql := []byte("CREATE TABLE users (id INT);\n")
	buf := tarWithFile(t, "testlink_create_tables.sql", sql)

	data, err := extractFromTar(buf, "testlink_create_tables.sql")
	require.NoError(t, err)
	assert.Equal(t, sql, data)
}

func TestExtractFromTar_Missing(t *testing.T) {
	buf := tarWithFile(t, "other.sql", []byte("SELECT 1;"))

	_, err := extractFromTar(buf, "testlink_create_tables.sql")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "testlink_create_tables.sql")
}

func TestExtractFromTar_SkipsDirectories(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "sql/",
		Typeflag: tar.TypeDir,
		Mode:     0o755,
	}))
	contents := []byte("INSERT INTO users VALUES (1);")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "sql/data.sql",
		Mode:     0o644,
		Size:     int64(len(contents)),
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(contents)
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	data, err := extractFromTar(&buf, "data.sql")
	require.NoError(t, err)
	assert.Equal(t, contents, data)
}
