package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageWithRows(t *testing.T, dir string) *Image {
	t.Helper()
	img, err := Open(context.Background(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = img.Close() })

	require.NoError(t, img.DB().Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)").Error)
	require.NoError(t, img.DB().Exec("INSERT INTO notes (body) VALUES (?), (?)", "a", "b").Error)
	return img
}

func TestExportProducesSQLiteFile(t *testing.T) {
	img := newImageWithRows(t, t.TempDir())

	data, err := img.Export(context.Background())
	require.NoError(t, err)
	require.Greater(t, len(data), len(sqliteHeader))
	assert.Equal(t, sqliteHeader, string(data[:len(sqliteHeader)]))
}

func TestExportLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := newImageWithRows(t, dir)

	data, err := img.Export(context.Background())
	require.NoError(t, err)

	loaded, err := Load(context.Background(), dir, data)
	require.NoError(t, err)
	defer loaded.Close()

	var bodies []string
	require.NoError(t, loaded.DB().Raw("SELECT body FROM notes ORDER BY id").Scan(&bodies).Error)
	assert.Equal(t, []string{"a", "b"}, bodies)

	// the original handle is independent of the loaded copy
	require.NoError(t, loaded.DB().Exec("DELETE FROM notes").Error)
	var count int64
	require.NoError(t, img.DB().Raw("SELECT count(*) FROM notes").Scan(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestLoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()

	for name, data := range map[string][]byte{
		"empty":     nil,
		"text":      []byte("definitely not a database"),
		"truncated": []byte(sqliteHeader + "\x10\x00"),
	} {
		t.Run(name, func(t *testing.T) {
			img, err := Load(context.Background(), dir, data)
			assert.Nil(t, img)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed loads must not leave scratch files behind")
}

func TestCloseRemovesScratchFile(t *testing.T) {
	img, err := Open(context.Background(), t.TempDir())
	require.NoError(t, err)

	path := img.path
	require.FileExists(t, path)
	require.NoError(t, img.Close())
	require.NoError(t, img.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
