package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statesink/statesink/utils/fs"
)

func TestCreateExclusive(t *testing.T) {
	fsys := fs.NewOSFileSystem()
	path := filepath.Join(t.TempDir(), "state")

	f, err := fsys.Create(path, true)
	require.Nil(t, err)
	_, err = f.Write([]byte("one"))
	require.Nil(t, err)
	require.Nil(t, f.Close())

	// a second exclusive create on the same name must fail
	_, err = fsys.Create(path, true)
	require.NotNil(t, err)
	assert.True(t, os.IsExist(err))
}

func TestCreateOverwrite(t *testing.T) {
	fsys := fs.NewOSFileSystem()
	path := filepath.Join(t.TempDir(), "state")
	require.Nil(t, os.WriteFile(path, []byte("old content"), 0o600))

	f, err := fsys.Create(path, false)
	require.Nil(t, err)
	_, err = f.Write([]byte("new"))
	require.Nil(t, err)
	require.Nil(t, f.Close())

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestFileSizeTracksWrites(t *testing.T) {
	fsys := fs.NewOSFileSystem()
	f, err := fsys.Create(filepath.Join(t.TempDir(), "state"), true)
	require.Nil(t, err)
	defer f.Close()

	size, err := f.Size()
	require.Nil(t, err)
	assert.Equal(t, int64(0), size)

	_, err = f.Write(make([]byte, 4096))
	require.Nil(t, err)
	_, err = f.Write(make([]byte, 100))
	require.Nil(t, err)
	require.Nil(t, f.Sync())

	size, err = f.Size()
	require.Nil(t, err)
	assert.Equal(t, int64(4196), size)
}

func TestDeleteNonRecursive(t *testing.T) {
	fsys := fs.NewOSFileSystem()
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.Nil(t, os.Mkdir(sub, 0o700))
	require.Nil(t, os.WriteFile(filepath.Join(sub, "f"), []byte("x"), 0o600))

	// refuses a directory with entries
	err := fsys.Delete(sub, false)
	require.NotNil(t, err)

	require.Nil(t, fsys.Delete(sub, true))
	_, err = os.Stat(sub)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteDirIfEmpty(t *testing.T) {
	fsys := fs.NewOSFileSystem()
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.Nil(t, os.Mkdir(sub, 0o700))
	file := filepath.Join(sub, "f")
	require.Nil(t, os.WriteFile(file, []byte("x"), 0o600))

	removed, err := fsys.DeleteDirIfEmpty(sub)
	require.Nil(t, err)
	assert.False(t, removed)

	require.Nil(t, os.Remove(file))
	removed, err = fsys.DeleteDirIfEmpty(sub)
	require.Nil(t, err)
	assert.True(t, removed)
	_, err = os.Stat(sub)
	assert.True(t, os.IsNotExist(err))

	_, err = fsys.DeleteDirIfEmpty(sub)
	require.NotNil(t, err)
}

func TestExists(t *testing.T) {
	fsys := fs.NewOSFileSystem()
	dir := t.TempDir()

	ok, err := fsys.Exists(dir)
	require.Nil(t, err)
	assert.True(t, ok)

	ok, err = fsys.Exists(filepath.Join(dir, "missing"))
	require.Nil(t, err)
	assert.False(t, ok)
}
