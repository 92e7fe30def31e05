// Package fs abstracts the handful of filesystem operations the
// checkpoint writer needs, so that tests can substitute a faulty or
// fake backend for the local disk.
package fs

import (
	"io"
	"os"
)

// File is an open, exclusively owned write target.
type File interface {
	io.WriteCloser

	// Sync forces everything written so far onto stable storage.
	Sync() error

	// Size returns the number of bytes written to the file so far.
	Size() (int64, error)
}

// FileSystem is the backing store the checkpoint writer commits into.
// The target directory must already exist; implementations never
// create it.
type FileSystem interface {
	// Create opens a new file for writing. With exclusive set, creation
	// must fail if a file already exists at path.
	Create(path string, exclusive bool) (File, error)

	// Delete removes the entry at path. Without recursive, deleting a
	// non-empty directory fails.
	Delete(path string, recursive bool) error

	// DeleteDirIfEmpty removes the directory at path only when it has
	// no entries, reporting whether it was removed.
	DeleteDirIfEmpty(path string) (bool, error)

	// Exists reports whether an entry exists at path.
	Exists(path string) (bool, error)
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (*OSFileSystem) Create(path string, exclusive bool) (File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if exclusive {
		flags |= os.O_EXCL
	} else {
		flags |= os.O_TRUNC
	}
	fp, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return nil, err
	}
	return &osFile{fp: fp}, nil
}

func (*OSFileSystem) Delete(path string, recursive bool) error {
	if recursive {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

func (*OSFileSystem) DeleteDirIfEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}

func (*OSFileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

type osFile struct {
	fp      *os.File
	written int64
}

func (f *osFile) Write(p []byte) (int, error) {
	n, err := f.fp.Write(p)
	f.written += int64(n)
	return n, err
}

func (f *osFile) Sync() error {
	return f.fp.Sync()
}

func (f *osFile) Close() error {
	return f.fp.Close()
}

func (f *osFile) Size() (int64, error) {
	return f.written, nil
}
