// Package checkpoint persists snapshot state into a directory on a
// backing filesystem. Streams buffer their output and decide only at
// commit whether the state is small enough to be returned inline in
// the handle, or must live in a file with a random unique name.
//
// The target directory must already exist. The factory never checks
// for it: with many writers per checkpoint, existence checks multiply
// into floods of metadata requests that some backends throttle long
// before they throttle the actual writes.
package checkpoint

import (
	"fmt"

	"github.com/statesink/statesink/utils/fs"
)

const (
	// MaxInlineThreshold is the largest state size that may be kept
	// inline in the handle rather than in a file.
	MaxInlineThreshold = 1024 * 1024

	// DefaultWriteBufferSize is the buffer size used when the inline
	// threshold does not demand a larger one.
	DefaultWriteBufferSize = 4096
)

// StreamFactory creates commit streams bound to one target directory.
// It is immutable and safe to share; each stream is single-producer.
type StreamFactory struct {
	fsys      fs.FileSystem
	dir       string
	threshold int
}

// NewStreamFactory validates the configuration and returns a factory.
// State up to inlineThreshold bytes is returned inline in the handle;
// larger state goes to a file under dir. No filesystem I/O happens
// here or in CreateStream.
func NewStreamFactory(fsys fs.FileSystem, dir string, inlineThreshold int) (*StreamFactory, error) {
	if fsys == nil {
		return nil, ConfigError("filesystem must not be nil")
	}
	if dir == "" {
		return nil, ConfigError("target directory must not be empty")
	}
	if inlineThreshold < 0 {
		return nil, ConfigError("inline threshold must be zero or larger")
	}
	if inlineThreshold > MaxInlineThreshold {
		return nil, ConfigError(fmt.Sprintf("inline threshold cannot be larger than %d", MaxInlineThreshold))
	}
	return &StreamFactory{fsys: fsys, dir: dir, threshold: inlineThreshold}, nil
}

// CreateStream returns a new stream for one checkpoint write. The
// buffer is sized so that any state eligible for inlining fits in
// memory without touching the filesystem.
func (f *StreamFactory) CreateStream() (*CommitStream, error) {
	bufferSize := DefaultWriteBufferSize
	if f.threshold > bufferSize {
		bufferSize = f.threshold
	}
	return NewCommitStream(f.fsys, f.dir, bufferSize, f.threshold)
}

func (f *StreamFactory) String() string {
	return "checkpoint stream factory @ " + f.dir
}
