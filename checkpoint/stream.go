package checkpoint

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/statesink/statesink/utils/fs"
	"github.com/statesink/statesink/utils/log"
)

// CommitStream is a one-shot output channel for a single checkpoint
// write. Writes land in a fixed buffer; the underlying file is created
// lazily on the first flush that has something to write. Commit
// terminates the stream with a handle, Close discards it and removes
// any partial file. Writes are single-producer; Commit and Close are
// safe against racing each other.
type CommitStream struct {
	fsys      fs.FileSystem
	basePath  string
	threshold int

	buffer []byte
	pos    int

	sink      fs.File
	statePath string

	closed atomic.Bool
	mu     sync.Mutex
}

// NewCommitStream builds a stream writing under basePath. The buffer
// must be able to hold at least inlineThreshold bytes, so that state
// eligible for inlining never forces a file.
func NewCommitStream(fsys fs.FileSystem, basePath string, bufferSize, inlineThreshold int) (*CommitStream, error) {
	if bufferSize < inlineThreshold {
		return nil, ConfigError("write buffer must be at least as large as the inline threshold")
	}
	return &CommitStream{
		fsys:      fsys,
		basePath:  basePath,
		threshold: inlineThreshold,
		buffer:    make([]byte, bufferSize),
	}, nil
}

// WriteByte appends a single byte. io.ByteWriter.
func (s *CommitStream) WriteByte(b byte) error {
	if s.pos >= len(s.buffer) {
		if err := s.Flush(); err != nil {
			return err
		}
	}
	s.buffer[s.pos] = b
	s.pos++
	return nil
}

// Write appends p. Payloads smaller than half the buffer are copied
// into it, flushing first when they do not fit; larger payloads flush
// the buffer and then go straight to the file, skipping the extra
// copy. io.Writer.
func (s *CommitStream) Write(p []byte) (int, error) {
	if len(p) < len(s.buffer)/2 {
		written := 0
		if remaining := len(s.buffer) - s.pos; len(p) > remaining {
			// fill what fits, then flush to empty the buffer
			copy(s.buffer[s.pos:], p[:remaining])
			s.pos += remaining
			written = remaining
			if err := s.Flush(); err != nil {
				return written, err
			}
		}
		n := copy(s.buffer[s.pos:], p[written:])
		s.pos += n
		return written + n, nil
	}

	if err := s.Flush(); err != nil {
		return 0, err
	}
	n, err := s.sink.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "write state bytes")
	}
	return n, nil
}

// Flush moves buffered bytes to the underlying file, creating it on
// first need. This is the only place a file ever gets created. A
// stream whose output never leaves the buffer stays without a file
// until Commit decides its fate.
func (s *CommitStream) Flush() error {
	if s.closed.Load() {
		return StreamClosedError(s.basePath)
	}
	if s.sink == nil {
		if err := s.createSink(); err != nil {
			return err
		}
	}
	if s.pos > 0 {
		if _, err := s.sink.Write(s.buffer[:s.pos]); err != nil {
			return errors.Wrap(err, "write buffered state")
		}
		s.pos = 0
	}
	return nil
}

// Sync forces everything flushed so far onto stable storage. Calling
// it before any flush reached the file is a contract violation and
// reports NoSinkError.
func (s *CommitStream) Sync() error {
	if s.sink == nil {
		return NoSinkError(s.basePath)
	}
	return s.sink.Sync()
}

// Position returns the logical number of bytes written so far:
// buffered bytes plus the length of the underlying file, if any.
func (s *CommitStream) Position() (int64, error) {
	n := int64(s.pos)
	if s.sink != nil {
		size, err := s.sink.Size()
		if err != nil {
			return 0, err
		}
		n += size
	}
	return n, nil
}

// Commit terminates the stream and returns its handle. A stream that
// never received a byte yields a nil handle and stays trivially
// committable. When the output never left the buffer and fits the
// inline threshold, the bytes are returned inline and no file is ever
// created; otherwise remaining bytes are flushed and the file handle
// is returned. A second Commit after the stream was closed fails with
// StreamClosedError; Commit is not idempotent.
func (s *CommitStream) Commit() (StateHandle, error) {
	// nothing was ever written
	if s.sink == nil && s.pos == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, StreamClosedError(s.basePath)
	}

	if s.sink == nil && s.pos <= s.threshold {
		s.closed.Store(true)
		data := make([]byte, s.pos)
		copy(data, s.buffer[:s.pos])
		s.pos = len(s.buffer)
		return NewInlineStateHandle(s.newStatePath(), data), nil
	}

	handle, err := s.commitToFile()
	s.closed.Store(true)
	if err != nil {
		s.dropArtifacts()
		return nil, CommitError{Path: s.statePath, Cause: err}
	}
	return handle, nil
}

func (s *CommitStream) commitToFile() (StateHandle, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	s.pos = len(s.buffer)

	// best effort: the bytes are durable even when reading the final
	// length fails, so report -1 rather than failing the commit
	size := int64(-1)
	if n, err := s.sink.Size(); err == nil {
		size = n
	}

	if err := s.sink.Close(); err != nil {
		return nil, errors.Wrap(err, "close state file")
	}
	return NewFileStateHandle(s.statePath, size), nil
}

// Close discards the stream. It is idempotent, never returns a non-nil
// error, and removes any partially written file along with the target
// directory when that became empty. Cleanup problems are logged only:
// a caller discarding a stream has no use for its failures.
func (s *CommitStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil
	}
	s.closed.Store(true)

	// route racing writes into Flush, where they observe closed
	s.pos = len(s.buffer)

	if s.sink != nil {
		if err := s.sink.Close(); err != nil {
			log.Warn("could not close the state stream for %s: %v", s.statePath, err)
		}
		s.dropArtifacts()
	}
	return nil
}

// IsClosed reports whether the stream was terminated.
func (s *CommitStream) IsClosed() bool {
	return s.closed.Load()
}

// dropArtifacts removes the state file and, when it became empty, the
// target directory. Never fails; the caller is already on a discard or
// error path.
func (s *CommitStream) dropArtifacts() {
	if s.statePath == "" {
		return
	}
	if err := s.fsys.Delete(s.statePath, false); err != nil {
		log.Warn("could not delete discarded state file %s: %v", s.statePath, err)
		return
	}
	if _, err := s.fsys.DeleteDirIfEmpty(s.basePath); err != nil {
		log.Debug("could not delete the parent directory %s: %v", s.basePath, err)
	}
}
