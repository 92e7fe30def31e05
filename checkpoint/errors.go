package checkpoint

import (
	"fmt"
)

// ConfigError reports an invalid factory or stream configuration,
// detected at construction time.
type ConfigError string

func (e ConfigError) Error() string {
	return fmt.Sprintf("checkpoint: invalid configuration: %s", string(e))
}

// StreamClosedError reports a write or commit attempted on a stream
// that has already been closed or discarded.
type StreamClosedError string

func (e StreamClosedError) Error() string {
	return fmt.Sprintf("checkpoint: stream for %s has already been closed and discarded", string(e))
}

// NoSinkError reports a Sync call before any data reached the
// underlying file.
type NoSinkError string

func (e NoSinkError) Error() string {
	return fmt.Sprintf("checkpoint: stream for %s has no underlying file to sync yet", string(e))
}

// SinkCreateError is returned when every attempt to create a uniquely
// named state file failed. It wraps the error of the last attempt.
type SinkCreateError struct {
	Dir   string
	Cause error
}

func (e SinkCreateError) Error() string {
	return fmt.Sprintf("checkpoint: could not create a state file under %s: %v", e.Dir, e.Cause)
}

func (e SinkCreateError) Unwrap() error { return e.Cause }

// CommitError is returned when flushing or closing the state file
// failed during commit. The partial file has been removed on a best
// effort basis; the stream is closed.
type CommitError struct {
	Path  string
	Cause error
}

func (e CommitError) Error() string {
	return fmt.Sprintf("checkpoint: could not flush and close the state file %s: %v", e.Path, e.Cause)
}

func (e CommitError) Unwrap() error { return e.Cause }
