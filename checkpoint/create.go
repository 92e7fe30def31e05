package checkpoint

import (
	"path/filepath"

	"github.com/google/uuid"
)

// sinkCreateAttempts bounds how many unique names are tried before
// giving up on creating the state file.
const sinkCreateAttempts = 10

func (s *CommitStream) newStatePath() string {
	return filepath.Join(s.basePath, uuid.New().String())
}

// createSink creates the underlying state file under a fresh random
// name. Creation is exclusive, so a colliding name surfaces as an
// error instead of clobbering another stream's file; any failure is
// retried with a new name up to the attempt bound. On exhaustion the
// stream stays without a sink and can still be discarded safely.
func (s *CommitStream) createSink() error {
	var lastErr error
	for attempt := 0; attempt < sinkCreateAttempts; attempt++ {
		s.statePath = s.newStatePath()
		f, err := s.fsys.Create(s.statePath, true)
		if err != nil {
			lastErr = err
			continue
		}
		s.sink = f
		return nil
	}
	return SinkCreateError{Dir: s.basePath, Cause: lastErr}
}
