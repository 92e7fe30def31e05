package checkpoint

import (
	"fmt"
)

// StateHandle is the result of committing a stream. It is either an
// InlineStateHandle carrying the bytes directly, or a FileStateHandle
// referencing a durably written file.
type StateHandle interface {
	// Size returns the number of state bytes the handle refers to, or
	// -1 when it could not be determined.
	Size() int64

	fmt.Stringer
}

// InlineStateHandle carries the state bytes directly. No file exists
// for it; the path only records where the state would have been
// written, for diagnostics.
type InlineStateHandle struct {
	path string
	data []byte
}

func NewInlineStateHandle(path string, data []byte) *InlineStateHandle {
	return &InlineStateHandle{path: path, data: data}
}

// Bytes returns the state bytes. Callers must not modify the slice.
func (h *InlineStateHandle) Bytes() []byte { return h.data }

func (h *InlineStateHandle) Path() string { return h.path }

func (h *InlineStateHandle) Size() int64 { return int64(len(h.data)) }

func (h *InlineStateHandle) String() string {
	return fmt.Sprintf("inline state %d bytes (%s)", len(h.data), h.path)
}

// FileStateHandle references state written to a file.
type FileStateHandle struct {
	path string
	size int64
}

func NewFileStateHandle(path string, size int64) *FileStateHandle {
	return &FileStateHandle{path: path, size: size}
}

func (h *FileStateHandle) Path() string { return h.path }

// Size returns the file length recorded at commit, or -1 when reading
// the length failed after the bytes were written.
func (h *FileStateHandle) Size() int64 { return h.size }

func (h *FileStateHandle) String() string {
	return fmt.Sprintf("file state %s size=%d", h.path, h.size)
}
