// Package sink provides the byte-sink collaborator used to persist
// generated image bytes. Two implementations are included: a filesystem
// sink and an in-memory sink for tests. Implement [Sink] for custom
// destinations (object storage, databases).
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink writes raw image bytes to a named destination.
type Sink interface {
	// Write persists data under dest. I/O failures surface as *StorageError.
	Write(ctx context.Context, dest string, data []byte) error
}

// StorageError wraps an I/O failure with the destination it occurred on.
type StorageError struct {
	Dest string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("sink: write %q: %v", e.Dest, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// FileSink writes each destination as a file under a base directory.
type FileSink struct {
	dir string
}

// NewFileSink creates a FileSink rooted at dir. The directory is created on
// first write if it does not exist.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Write persists data to dir/dest, creating parent directories as needed.
func (s *FileSink) Write(ctx context.Context, dest string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Dest: dest, Err: err}
	}
	path := filepath.Join(s.dir, dest)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &StorageError{Dest: dest, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &StorageError{Dest: dest, Err: err}
	}
	return nil
}

// MemorySink keeps written bytes in memory. Safe for concurrent use;
// intended for tests.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Write stores a copy of data under dest.
func (s *MemorySink) Write(ctx context.Context, dest string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Dest: dest, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[dest] = append([]byte(nil), data...)
	return nil
}

// Bytes returns the bytes written under dest.
func (s *MemorySink) Bytes(dest string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.files[dest]
	return b, ok
}

var _ Sink = (*FileSink)(nil)
var _ Sink = (*MemorySink)(nil)
