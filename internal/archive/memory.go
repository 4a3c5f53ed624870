package archive

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"tt-go/internal/track"
)

// MemoryArchiver is an in-memory implementation of the Archiver interface,
// useful for testing. Safe for concurrent use.
type MemoryArchiver struct {
	mu      sync.RWMutex
	reports map[string][]byte
}

// NewMemoryArchiver creates an empty in-memory archiver.
func NewMemoryArchiver() *MemoryArchiver {
	return &MemoryArchiver{reports: make(map[string][]byte)}
}

// Put stores a report under name, overwriting any previous version.
func (a *MemoryArchiver) Put(name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.reports[name] = data
	return nil
}

// Get retrieves a stored report by name.
func (a *MemoryArchiver) Get(name string, w io.Writer) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, ok := a.reports[name]
	if !ok {
		return fmt.Errorf("report not found: %s", name)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// List returns the names of all stored reports, sorted.
func (a *MemoryArchiver) List() ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.reports))
	for name := range a.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Compile-time check that MemoryArchiver implements track.Archiver
var _ track.Archiver = (*MemoryArchiver)(nil)
