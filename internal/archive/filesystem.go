package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tt-go/internal/track"
)

// FileSystemArchiver stores report files in a flat directory. Writes are
// atomic: data goes to a temp file first and is renamed into place.
type FileSystemArchiver struct {
	root string
}

// NewFileSystemArchiver creates an archiver rooted at the given path,
// creating the directory if needed.
func NewFileSystemArchiver(root string) (*FileSystemArchiver, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileSystemArchiver{root: root}, nil
}

// Put stores a report under name, overwriting any previous version.
func (a *FileSystemArchiver) Put(name string, r io.Reader, size int64) error {
	if err := validName(name); err != nil {
		return err
	}
	destPath := filepath.Join(a.root, name)

	tmpFile, err := os.CreateTemp(a.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Get retrieves a stored report by name and writes it to w.
func (a *FileSystemArchiver) Get(name string, w io.Writer) error {
	if err := validName(name); err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(a.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("report not found: %s", name)
		}
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	return nil
}

// List returns the names of all stored reports, sorted.
func (a *FileSystemArchiver) List() ([]string, error) {
	entries, err := os.ReadDir(a.root)
	if err != nil {
		return nil, fmt.Errorf("listing archive: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// validName rejects names that would escape the archive root.
func validName(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid report name: %q", name)
	}
	return nil
}

// Compile-time check that FileSystemArchiver implements track.Archiver
var _ track.Archiver = (*FileSystemArchiver)(nil)
