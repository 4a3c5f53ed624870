package track

import "io"

// Archiver stores exported report files in a configured backend so reports
// survive outside the local working directory. Operations stream through
// io.Reader/io.Writer so large exports never need to live in memory twice.
type Archiver interface {
	// Put stores a report under name. size is the number of bytes that
	// will be read from r. Storing the same name twice overwrites.
	Put(name string, r io.Reader, size int64) error

	// Get retrieves a stored report by name and writes it to w.
	Get(name string, w io.Writer) error

	// List returns the names of all stored reports, sorted.
	List() ([]string, error)
}
