// Package mmapfile exposes a read-only memory-mapped view of a file. The
// mapping is scoped acquisition: every exit path, including an error partway
// through Open, releases whatever was acquired so far, and no byte view
// returned by AsBytes/Lines may outlive the File's Close.
package mmapfile

import (
	"os"

	"loganalytics-pipeline/pkg/errors"
	"loganalytics-pipeline/pkg/scanner"
)

// File is a read-only memory-mapped file. The zero value is not usable;
// construct via Open.
type File struct {
	f      *os.File
	data   []byte
	closed bool
}

// AsBytes returns the mapped region. The slice is a view owned by f; it must
// not be retained past Close.
func (f *File) AsBytes() []byte {
	return f.data
}

// Scanner returns a B1 scanner over the mapped region.
func (f *File) Scanner() *scanner.Scanner {
	return scanner.New(f.data)
}

// Lines returns a lazy, non-restartable iterator over newline-delimited
// lines of the mapped region, driven by the scanner's split.
func (f *File) Lines() *scanner.SplitIter {
	return f.Scanner().Split('\n')
}

// Close releases the mapping and the underlying file descriptor. Close is
// idempotent; calling it more than once is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.close()
}

func openFailed(path string, cause error) (*File, error) {
	return nil, errors.IoError("mmapfile", "Open", cause)
}
