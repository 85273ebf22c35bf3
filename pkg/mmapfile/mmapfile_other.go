//go:build !(linux || darwin)

package mmapfile

import (
	"io"
	"os"
)

// Open reads path into memory in full. Platforms without a portable mmap
// syscall fall back to a plain read, satisfying the same File interface;
// only throughput differs between the two paths.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return openFailed(path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return openFailed(path, err)
	}
	if len(data) == 0 {
		data = nil
	}
	return &File{data: data}, nil
}

func (f *File) close() error {
	return nil
}
