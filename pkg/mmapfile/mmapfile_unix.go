//go:build linux || darwin

package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"

	"loganalytics-pipeline/pkg/errors"
)

// Open maps path read-only. Empty files map to a File with a zero-length
// AsBytes() rather than failing -- mmap itself refuses a zero-length
// mapping, so that case is special-cased to skip the syscall entirely.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return openFailed(path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return openFailed(path, err)
	}

	size := stat.Size()
	if size == 0 {
		f.Close()
		return &File{data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return openFailed(path, err)
	}

	return &File{f: f, data: data}, nil
}

func (f *File) close() error {
	var mmapErr, fileErr error
	if f.data != nil {
		mmapErr = unix.Munmap(f.data)
	}
	if f.f != nil {
		fileErr = f.f.Close()
	}
	if mmapErr != nil {
		return errors.IoError("mmapfile", "Close", mmapErr)
	}
	if fileErr != nil {
		return errors.IoError("mmapfile", "Close", fileErr)
	}
	return nil
}
