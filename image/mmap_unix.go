//go:build unix

package image

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Open maps the image file at path read-only and parses it. The returned
// Image must be closed to release the mapping. Files that cannot be mapped
// are read into memory instead.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size <= 0 || size != int64(int(size)) {
		return nil, fmt.Errorf("image %s: %w", path, malformed(0, "file size %d", size))
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		Logger().Debug("mmap failed, reading image", zap.String("path", path), zap.Error(err))
		return readFile(path)
	}
	m, err := Parse(data)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	m.closer = func() error { return unix.Munmap(data) }
	Logger().Debug("mapped image", zap.String("path", path), zap.Int("size", len(data)))
	return m, nil
}
