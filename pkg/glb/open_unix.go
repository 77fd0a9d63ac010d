//go:build unix

package glb

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// Open maps a container file read-only, decodes it, and copies the chunk
// payloads out before releasing the mapping. If mmap is unavailable it falls
// back to reading the whole file.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, errors.Wrapf(ErrTooLarge, "%s: %d bytes", path, size64)
	}
	size := int(size64)
	if size < HeaderSize {
		return nil, malformed(ErrTruncatedHeader, "%s: %d bytes", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		defer func() { _ = unix.Munmap(data) }()
		c, err := Decode(data)
		if err != nil {
			return nil, err
		}
		return c.own(), nil
	}

	data, err = readAll(f, size)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func readAll(f *os.File, size int) ([]byte, error) {
	out := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, int64(size)), out); err != nil {
		return nil, err
	}
	return out, nil
}
