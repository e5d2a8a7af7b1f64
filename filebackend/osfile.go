package filebackend

import (
	"fmt"
	"io"
	"os"
)

// OSBackend is the default Backend, backed directly by the host
// operating system's filesystem. It mirrors the open-flag choices the
// teacher repository's Writer/Reader make in storage/binary/writer.go
// and reader.go (os.O_CREATE|os.O_RDWR for writers, read-only for
// readers), generalized to the four modes ELD's file-mode controller
// needs.
type OSBackend struct {
	// Perm is the permission mode used when a file is created.
	Perm os.FileMode
}

// NewOSBackend returns a Backend that creates files with the given
// permission mode.
func NewOSBackend(perm os.FileMode) *OSBackend {
	return &OSBackend{Perm: perm}
}

// Open implements Backend.
func (b *OSBackend) Open(path string, mode Mode) (File, error) {
	var flag int
	switch mode {
	case ModeRead:
		flag = os.O_RDONLY
	case ModeReadWrite:
		flag = os.O_RDWR
	case ModeAppend:
		flag = os.O_CREATE | os.O_RDWR | os.O_APPEND
	case ModeCreate:
		flag = os.O_CREATE | os.O_RDWR | os.O_TRUNC
	default:
		return nil, fmt.Errorf("filebackend: unknown mode %d", mode)
	}

	f, err := os.OpenFile(path, flag, b.Perm)
	if err != nil {
		return nil, err
	}
	return &osFile{f: f}, nil
}

// Exists implements Backend.
func (b *OSBackend) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// osFile adapts *os.File to the File interface.
type osFile struct {
	f *os.File
}

func (o *osFile) Read(p []byte) (int, error) {
	n, err := o.f.Read(p)
	if err == io.EOF {
		return n, io.EOF
	}
	return n, err
}

func (o *osFile) Write(p []byte) (int, error) {
	return o.f.Write(p)
}

func (o *osFile) Close() error {
	return o.f.Close()
}

func (o *osFile) Seek(offset int64) error {
	_, err := o.f.Seek(offset, io.SeekStart)
	return err
}

func (o *osFile) Truncate(size int64) error {
	return o.f.Truncate(size)
}

func (o *osFile) Size() (int64, error) {
	stat, err := o.f.Stat()
	if err != nil {
		return 0, err
	}
	return stat.Size(), nil
}
