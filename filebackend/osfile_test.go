package filebackend

import (
	"path/filepath"
	"testing"
)

func TestOSBackendCreateWriteReadSeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	b := NewOSBackend(0644)

	if b.Exists(path) {
		t.Fatal("Exists reported true for a file that hasn't been created yet")
	}

	f, err := b.Open(path, ModeCreate)
	if err != nil {
		t.Fatalf("Open ModeCreate: %v", err)
	}
	if _, err := f.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !b.Exists(path) {
		t.Fatal("Exists reported false after creating the file")
	}

	f, err = b.Open(path, ModeRead)
	if err != nil {
		t.Fatalf("Open ModeRead: %v", err)
	}
	defer f.Close()

	size, err := f.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 5 {
		t.Fatalf("Size = %d, want 5", size)
	}

	if err := f.Seek(1); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	buf := make([]byte, 4)
	n, err := f.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "ello" {
		t.Fatalf("Read after seek = %q, want %q", buf[:n], "ello")
	}
}

func TestOSBackendTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	b := NewOSBackend(0644)

	f, err := b.Open(path, ModeCreate)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Write([]byte("0123456789"))

	if err := f.Truncate(4); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	size, err := f.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 4 {
		t.Fatalf("Size after truncate = %d, want 4", size)
	}
	f.Close()
}

func TestOSBackendReadWriteModePreservesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	b := NewOSBackend(0644)

	f, err := b.Open(path, ModeCreate)
	if err != nil {
		t.Fatalf("Open ModeCreate: %v", err)
	}
	f.Write([]byte("abcdef"))
	f.Close()

	f, err = b.Open(path, ModeReadWrite)
	if err != nil {
		t.Fatalf("Open ModeReadWrite: %v", err)
	}
	if err := f.Seek(2); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := f.Write([]byte("XY")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	f, err = b.Open(path, ModeRead)
	if err != nil {
		t.Fatalf("Open ModeRead: %v", err)
	}
	defer f.Close()
	buf := make([]byte, 6)
	if _, err := f.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf) != "abXYef" {
		t.Fatalf("content = %q, want %q", buf, "abXYef")
	}
}
