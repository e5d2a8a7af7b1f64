// Package filebackend implements the host collaborator interface the
// ELD core requires: a byte-addressable random-access file
// abstraction (open / close / read / write / seek / truncate, plus an
// existence test), per spec.md §6.2.
//
// This is the seam a severely resource-constrained host (the kind of
// 16-bit target the on-disk format was designed for) would replace
// with its own implementation; the default OS-backed implementation
// in this package is what every normal Go build uses.
package filebackend

import "io"

// Mode selects how a File is opened.
type Mode int

const (
	// ModeRead opens an existing file for reading only.
	ModeRead Mode = iota
	// ModeReadWrite opens an existing file for reading and writing,
	// without truncating it.
	ModeReadWrite
	// ModeAppend opens (creating if necessary) a file positioned for
	// writes at end-of-file, while still permitting reads.
	ModeAppend
	// ModeCreate creates a new file (or truncates an existing one) for
	// reading and writing.
	ModeCreate
)

// File is the random-access file abstraction consumed by the ELD
// core. It is intentionally narrow: read/write/close/seek, plus
// truncate and a size query, are the only per-file primitives it
// requires of a host.
type File interface {
	io.Reader
	io.Writer
	io.Closer

	// Seek repositions the next read or write to offset bytes from
	// the start of the file.
	Seek(offset int64) error

	// Truncate changes the size of the file to size bytes.
	Truncate(size int64) error

	// Size returns the current size of the file in bytes.
	Size() (int64, error)
}

// Backend opens files and tests for their existence. It is the
// factory half of the host collaborator interface; File is the
// per-open-file half.
type Backend interface {
	// Open opens path in the given mode.
	Open(path string, mode Mode) (File, error)

	// Exists reports whether path refers to an existing file.
	Exists(path string) bool
}
