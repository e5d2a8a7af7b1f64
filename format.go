// Package eld implements EntryLog Document (ELD) files: a
// self-describing, fixed-width binary tabular format with a fixed
// header, a contiguous table of field descriptors (the schema), and a
// sequence of fixed-size rows, one cell per descriptor.
//
// # File Structure
//
//	+----------------+ offset 0
//	|     Header     | 15 bytes
//	+----------------+
//	|  Descriptor 0  | field_desc_len bytes
//	|       ...      |
//	|  Descriptor N  |
//	+----------------+ offset header_len
//	|     Row 0      | row_len bytes
//	|       ...      |
//	+----------------+
//
// Row i always begins at header_len + row_len*i; there is no per-row
// prefix, suffix, checksum, or delimiter (spec.md §6.1).
//
// Unlike the C original this library descends from, integers and
// floats are written in a fixed little-endian order rather than the
// writing host's native order (spec.md §9 Q1): a deliberate,
// documented deviation that makes files portable across hosts at the
// cost of compatibility with files written by the strict
// native-order original.
package eld

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// headerBlockSize is the fixed size of the header proper, before
	// the descriptor table.
	headerBlockSize = 15

	// fieldDescEntrySize is the fixed on-disk size of one field
	// descriptor entry: 1 (type) + 2 (size_bytes) + 20 (name) + 1
	// (reserved). spec.md §9 Q4 leaves the source's descriptor layout
	// coupled to the host's struct ABI; this implementation fixes the
	// layout explicitly, as recommended, with one reserved trailing
	// byte taking the place of whatever padding a C struct would have
	// accrued.
	fieldDescEntrySize = 24

	// maxFieldNameLen is the usable capacity of a field descriptor's
	// name, not counting its NUL terminator (spec.md §3, §8 B4).
	maxFieldNameLen = 19

	// fieldNameCap is the on-disk capacity of a field descriptor's
	// name, including the terminator.
	fieldNameCap = maxFieldNameLen + 1
)

var (
	magicBytes  = [3]byte{'E', 'L', 'D'}
	markerBytes = [2]byte{'-', '-'}
)

// header is the fixed-width, fixed-layout record at the start of
// every ELD file (spec.md §3 "Header").
type header struct {
	HeaderLen      uint16
	RowLen         uint16
	FieldDescLen   uint8
	FieldDescCount uint8
	RowCount       uint32
}

func newHeader() *header {
	return &header{
		HeaderLen:    headerBlockSize,
		FieldDescLen: fieldDescEntrySize,
	}
}

// write serializes the header block (magic, lengths, counts, marker)
// in little-endian order, per spec.md §6.1.
func (h *header) write(w io.Writer) error {
	buf := make([]byte, headerBlockSize)
	copy(buf[0:3], magicBytes[:])
	binary.LittleEndian.PutUint16(buf[3:5], h.HeaderLen)
	binary.LittleEndian.PutUint16(buf[5:7], h.RowLen)
	buf[7] = h.FieldDescLen
	buf[8] = h.FieldDescCount
	binary.LittleEndian.PutUint32(buf[9:13], h.RowCount)
	copy(buf[13:15], markerBytes[:])

	_, err := w.Write(buf)
	return err
}

// read deserializes the header block and validates the magic and
// marker sentinels (spec.md §8 P1, §4.3).
func (h *header) read(r io.Reader) error {
	buf := make([]byte, headerBlockSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fileError("read_document", "truncated header", err)
		}
		return fileError("read_document", "io", err)
	}

	if buf[0] != magicBytes[0] || buf[1] != magicBytes[1] || buf[2] != magicBytes[2] {
		return fileError("read_document", fmt.Sprintf("bad magic %q", buf[0:3]), nil)
	}

	h.HeaderLen = binary.LittleEndian.Uint16(buf[3:5])
	h.RowLen = binary.LittleEndian.Uint16(buf[5:7])
	h.FieldDescLen = buf[7]
	h.FieldDescCount = buf[8]
	h.RowCount = binary.LittleEndian.Uint32(buf[9:13])

	if buf[13] != markerBytes[0] || buf[14] != markerBytes[1] {
		return fileError("read_document", fmt.Sprintf("bad marker %q", buf[13:15]), nil)
	}
	return nil
}

// recalculate recomputes HeaderLen from the current FieldDescLen and
// FieldDescCount, preserving invariant P2 of spec.md §8.
func (h *header) recalculate(fieldDescCount int) {
	h.FieldDescCount = uint8(fieldDescCount)
	h.HeaderLen = headerBlockSize + uint16(h.FieldDescLen)*uint16(fieldDescCount)
}

// rowOffset computes the byte offset of row i, per spec.md invariant
// 4: offset = header_len + row_len*i.
func (h *header) rowOffset(i uint32) int64 {
	return int64(h.HeaderLen) + int64(h.RowLen)*int64(i)
}

// write serializes one field descriptor entry: type, size_bytes,
// name (NUL-padded to fieldNameCap), and one reserved byte.
func (d *FieldDescriptor) write(w io.Writer) error {
	buf := make([]byte, fieldDescEntrySize)
	buf[0] = byte(d.Type)
	binary.LittleEndian.PutUint16(buf[1:3], d.SizeBytes)

	name := d.Name
	if len(name) > maxFieldNameLen {
		name = name[:maxFieldNameLen]
	}
	copy(buf[3:3+fieldNameCap], name)
	// buf[3+len(name):3+fieldNameCap] and buf[23] (reserved) are
	// already zero from make([]byte, ...).

	_, err := w.Write(buf)
	return err
}

// read deserializes one field descriptor entry.
func (d *FieldDescriptor) read(r io.Reader) error {
	buf := make([]byte, fieldDescEntrySize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fileError("read_document", "truncated field descriptor", err)
		}
		return fileError("read_document", "io", err)
	}

	d.Type = FieldType(buf[0])
	d.SizeBytes = binary.LittleEndian.Uint16(buf[1:3])

	nameBuf := buf[3 : 3+fieldNameCap]
	if nul := bytes.IndexByte(nameBuf, 0); nul >= 0 {
		d.Name = string(nameBuf[:nul])
	} else {
		d.Name = string(nameBuf)
	}
	return nil
}
