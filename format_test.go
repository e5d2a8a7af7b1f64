package eld

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := newHeader()
	h.recalculate(3)
	h.RowLen = 9
	h.RowCount = 7

	var buf bytes.Buffer
	if err := h.write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() != headerBlockSize {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), headerBlockSize)
	}

	var got header
	if err := got.read(&buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != *h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, *h)
	}
}

func TestHeaderScenario1Layout(t *testing.T) {
	// spec.md's own worked example: three fields (INT, FLOAT, STRING
	// of length 10) produce header_len = 15 + 3*24 = 87.
	h := newHeader()
	h.recalculate(3)
	if h.HeaderLen != 87 {
		t.Fatalf("header_len = %d, want 87", h.HeaderLen)
	}
}

func TestHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, headerBlockSize)
	copy(buf, "XLD")
	copy(buf[13:15], markerBytes[:])

	var h header
	err := h.read(bytes.NewReader(buf))
	if err == nil {
		t.Fatal("expected error for bad magic, got nil")
	}
}

func TestHeaderRejectsBadMarker(t *testing.T) {
	buf := make([]byte, headerBlockSize)
	copy(buf, magicBytes[:])
	buf[13], buf[14] = 'x', 'y'

	var h header
	err := h.read(bytes.NewReader(buf))
	if err == nil {
		t.Fatal("expected error for bad marker, got nil")
	}
}

func TestHeaderRejectsTruncated(t *testing.T) {
	buf := make([]byte, headerBlockSize-1)
	var h header
	err := h.read(bytes.NewReader(buf))
	if err == nil {
		t.Fatal("expected error for truncated header, got nil")
	}
}

func TestRowOffset(t *testing.T) {
	h := newHeader()
	h.recalculate(3)
	h.RowLen = 9

	cases := []struct {
		row  uint32
		want int64
	}{
		{0, 87},
		{1, 96},
		{2, 105},
	}
	for _, c := range cases {
		if got := h.rowOffset(c.row); got != c.want {
			t.Errorf("rowOffset(%d) = %d, want %d", c.row, got, c.want)
		}
	}
}

func TestFieldDescriptorRoundTrip(t *testing.T) {
	fd := NewFieldDescriptor(TypeString, "String 10", 10)

	var buf bytes.Buffer
	if err := fd.write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() != fieldDescEntrySize {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), fieldDescEntrySize)
	}

	var got FieldDescriptor
	if err := got.read(&buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Type != fd.Type || got.SizeBytes != fd.SizeBytes || got.Name != fd.Name {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, *fd)
	}
}

func TestFieldDescriptorNameTruncation(t *testing.T) {
	fd := NewFieldDescriptor(TypeInt, "this name is definitely longer than nineteen bytes", 0)
	if len(fd.Name) != maxFieldNameLen {
		t.Fatalf("name length = %d, want %d", len(fd.Name), maxFieldNameLen)
	}
}
