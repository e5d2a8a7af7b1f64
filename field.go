package eld

import (
	"bytes"
	"encoding/binary"
	"math"
)

// FieldType identifies the kind of value a field descriptor's cells
// hold. The numeric values are part of the on-disk format (spec.md
// §6.1 descriptor entry, byte 0) and must not change.
type FieldType uint8

const (
	TypeInt FieldType = iota
	TypeFloat
	TypeString
)

func (t FieldType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeString:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// baseSize returns the size_of(type) policy of spec.md §4.2: the
// per-unit width of the type before a declared length is applied.
func baseSize(t FieldType) uint16 {
	switch t {
	case TypeInt, TypeFloat:
		return 4
	case TypeString:
		return 1
	default:
		return 0
	}
}

// sizeBytes computes a descriptor's on-disk cell width for the given
// declared length, per spec.md §4.2 and invariants 6 and 7: INT and
// FLOAT ignore length beyond occupying 4 bytes each; STRING occupies
// length+1 bytes to leave room for a NUL terminator.
func sizeBytes(t FieldType, length uint16) uint16 {
	if t == TypeString {
		return length + 1
	}
	return baseSize(t)
}

// FieldDescriptor is a schema entry: the type, on-disk width, and
// name of one column. Field descriptors are immutable once added to a
// Document (spec.md §3 "Field descriptor").
type FieldDescriptor struct {
	Type      FieldType
	SizeBytes uint16
	Name      string
}

// NewFieldDescriptor constructs a descriptor with its SizeBytes
// computed per the §4.2 policy and its Name truncated to the on-disk
// capacity of 19 usable bytes (spec.md §8 B4). length is the declared
// logical length: character count for STRING, ignored for INT/FLOAT.
func NewFieldDescriptor(t FieldType, name string, length uint16) *FieldDescriptor {
	if len(name) > maxFieldNameLen {
		name = name[:maxFieldNameLen]
	}
	return &FieldDescriptor{
		Type:      t,
		SizeBytes: sizeBytes(t, length),
		Name:      name,
	}
}

// Cell is a single typed value bound to a field descriptor (spec.md
// §3 "Cell"). It is a discriminated variant: exactly one of IntCell,
// FloatCell, or StringCell, matching the descriptor's Type.
type Cell interface {
	descriptor() *FieldDescriptor
	encode(buf []byte) error
	decode(buf []byte) error
}

type cellBase struct {
	Field *FieldDescriptor
}

func (c cellBase) descriptor() *FieldDescriptor { return c.Field }

// IntCell holds a 32-bit signed integer value.
type IntCell struct {
	cellBase
	Value int32
}

func (c *IntCell) encode(buf []byte) error {
	binary.LittleEndian.PutUint32(buf, uint32(c.Value))
	return nil
}

func (c *IntCell) decode(buf []byte) error {
	c.Value = int32(binary.LittleEndian.Uint32(buf))
	return nil
}

// FloatCell holds an IEEE-754 single-precision value.
type FloatCell struct {
	cellBase
	Value float32
}

func (c *FloatCell) encode(buf []byte) error {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(c.Value))
	return nil
}

func (c *FloatCell) decode(buf []byte) error {
	c.Value = math.Float32frombits(binary.LittleEndian.Uint32(buf))
	return nil
}

// StringCell holds a zero-padded, NUL-terminated string whose on-disk
// capacity is its descriptor's SizeBytes (spec.md §3 "Cell", §4.1).
type StringCell struct {
	cellBase
	Value string
}

func (c *StringCell) encode(buf []byte) error {
	// buf is already zero-filled by the caller; copy truncates to the
	// descriptor's capacity and the last byte is always left 0 (NUL),
	// per spec.md §4.1 ("the last byte is always a NUL on write").
	n := copy(buf[:len(buf)-1], c.Value)
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

func (c *StringCell) decode(buf []byte) error {
	if nul := bytes.IndexByte(buf, 0); nul >= 0 {
		c.Value = string(buf[:nul])
	} else {
		c.Value = string(buf)
	}
	return nil
}

// newCell allocates the zero-valued cell variant matching desc's
// Type, per the row model of spec.md §4.5: numeric cells default to
// zero, STRING cells to an empty (fully zero-padded) string.
func newCell(desc *FieldDescriptor) Cell {
	base := cellBase{Field: desc}
	switch desc.Type {
	case TypeInt:
		return &IntCell{cellBase: base}
	case TypeFloat:
		return &FloatCell{cellBase: base}
	case TypeString:
		return &StringCell{cellBase: base}
	default:
		return &IntCell{cellBase: base}
	}
}
