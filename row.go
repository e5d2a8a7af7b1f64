package eld

// Row is a sequence of exactly field_desc_count cells in schema
// order, plus a zero-based Index (spec.md §3 "Row"). A freshly built
// row (Document.NewRow) has Index == RowCount, i.e. is the next
// unallocated slot; a row obtained from disk (Document.GetRow)
// carries its stored index.
type Row struct {
	Index uint32
	Cells []Cell
}

// Int returns the i'th cell's integer value. It panics if the cell at
// i is not an IntCell; callers building a row know its schema and are
// expected to match cell type to field type, exactly as the
// descriptor requires (spec.md §3 "Cell": "the descriptor referenced
// by a cell must belong to the document that produced the row").
func (r *Row) Int(i int) int32 {
	return r.Cells[i].(*IntCell).Value
}

// SetInt sets the i'th cell's integer value.
func (r *Row) SetInt(i int, v int32) {
	r.Cells[i].(*IntCell).Value = v
}

// Float returns the i'th cell's float value.
func (r *Row) Float(i int) float32 {
	return r.Cells[i].(*FloatCell).Value
}

// SetFloat sets the i'th cell's float value.
func (r *Row) SetFloat(i int, v float32) {
	r.Cells[i].(*FloatCell).Value = v
}

// String returns the i'th cell's string value.
func (r *Row) String(i int) string {
	return r.Cells[i].(*StringCell).Value
}

// SetString sets the i'th cell's string value. Values longer than the
// field's capacity are truncated on encode (spec.md §4.1).
func (r *Row) SetString(i int, v string) {
	r.Cells[i].(*StringCell).Value = v
}
