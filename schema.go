package eld

import "fmt"

// AddField appends desc to the document's schema and recomputes
// header_len and row_len (spec.md §4.4 "doc_field_add").
//
// AddField fails with ErrSchemaFrozen once the document has one or
// more persisted rows: appending a field after that point would
// change row_len and invalidate every existing row's offset (spec.md
// §9 Q2). This is a deliberate compatibility break from a source that
// left the behavior undefined.
func (d *Document) AddField(desc *FieldDescriptor) error {
	if d.header.RowCount > 0 {
		return d.fail(ErrSchemaFrozen)
	}
	if len(d.descriptors) >= d.cfg.MaxFieldDescCount {
		return d.fail(fileError("add_field", fmt.Sprintf(
			"schema already has the maximum of %d fields", d.cfg.MaxFieldDescCount), nil))
	}

	d.descriptors = append(d.descriptors, desc)
	d.header.recalculate(len(d.descriptors))

	var rowLen uint16
	for _, fd := range d.descriptors {
		rowLen += fd.SizeBytes
	}
	d.header.RowLen = rowLen

	return nil
}
