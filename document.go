package eld

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/nathanpc/libentrylogger/filebackend"
	"github.com/nathanpc/libentrylogger/internal/config"
	"github.com/nathanpc/libentrylogger/internal/logger"
)

// Mode is the state of a Document's file-mode controller (spec.md
// §4.7): Closed, Read, ReadWrite, or Append. Transitions always go
// through Closed; a Document already holding an open file refuses a
// second Open with a CategoryFile "already open" error.
type Mode int

const (
	ModeClosed Mode = iota
	ModeRead
	ModeReadWrite
	ModeAppend
)

func (m Mode) String() string {
	switch m {
	case ModeClosed:
		return "closed"
	case ModeRead:
		return "read"
	case ModeReadWrite:
		return "read-write"
	case ModeAppend:
		return "append"
	default:
		return "unknown"
	}
}

// Document is the live in-memory state of an ELD document: file path,
// open file handle (if any), current open mode, parsed header, owned
// descriptor table, and ambient error state (spec.md §3 "Document
// handle").
//
// A Document is not safe for concurrent use (spec.md §5): the
// on-disk file and the handle itself are assumed to be exclusively
// owned by one caller for the duration of any operation.
type Document struct {
	id      uuid.UUID
	cfg     *config.Config
	backend filebackend.Backend

	path string
	file filebackend.File
	mode Mode

	header      header
	descriptors []*FieldDescriptor

	lastErr error
}

// NewDocument allocates an empty document handle: header initialized
// to magic/marker/zero-fields/zero-rows, no descriptors, no open file
// (spec.md §3 "Lifecycle").
func NewDocument() *Document {
	cfg := config.Load()
	return NewDocumentWithBackend(filebackend.NewOSBackend(cfg.FilePerm))
}

// NewDocumentWithBackend allocates an empty document handle backed by
// a caller-supplied filebackend.Backend, the extension point a
// resource-constrained embedder would use to replace the OS-backed
// default (spec.md §6.2).
func NewDocumentWithBackend(backend filebackend.Backend) *Document {
	return &Document{
		id:      uuid.New(),
		cfg:     config.Load(),
		backend: backend,
		header:  *newHeader(),
	}
}

// OpenDocument opens an existing ELD file and parses its header and
// schema, per the "read document" data flow of spec.md §2: open
// read-only, read header, deserialize the schema table, close.
func OpenDocument(path string) (*Document, error) {
	d := NewDocument()
	if err := d.Read(path); err != nil {
		return nil, err
	}
	return d, nil
}

// ID returns this handle's correlation identifier, used only in log
// output to tell concurrent handles on different files apart.
func (d *Document) ID() uuid.UUID { return d.id }

// RowCount returns the number of rows currently persisted according
// to the in-memory header.
func (d *Document) RowCount() uint32 { return d.header.RowCount }

// HeaderLen returns the total byte offset of the first row, per
// spec.md invariant 1: sizeof(header_on_disk) + field_desc_len *
// field_desc_count.
func (d *Document) HeaderLen() uint16 { return d.header.HeaderLen }

// RowLen returns the byte width of one row, per spec.md invariant 2:
// the sum of every field descriptor's SizeBytes.
func (d *Document) RowLen() uint16 { return d.header.RowLen }

// Schema returns a snapshot of the document's field descriptors in
// schema order. Per spec.md §4.5's aliasing rule, the descriptors
// themselves are borrowed from the handle and must not be used after
// the Document is discarded.
func (d *Document) Schema() []*FieldDescriptor {
	out := make([]*FieldDescriptor, len(d.descriptors))
	copy(out, d.descriptors)
	return out
}

// LastError returns the error recorded by the most recent fallible
// operation on this handle, or nil if none has occurred. This is the
// per-handle error state the design notes (spec.md §9) recommend in
// place of relying solely on the process-wide legacy sink.
func (d *Document) LastError() error { return d.lastErr }

func (d *Document) fail(err error) error {
	d.lastErr = err
	recordLegacy(err)
	return err
}

// OpenFile opens the document's backing file in the given mode,
// implementing the file-mode controller of spec.md §4.7. Passing an
// empty path reuses the previously stored filename. Calling OpenFile
// while the handle already has an open file fails with a
// CategoryFile "already open" error; Close (or CloseFile) first.
func (d *Document) OpenFile(path string, mode Mode) error {
	if d.mode != ModeClosed {
		return d.fail(fileError("open_file", "a document is already open; close it before opening another", nil))
	}
	if path != "" {
		d.path = path
	}
	if d.path == "" {
		return d.fail(fileError("open_file", "no file name given", nil))
	}

	var bmode filebackend.Mode
	switch mode {
	case ModeRead:
		bmode = filebackend.ModeRead
	case ModeReadWrite:
		if d.backend.Exists(d.path) {
			bmode = filebackend.ModeReadWrite
		} else {
			bmode = filebackend.ModeCreate
		}
	case ModeAppend:
		bmode = filebackend.ModeAppend
	default:
		return d.fail(fileError("open_file", fmt.Sprintf("unknown mode %v", mode), nil))
	}

	logger.Trace("document %s: opening %q in %s mode", d.id, d.path, mode)
	f, err := d.backend.Open(d.path, bmode)
	if err != nil {
		return d.fail(fileError("open_file", fmt.Sprintf("couldn't open file %q", d.path), err))
	}
	d.file = f
	d.mode = mode
	return nil
}

// CloseFile closes the document's backing file, if any, and returns
// the handle to the Closed state. Closing an already-closed handle is
// a no-op.
func (d *Document) CloseFile() error {
	if d.mode == ModeClosed {
		return nil
	}
	logger.Trace("document %s: closing %q", d.id, d.path)
	err := d.file.Close()
	d.file = nil
	d.mode = ModeClosed
	if err != nil {
		return d.fail(fileError("close_file", fmt.Sprintf("couldn't close file %q", d.path), err))
	}
	return nil
}

// Close is an alias for CloseFile, for callers that think of a
// Document the way they'd think of any other closeable resource.
func (d *Document) Close() error { return d.CloseFile() }

// Free releases the descriptor table and stored filename, and closes
// any open file. It has no Go-specific effect beyond CloseFile (the
// garbage collector reclaims the rest), but mirrors the source's
// el_doc_free for callers porting a mental model from the C API
// (spec.md §4.5 "row_free" / §6.3 "free_handle").
func (d *Document) Free() error {
	err := d.CloseFile()
	d.descriptors = nil
	d.path = ""
	return err
}

// Read parses an existing document's header and schema table from
// path, per the "read document" data flow of spec.md §2. The file is
// closed again before Read returns.
func (d *Document) Read(path string) error {
	if err := d.OpenFile(path, ModeRead); err != nil {
		return err
	}

	if err := d.header.read(d.file); err != nil {
		d.CloseFile()
		return d.fail(err)
	}

	descriptors := make([]*FieldDescriptor, d.header.FieldDescCount)
	for i := range descriptors {
		fd := &FieldDescriptor{}
		if err := fd.read(d.file); err != nil {
			d.CloseFile()
			return d.fail(err)
		}
		descriptors[i] = fd
	}
	d.descriptors = descriptors

	logger.Debug("document %s: read %q: %d fields, %d rows", d.id, path,
		d.header.FieldDescCount, d.header.RowCount)
	return d.CloseFile()
}

// Save persists the header and descriptor table to path (reusing the
// stored filename if path is empty). It never truncates the file:
// the row region past header_len, if any, is preserved across a save,
// which is exactly what AddRow relies on when it re-persists the
// header before writing a new row's bytes at EOF (spec.md §4.3, §9
// Q5).
func (d *Document) Save(path string) error {
	if err := d.OpenFile(path, ModeReadWrite); err != nil {
		return err
	}

	if err := d.header.write(d.file); err != nil {
		d.CloseFile()
		return d.fail(fileError("save_document", "couldn't write header", err))
	}
	for _, fd := range d.descriptors {
		if err := fd.write(d.file); err != nil {
			d.CloseFile()
			return d.fail(fileError("save_document", "couldn't write field descriptor", err))
		}
	}

	logger.Debug("document %s: saved %q: header_len=%d row_len=%d", d.id, d.path,
		d.header.HeaderLen, d.header.RowLen)
	return d.CloseFile()
}

// NewRow builds an empty row with one cell per field descriptor, in
// schema order: numeric cells default to zero, STRING cells to an
// empty value. Its Index is set to the next unallocated slot
// (RowCount), per spec.md §4.5 "row_new".
func (d *Document) NewRow() *Row {
	cells := make([]Cell, len(d.descriptors))
	for i, fd := range d.descriptors {
		cells[i] = newCell(fd)
	}
	return &Row{Index: d.header.RowCount, Cells: cells}
}

// AddRow appends row to the document: it assigns row.Index to the
// next slot, re-persists the header and schema (recording the new
// row_count before the row body exists), reopens the file in append
// mode, writes the row's cells, and closes — exactly the five-step
// data flow of spec.md §2 and §4.6.
//
// If a failure occurs after the header persist but before the row
// body is fully written, AddRow returns an *ErrPartialAppend wrapping
// the underlying cause: the on-disk row_count then overstates the
// number of whole rows physically present (spec.md §9 Q3). No
// journaling is attempted; Document.Repair can detect and correct
// this after the fact.
func (d *Document) AddRow(row *Row) error {
	if len(d.descriptors) == 0 {
		return d.fail(fileError("add_row", "document has no fields defined", nil))
	}
	if len(row.Cells) != len(d.descriptors) {
		return d.fail(fileError("add_row", fmt.Sprintf(
			"row has %d cells but schema has %d fields", len(row.Cells), len(d.descriptors)), nil))
	}

	row.Index = d.header.RowCount
	d.header.RowCount++

	if err := d.Save(""); err != nil {
		d.header.RowCount--
		return err
	}

	if err := d.OpenFile("", ModeAppend); err != nil {
		return d.fail(&ErrPartialAppend{RowIndex: row.Index, Err: err})
	}
	for i, cell := range row.Cells {
		buf := make([]byte, cell.descriptor().SizeBytes)
		if err := cell.encode(buf); err != nil {
			d.CloseFile()
			return d.fail(&ErrPartialAppend{RowIndex: row.Index, Err: fmt.Errorf("cell %d: %w", i, err)})
		}
		if _, err := d.file.Write(buf); err != nil {
			d.CloseFile()
			return d.fail(&ErrPartialAppend{RowIndex: row.Index, Err: err})
		}
	}

	logger.Debug("document %s: appended row %d to %q", d.id, row.Index, d.path)
	return d.CloseFile()
}

// GetRow reads row i by index: it opens the file read-only, seeks to
// header_len + row_len*i, decodes each cell in descriptor order, and
// closes (spec.md §4.6 "Read row by index").
//
// GetRow fails with a bounds error if i >= RowCount without touching
// the file (spec.md §8 B1), and with a truncated-file error
// identifying the offending row and cell if EOF is hit partway
// through a row (spec.md §8 B2).
func (d *Document) GetRow(i uint32) (*Row, error) {
	if i >= d.header.RowCount {
		return nil, d.fail(fileError("get_row", fmt.Sprintf(
			"index %d out of range (row_count=%d)", i, d.header.RowCount), nil))
	}

	if err := d.OpenFile("", ModeRead); err != nil {
		return nil, err
	}

	if err := d.file.Seek(d.header.rowOffset(i)); err != nil {
		d.CloseFile()
		return nil, d.fail(fileError("get_row", "seek failed", err))
	}

	cells := make([]Cell, len(d.descriptors))
	for idx, fd := range d.descriptors {
		cell := newCell(fd)
		buf := make([]byte, fd.SizeBytes)
		if _, err := io.ReadFull(d.file, buf); err != nil {
			d.CloseFile()
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, d.fail(fileError("get_row", fmt.Sprintf(
					"truncated file: cell %d of row %d", idx, i), err))
			}
			return nil, d.fail(fileError("get_row", "io", err))
		}
		if err := cell.decode(buf); err != nil {
			d.CloseFile()
			return nil, d.fail(err)
		}
		cells[idx] = cell
	}

	if err := d.CloseFile(); err != nil {
		return nil, err
	}
	return &Row{Index: i, Cells: cells}, nil
}

// UpdateRow rewrites an existing row in place: reopen read-write,
// seek to the row's offset, write all cells, close. No header change
// is required (spec.md §4.6 "Update row in place").
func (d *Document) UpdateRow(row *Row) error {
	if row.Index >= d.header.RowCount {
		return d.fail(fileError("update_row", fmt.Sprintf(
			"index %d out of range (row_count=%d)", row.Index, d.header.RowCount), nil))
	}
	if len(row.Cells) != len(d.descriptors) {
		return d.fail(fileError("update_row", fmt.Sprintf(
			"row has %d cells but schema has %d fields", len(row.Cells), len(d.descriptors)), nil))
	}

	if err := d.OpenFile("", ModeReadWrite); err != nil {
		return err
	}
	if err := d.file.Seek(d.header.rowOffset(row.Index)); err != nil {
		d.CloseFile()
		return d.fail(fileError("update_row", "seek failed", err))
	}
	for i, cell := range row.Cells {
		buf := make([]byte, cell.descriptor().SizeBytes)
		if err := cell.encode(buf); err != nil {
			d.CloseFile()
			return d.fail(fmt.Errorf("eld: update_row: cell %d: %w", i, err))
		}
		if _, err := d.file.Write(buf); err != nil {
			d.CloseFile()
			return d.fail(fileError("update_row", "io", err))
		}
	}

	logger.Debug("document %s: updated row %d in %q", d.id, row.Index, d.path)
	return d.CloseFile()
}

// Dump writes a human-readable summary of the header, schema, and
// every row to w. This is a supplemental diagnostic the original C
// test driver exposed (test/main.c in the reference sources) and
// spec.md's distillation dropped; restoring it costs nothing and is
// useful on its own. It reads every row through GetRow, so it shares
// GetRow's bounds and truncation behavior.
func (d *Document) Dump(w io.Writer) error {
	fmt.Fprintf(w, "ELD document %q: header_len=%d row_len=%d field_desc_len=%d field_desc_count=%d row_count=%d\n",
		d.path, d.header.HeaderLen, d.header.RowLen, d.header.FieldDescLen, d.header.FieldDescCount, d.header.RowCount)

	for i, fd := range d.descriptors {
		fmt.Fprintf(w, "  [%d] %-8s %-20s %d bytes\n", i, fd.Type, fd.Name, fd.SizeBytes)
	}

	for i := uint32(0); i < d.header.RowCount; i++ {
		row, err := d.GetRow(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "row %d:", i)
		for _, cell := range row.Cells {
			switch c := cell.(type) {
			case *IntCell:
				fmt.Fprintf(w, " %s=%d", c.Field.Name, c.Value)
			case *FloatCell:
				fmt.Fprintf(w, " %s=%g", c.Field.Name, c.Value)
			case *StringCell:
				fmt.Fprintf(w, " %s=%q", c.Field.Name, c.Value)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

// Repair detects the durability gap of spec.md §9 Q3: a row_count
// that overstates the whole rows physically present in the file
// (e.g. because a prior AddRow returned *ErrPartialAppend). It
// truncates row_count in memory to the number of complete rows the
// file actually holds and re-saves the header; it does not attempt to
// recover or discard any partial trailing row bytes beyond that,
// since doing so would require journaling this format does not have.
func (d *Document) Repair() error {
	if err := d.OpenFile("", ModeRead); err != nil {
		return err
	}
	size, err := d.file.Size()
	d.CloseFile()
	if err != nil {
		return d.fail(fileError("repair", "couldn't stat file", err))
	}

	available := size - int64(d.header.HeaderLen)
	if available < 0 {
		available = 0
	}
	wholeRows := uint32(0)
	if d.header.RowLen > 0 {
		wholeRows = uint32(available / int64(d.header.RowLen))
	}
	if wholeRows >= d.header.RowCount {
		return nil
	}

	logger.Warn("document %s: repairing row_count %d -> %d", d.id, d.header.RowCount, wholeRows)
	d.header.RowCount = wholeRows
	return d.Save("")
}
