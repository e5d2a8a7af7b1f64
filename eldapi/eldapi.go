// Package eldapi exposes the C-style embedder function surface of
// spec.md §6.3: new_handle, open_file, close_file, free_handle,
// read_document, save_document, add_field, add_row, update_row,
// new_row, get_row, free_row, last_error, print_last_error. Each
// fallible operation returns the enumerated eld.Status (OK,
// FILE_ERROR, UNKNOWN, NOT_IMPLEMENTED) rather than a Go error, the
// way an embedder linking against a C ABI would expect.
//
// Handles and rows are opaque uint64 tokens rather than pointers,
// since this surface exists to be a stable shape a cgo export or a
// constrained embedder could sit behind — idiomatic Go code should
// use the eld package directly instead.
package eldapi

import (
	"sync"

	"github.com/nathanpc/libentrylogger"
)

// HandleID identifies a document handle obtained from NewHandle.
type HandleID uint64

// RowID identifies a row obtained from NewRow or GetRow.
type RowID uint64

var (
	mu          sync.Mutex
	nextHandle  HandleID
	nextRow     RowID
	handles     = make(map[HandleID]*eld.Document)
	rows        = make(map[RowID]*eld.Row)
	rowsHandle  = make(map[RowID]HandleID)
)

// NewHandle allocates a new, empty document handle, mirroring
// el_doc_new in the reference implementation.
func NewHandle() HandleID {
	mu.Lock()
	defer mu.Unlock()
	nextHandle++
	id := nextHandle
	handles[id] = eld.NewDocument()
	return id
}

func doc(h HandleID) *eld.Document {
	mu.Lock()
	defer mu.Unlock()
	return handles[h]
}

// OpenFile opens h's backing file in the given mode.
func OpenFile(h HandleID, fname string, mode eld.Mode) eld.Status {
	d := doc(h)
	if d == nil {
		return eld.StatusFileError
	}
	return eld.StatusOf(d.OpenFile(fname, mode))
}

// CloseFile closes h's backing file, if any.
func CloseFile(h HandleID) eld.Status {
	d := doc(h)
	if d == nil {
		return eld.StatusFileError
	}
	return eld.StatusOf(d.CloseFile())
}

// FreeHandle releases h and every row obtained from it.
func FreeHandle(h HandleID) eld.Status {
	mu.Lock()
	d, ok := handles[h]
	if ok {
		delete(handles, h)
		for rid, owner := range rowsHandle {
			if owner == h {
				delete(rows, rid)
				delete(rowsHandle, rid)
			}
		}
	}
	mu.Unlock()

	if !ok {
		return eld.StatusFileError
	}
	return eld.StatusOf(d.Free())
}

// ReadDocument opens fname, parses its header and schema, and closes
// it again.
func ReadDocument(h HandleID, fname string) eld.Status {
	d := doc(h)
	if d == nil {
		return eld.StatusFileError
	}
	return eld.StatusOf(d.Read(fname))
}

// SaveDocument writes h's header and schema table to fname.
func SaveDocument(h HandleID, fname string) eld.Status {
	d := doc(h)
	if d == nil {
		return eld.StatusFileError
	}
	return eld.StatusOf(d.Save(fname))
}

// AddField appends a field descriptor to h's schema.
func AddField(h HandleID, desc *eld.FieldDescriptor) eld.Status {
	d := doc(h)
	if d == nil {
		return eld.StatusFileError
	}
	return eld.StatusOf(d.AddField(desc))
}

// NewRow allocates a fresh row for h and returns a token for it.
func NewRow(h HandleID) (RowID, eld.Status) {
	d := doc(h)
	if d == nil {
		return 0, eld.StatusFileError
	}
	row := d.NewRow()

	mu.Lock()
	defer mu.Unlock()
	nextRow++
	id := nextRow
	rows[id] = row
	rowsHandle[id] = h
	return id, eld.StatusOK
}

// AddRow appends the row referenced by r to h's document.
func AddRow(h HandleID, r RowID) eld.Status {
	d := doc(h)
	row := getRow(r)
	if d == nil || row == nil {
		return eld.StatusFileError
	}
	return eld.StatusOf(d.AddRow(row))
}

// UpdateRow rewrites the row referenced by r in place.
func UpdateRow(h HandleID, r RowID) eld.Status {
	d := doc(h)
	row := getRow(r)
	if d == nil || row == nil {
		return eld.StatusFileError
	}
	return eld.StatusOf(d.UpdateRow(row))
}

// GetRow reads row index from h's document and returns a token for
// it.
func GetRow(h HandleID, index uint32) (RowID, eld.Status) {
	d := doc(h)
	if d == nil {
		return 0, eld.StatusFileError
	}
	row, err := d.GetRow(index)
	if err != nil {
		return 0, eld.StatusOf(err)
	}

	mu.Lock()
	defer mu.Unlock()
	nextRow++
	id := nextRow
	rows[id] = row
	rowsHandle[id] = h
	return id, eld.StatusOK
}

// Row returns the *eld.Row referenced by r, for reading or mutating
// cell values before AddRow/UpdateRow. Returns nil if r is unknown.
func Row(r RowID) *eld.Row {
	return getRow(r)
}

func getRow(r RowID) *eld.Row {
	mu.Lock()
	defer mu.Unlock()
	return rows[r]
}

// FreeRow releases r. Idempotent on an unknown RowID.
func FreeRow(r RowID) eld.Status {
	mu.Lock()
	defer mu.Unlock()
	delete(rows, r)
	delete(rowsHandle, r)
	return eld.StatusOK
}

// LastError returns the process-wide legacy last-error message.
func LastError() string {
	return eld.LastError()
}

// PrintLastError writes the process-wide legacy last-error message to
// stderr.
func PrintLastError() {
	eld.PrintLastError()
}
