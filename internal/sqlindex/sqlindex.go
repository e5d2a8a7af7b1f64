// Package sqlindex mirrors an ELD document's rows into an in-memory
// SQLite database so callers can run ad hoc SQL queries over a
// document instead of scanning it row by row through GetRow.
//
// This is a supplemental feature, not part of the core format/IO
// engine: spec.md's row I/O engine only promises sequential and
// indexed access. The teacher repository uses
// github.com/mattn/go-sqlite3 the same way, as a side database its
// CLI tools (src/tools/users/add_user.go, create_users.go) query
// independently of the main binary format; sqlindex plays that same
// role for ELD documents.
package sqlindex

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nathanpc/libentrylogger"
)

// Index is an in-memory SQLite mirror of an ELD document's rows.
type Index struct {
	db     *sql.DB
	fields []*eld.FieldDescriptor
}

// columnName returns a SQL-safe column name for a field descriptor:
// lowercased, with each space replaced by an underscore, since ELD field
// names (spec.md §3) allow spaces but SQLite identifiers are cleaner
// without them.
func columnName(fd *eld.FieldDescriptor) string {
	return strings.ReplaceAll(strings.ToLower(fd.Name), " ", "_")
}

func sqlType(t eld.FieldType) string {
	switch t {
	case eld.TypeInt:
		return "INTEGER"
	case eld.TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Build reads every row out of doc via GetRow and loads it into a
// fresh in-memory SQLite table named "rows", with one column per
// field descriptor plus a leading row_index column.
func Build(doc *eld.Document) (*Index, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("sqlindex: open: %w", err)
	}

	fields := doc.Schema()
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, "row_index INTEGER PRIMARY KEY")
	for _, fd := range fields {
		cols = append(cols, fmt.Sprintf("%s %s", columnName(fd), sqlType(fd.Type)))
	}
	createStmt := fmt.Sprintf("CREATE TABLE rows (%s)", strings.Join(cols, ", "))
	if _, err := db.Exec(createStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlindex: create table: %w", err)
	}

	placeholders := make([]string, len(fields)+1)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertStmt, err := db.Prepare(fmt.Sprintf(
		"INSERT INTO rows VALUES (%s)", strings.Join(placeholders, ", ")))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlindex: prepare insert: %w", err)
	}
	defer insertStmt.Close()

	for i := uint32(0); i < doc.RowCount(); i++ {
		row, err := doc.GetRow(i)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlindex: reading row %d: %w", i, err)
		}

		args := make([]interface{}, len(row.Cells)+1)
		args[0] = row.Index
		for j, cell := range row.Cells {
			switch c := cell.(type) {
			case *eld.IntCell:
				args[j+1] = c.Value
			case *eld.FloatCell:
				args[j+1] = c.Value
			case *eld.StringCell:
				args[j+1] = c.Value
			}
		}
		if _, err := insertStmt.Exec(args...); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlindex: inserting row %d: %w", i, err)
		}
	}

	return &Index{db: db, fields: fields}, nil
}

// Query runs an arbitrary SELECT against the "rows" table and returns
// the matching rows as column-name/value maps.
func (idx *Index) Query(query string, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := idx.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlindex: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlindex: columns: %w", err)
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		scanTargets := make([]interface{}, len(cols))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("sqlindex: scan: %w", err)
		}

		record := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			record[col] = values[i]
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// Close releases the underlying in-memory database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
