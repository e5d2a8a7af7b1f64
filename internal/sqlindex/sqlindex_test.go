package sqlindex

import (
	"path/filepath"
	"testing"

	"github.com/nathanpc/libentrylogger"
)

func buildTestDocument(t *testing.T) *eld.Document {
	t.Helper()
	doc := eld.NewDocument()
	if err := doc.AddField(eld.NewFieldDescriptor(eld.TypeInt, "Integer", 0)); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	if err := doc.AddField(eld.NewFieldDescriptor(eld.TypeString, "Name", 10)); err != nil {
		t.Fatalf("AddField: %v", err)
	}

	path := filepath.Join(t.TempDir(), "index.eld")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	names := []string{"alice", "bob", "carol"}
	for i, name := range names {
		row := doc.NewRow()
		row.SetInt(0, int32(i))
		row.SetString(1, name)
		if err := doc.AddRow(row); err != nil {
			t.Fatalf("AddRow: %v", err)
		}
	}
	return doc
}

func TestBuildAndQuery(t *testing.T) {
	doc := buildTestDocument(t)

	idx, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer idx.Close()

	results, err := idx.Query("SELECT row_index, name FROM rows WHERE integer = ?", 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0]["name"] != "bob" {
		t.Fatalf("name = %v, want %q", results[0]["name"], "bob")
	}
}

func TestBuildEmptyDocument(t *testing.T) {
	doc := eld.NewDocument()
	if err := doc.AddField(eld.NewFieldDescriptor(eld.TypeInt, "Integer", 0)); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	path := filepath.Join(t.TempDir(), "empty.eld")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	idx, err := Build(doc)
	if err != nil {
		t.Fatalf("Build on an empty document: %v", err)
	}
	defer idx.Close()

	results, err := idx.Query("SELECT * FROM rows")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}
