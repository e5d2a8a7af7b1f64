package eld

import (
	"errors"
	"strings"
	"testing"
)

func TestStatusOfMapsErrorKinds(t *testing.T) {
	if got := StatusOf(nil); got != StatusOK {
		t.Errorf("StatusOf(nil) = %v, want OK", got)
	}
	if got := StatusOf(fileError("op", "detail", nil)); got != StatusFileError {
		t.Errorf("StatusOf(*Error file) = %v, want FILE_ERROR", got)
	}
	if got := StatusOf(&ErrPartialAppend{RowIndex: 3, Err: errors.New("boom")}); got != StatusFileError {
		t.Errorf("StatusOf(*ErrPartialAppend) = %v, want FILE_ERROR", got)
	}
	if got := StatusOf(errors.New("plain")); got != StatusUnknown {
		t.Errorf("StatusOf(plain error) = %v, want UNKNOWN", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk is on fire")
	err := fileError("get_row", "io", cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is did not see through *Error.Unwrap")
	}
}

func TestLegacySinkRecordsMostRecentError(t *testing.T) {
	recordLegacy(fileError("open_file", "first", nil))
	recordLegacy(fileError("save_document", "second", nil))

	if got := LastError(); got == "" {
		t.Fatal("LastError returned empty after recording an error")
	}
	if got := LastError(); !strings.Contains(got, "second") {
		t.Fatalf("LastError = %q, want it to mention %q", got, "second")
	}
}
