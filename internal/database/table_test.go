package database

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "things.csv")
	return NewTable(path, []string{"id", "name", "note"}, 2)
}

func TestInitializeIdempotent(t *testing.T) {
	t.Parallel()

	tbl := testTable(t)
	if err := tbl.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := tbl.WriteRows([][]string{{"1", "first", ""}}); err != nil {
		t.Fatalf("WriteRows() error = %v", err)
	}
	// A second Initialize must not truncate or duplicate anything.
	if err := tbl.Initialize(); err != nil {
		t.Fatalf("Initialize() second call error = %v", err)
	}
	data, err := os.ReadFile(tbl.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "id,name,note\n1,first,\n"
	if string(data) != want {
		t.Fatalf("file after re-Initialize = %q, want %q", data, want)
	}
}

func TestInitializeCreatesParentDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "nested", "things.csv")
	tbl := NewTable(path, []string{"id"}, 1)
	if err := tbl.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backing file not created: %v", err)
	}
}

func TestReadRowsSkipsAndPads(t *testing.T) {
	t.Parallel()

	tbl := testTable(t)
	content := strings.Join([]string{
		"id,name,note",
		"1,alpha,first",
		"",
		"short",       // below MinFields, skipped
		"2,beta",      // short but valid, padded
		`3,"g,amma",x`, // quoted delimiter
		"",
	}, "\n")
	if err := os.WriteFile(tbl.Path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	rows, err := tbl.ReadRows()
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	want := [][]string{
		{"1", "alpha", "first"},
		{"2", "beta", ""},
		{"3", "g,amma", "x"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("ReadRows() = %#v, want %#v", rows, want)
	}
}

func TestWriteRowsThenReadRows(t *testing.T) {
	t.Parallel()

	tbl := testTable(t)
	in := [][]string{
		{"1", "name, with comma", `note "quoted"`},
		{"2", "plain", ""},
	}
	if err := tbl.WriteRows(in); err != nil {
		t.Fatalf("WriteRows() error = %v", err)
	}
	rows, err := tbl.ReadRows()
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if !reflect.DeepEqual(rows, in) {
		t.Fatalf("ReadRows() = %#v, want %#v", rows, in)
	}
}

func TestModTimeMillisAdvancesOnWrite(t *testing.T) {
	t.Parallel()

	tbl := testTable(t)
	if err := tbl.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	// Pin the mtime into the past so the overwrite below is guaranteed to
	// move it forward regardless of filesystem timestamp resolution.
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(tbl.Path, old, old); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}
	before, err := tbl.ModTimeMillis()
	if err != nil {
		t.Fatalf("ModTimeMillis() error = %v", err)
	}
	again, err := tbl.ModTimeMillis()
	if err != nil {
		t.Fatalf("ModTimeMillis() error = %v", err)
	}
	if again != before {
		t.Fatalf("ModTimeMillis() changed without a write: %d then %d", before, again)
	}
	if err := tbl.WriteRows([][]string{{"1", "a", ""}}); err != nil {
		t.Fatalf("WriteRows() error = %v", err)
	}
	after, err := tbl.ModTimeMillis()
	if err != nil {
		t.Fatalf("ModTimeMillis() error = %v", err)
	}
	if after <= before {
		t.Fatalf("ModTimeMillis() after write = %d, want > %d", after, before)
	}
}
