package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Table is the whole-file store primitive behind a single entity type. It
// knows the backing file, the column names and the minimum number of
// fields a line must decode into before it counts as a record. Rows
// shorter than the header but at or above the minimum are padded with
// empty strings so mappers can index columns safely; rows below the
// minimum are skipped entirely.
type Table struct {
	Path      string
	Header    []string
	MinFields int
}

// NewTable builds a table over the given file path.
func NewTable(path string, header []string, minFields int) *Table {
	return &Table{Path: path, Header: header, MinFields: minFields}
}

// Initialize creates the backing file with only the header line when it
// does not exist yet. Calling it on every request is safe: an existing
// file is never truncated.
func (t *Table) Initialize() error {
	if _, err := os.Stat(t.Path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", t.Path, err)
	}
	if dir := filepath.Dir(t.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	line := strings.Join(t.Header, ",") + "\n"
	if err := os.WriteFile(t.Path, []byte(line), 0o644); err != nil {
		return fmt.Errorf("initialize %s: %w", t.Path, err)
	}
	return nil
}

// ReadRows loads the entire file and decodes every record line. The header
// line and blank lines are skipped. File order is preserved.
func (t *Table) ReadRows() ([][]string, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.Path, err)
	}
	lines := strings.Split(string(data), "\n")
	var rows [][]string
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := SplitLine(line)
		if len(fields) < t.MinFields {
			continue // malformed line, tolerated
		}
		for len(fields) < len(t.Header) {
			fields = append(fields, "")
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// WriteRows serializes the header plus every record and overwrites the
// file in a single write. A crash mid-write can leave a truncated file;
// that limitation is accepted, there is no temp-file/rename dance.
func (t *Table) WriteRows(rows [][]string) error {
	var b strings.Builder
	b.WriteString(strings.Join(t.Header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(EncodeRow(row))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(t.Path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", t.Path, err)
	}
	return nil
}

// ModTimeMillis reports the file's last modification time in epoch
// milliseconds, the unit the polling protocol exchanges with clients.
func (t *Table) ModTimeMillis() (int64, error) {
	info, err := os.Stat(t.Path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", t.Path, err)
	}
	return info.ModTime().UnixMilli(), nil
}
