// Package database implements the flat-file tabular storage engine used by
// every repository. Records live in plain CSV files: the first line names
// the columns, each following line is one record. Files are read and
// rewritten whole; there is no append path and no partial-write protection.
package database

import "strings"

// SplitLine decodes one CSV line into its fields. The scanner walks the
// line character by character: a double quote toggles quoted mode, a
// doubled quote inside quoted mode decodes to a literal quote, and a comma
// splits fields only while outside quoted mode. Whatever remains after the
// loop is flushed as the final field. Every field is trimmed of
// surrounding whitespace after extraction.
func SplitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"') // escaped quote
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}

// EncodeField renders a single value for a CSV line. Values containing the
// delimiter, a quote or a line break are wrapped in quotes with internal
// quotes doubled; everything else is emitted as-is.
func EncodeField(v string) string {
	if strings.ContainsAny(v, ",\"\n\r") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

// EncodeRow joins the encoded fields of one record into a CSV line.
func EncodeRow(fields []string) string {
	encoded := make([]string, len(fields))
	for i, f := range fields {
		encoded[i] = EncodeField(f)
	}
	return strings.Join(encoded, ",")
}
