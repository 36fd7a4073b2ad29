package repository // shared helpers for mapping CSV rows to model values

import (
	"strconv"
	"time"
)

// formatTime renders a timestamp as RFC3339 in UTC. The zero value
// renders as an empty string so optional columns stay blank on disk.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTime is the inverse of formatTime. Blank or malformed values
// map to the zero time rather than an error; a damaged timestamp
// should not make the whole row unreadable.
func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// parseIntDefault parses v as an int, falling back to def when the
// value is blank or malformed.
func parseIntDefault(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseFloatDefault parses v as a float64, falling back to def.
func parseFloatDefault(v string, def float64) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// formatFloat renders a price-style float without trailing zeros.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// parseBool treats exactly "true" as true; anything else, including
// blank, is false.
func parseBool(v string) bool {
	return v == "true"
}
