package isf

import (
	"strconv"
	"strings"
)

// field returns the substring of row covering [start, end). A negative end
// means "to the end of the row". Rows shorter than the requested range
// yield the available portion, so truncated records decode to missing
// fields instead of panicking.
func field(row string, start, end int) string {
	if start >= len(row) {
		return ""
	}
	if end < 0 || end > len(row) {
		end = len(row)
	}
	return row[start:end]
}

// toString trims surrounding whitespace, preserving internal spacing.
// Returns nil for a blank field.
func toString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// toFloat decodes a fixed-width numeric field, tolerating surrounding
// spaces. Returns nil when the field is blank or not a number.
func toFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// toInt decodes a fixed-width integer field, tolerating surrounding
// spaces. Returns nil when the field is blank or not an integer.
func toInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
