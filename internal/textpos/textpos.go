// Package textpos converts editor line/column coordinates into absolute
// offsets within a text buffer and performs range edits at those offsets.
// All functions are pure; offsets are byte offsets over the stored UTF-8
// text, with lines split on '\n'.
package textpos

import "strings"

type Position struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// Range is half-open: [From, To).
type Range struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// ToOffset converts a line/column position to an offset. Positions beyond
// the text degrade to the nearest boundary rather than failing.
func ToOffset(text string, pos Position) int {
	lines := strings.Split(text, "\n")
	offset := 0
	for i := 0; i < pos.Line && i < len(lines); i++ {
		offset += len(lines[i]) + 1 // +1 for newline
	}
	offset += pos.Ch
	return clamp(offset, 0, len(text))
}

// RangeOffsets converts a range to start/end offsets.
func RangeOffsets(text string, r Range) (start, end int) {
	return ToOffset(text, r.From), ToOffset(text, r.To)
}

// Splice replaces the text within a range with new content.
func Splice(text string, r Range, replacement string) string {
	start, end := RangeOffsets(text, r)
	if end < start {
		end = start
	}
	return text[:start] + replacement + text[end:]
}

// InsertAt inserts text at a position.
func InsertAt(text string, pos Position, insertion string) string {
	offset := ToOffset(text, pos)
	return text[:offset] + insertion + text[offset:]
}

// CursorOffset returns the offset for a cursor position, falling back to
// the end of the text when no cursor is set.
func CursorOffset(text string, cursor *Position) int {
	if cursor != nil {
		return ToOffset(text, *cursor)
	}
	return len(text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
