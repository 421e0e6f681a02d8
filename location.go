package jval

import "fmt"

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// PositionAt converts a byte offset into data, such as the Offset of a
// SyntaxError, into a line and column for display. Offsets out of range
// are clamped to the ends of data. Columns count bytes, not runes.
func PositionAt(data []byte, offset int64) LineCol {
	if offset < 0 {
		offset = 0
	} else if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, start := 1, 0
	for i := 0; i < int(offset); i++ {
		if data[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return LineCol{Line: line, Column: int(offset) - start}
}
