package jval_test

import (
	"testing"

	"github.com/berdon/jval"
	"github.com/stretchr/testify/assert"
)

func TestPositionAt(t *testing.T) {
	data := []byte("ab\ncd\n\nefg")
	tests := []struct {
		offset int64
		want   jval.LineCol
	}{
		{0, jval.LineCol{Line: 1, Column: 0}},
		{1, jval.LineCol{Line: 1, Column: 1}},
		{2, jval.LineCol{Line: 1, Column: 2}}, // the newline belongs to its line
		{3, jval.LineCol{Line: 2, Column: 0}},
		{5, jval.LineCol{Line: 2, Column: 2}},
		{6, jval.LineCol{Line: 3, Column: 0}}, // empty line
		{7, jval.LineCol{Line: 4, Column: 0}},
		{9, jval.LineCol{Line: 4, Column: 2}},
		{10, jval.LineCol{Line: 4, Column: 3}}, // one past the end
		{-5, jval.LineCol{Line: 1, Column: 0}}, // clamped low
		{99, jval.LineCol{Line: 4, Column: 3}}, // clamped high
	}
	for _, tc := range tests {
		got := jval.PositionAt(data, tc.offset)
		assert.Equal(t, tc.want, got, "PositionAt(%d)", tc.offset)
	}

	assert.Equal(t, jval.LineCol{Line: 1, Column: 0}, jval.PositionAt(nil, 0))
}

func TestLineColString(t *testing.T) {
	assert.Equal(t, "3:7", jval.LineCol{Line: 3, Column: 7}.String())
	assert.Equal(t, "1:0", jval.LineCol{Line: 1}.String())
}
