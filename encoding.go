// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"github.com/berdon/jval/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	buf := make([]byte, 0, len(src)+2)
	buf = append(buf, '"')
	buf = append(buf, escape.Quote(mem.S(src))...)
	buf = append(buf, '"')
	return string(buf)
}

// Unescape decodes the escape sequences in the raw contents of a string
// value, as a parsed tree stores them: quotation marks already removed,
// escapes still in source form. Both the RFC 8259 escapes and the JSON5
// additions (\', \v, \0, \xHH, escaped line terminators, \uXXXX with
// surrogate pairs) are decoded.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unescape
// reports an error for an escape cut off by the end of input.
func Unescape(src string) ([]byte, error) { return escape.Unquote(mem.S(src)) }
