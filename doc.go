// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jval implements the input and grammar plumbing for a JSON and
// JSON5 parser.
//
// This package provides the byte-level machinery shared by the parser in
// the ast subpackage: buffered input with lookahead, byte classification
// under a selectable dialect, the syntax error taxonomy, and string
// escape handling. Most callers will not use it directly; they parse with
// the ast package and come here only to configure a parse or examine its
// errors.
//
// # Buffers
//
// The Buffer type presents a byte source to the parser through a window
// of up to two bytes of lookahead. Construct one from a byte slice or
// from an io.Reader:
//
//	buf := jval.NewBuffer(data)
//	buf := jval.NewReaderBuffer(r)
//
// Peek and PeekNext observe the next bytes without consuming them;
// ReadByte, Read and Skip consume. Pos reports the number of bytes
// consumed so far, and End the total size of the input when known:
//
//	if buf.End() == jval.EndUnknown {
//	   log.Print("source size not known in advance")
//	}
//
// # Dialects
//
// A Config selects the grammar for a parse. The zero value selects the
// strict RFC 8259 grammar; setting Dialect to JSON5 admits the JSON5
// extensions. The Is functions in this package classify single bytes
// under a dialect, and the parser consults them at each decision point:
//
//	cfg := jval.Config{Dialect: jval.JSON5}
//	v, err := ast.ParseBuffer(buf, cfg)
//
// # Errors
//
// Parse failures carry a concrete type *jval.SyntaxError recording the
// byte offset at which parsing stopped. Its wrap chain includes one of
// the Err sentinel values classifying the failure, so callers can test
// with errors.Is:
//
//	if errors.Is(err, jval.ErrParseNumber) {
//	   log.Printf("bad number: %v", err)
//	}
//
// PositionAt translates a byte offset back into a line and column for
// reporting against the original source.
//
// # Escapes
//
// The parser leaves string payloads exactly as written, with their escape
// sequences intact. Unescape decodes such a payload to plain text, and
// Quote performs the reverse transformation:
//
//	text, err := jval.Unescape(v.Text())
//	quoted := jval.Quote("a \"b\" c")
package jval
