// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"errors"
	"fmt"
)

// Error kinds distinguishing the ways a parse can fail. Every parse
// failure has concrete type *SyntaxError and wraps exactly one of these;
// use errors.Is to classify.
var (
	// ErrParseValue: no production of the grammar matches where a value is
	// required.
	ErrParseValue = errors.New("invalid value")

	// ErrParseObject: an object member without a valid key, such as a
	// missing key or a bad identifier.
	ErrParseObject = errors.New("invalid object member")

	// ErrParseString: the input ended before the closing quote of a string.
	ErrParseString = errors.New("unterminated string")

	// ErrParseNumber: a malformed numeric literal.
	ErrParseNumber = errors.New("invalid number")

	// ErrUnexpectedToken: a required literal token is missing, such as the
	// ':' after a member key or a separating comma; or extra input follows
	// where none is allowed.
	ErrUnexpectedToken = errors.New("unexpected token")
)

// A SyntaxError reports a parse failure and the byte offset at which it
// was detected. The wrapped error carries one of the Err* kinds and,
// when a read failed, the underlying I/O error further down the chain.
type SyntaxError struct {
	Offset int64 // byte offset into the input
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
