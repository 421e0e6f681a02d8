// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

// A Dialect selects the grammar accepted by the parser. The zero value is
// the strict RFC 8259 grammar.
type Dialect int

const (
	// RFC8259 accepts only the strict JSON grammar of RFC 8259.
	RFC8259 Dialect = iota

	// JSON5 additionally accepts the JSON5 extensions: comments, trailing
	// commas, single-quoted strings, unquoted identifier keys, extended
	// whitespace, hexadecimal integers, leading and trailing decimal points,
	// explicit plus signs, and the Infinity and NaN constants.
	JSON5
)

var dialectStr = [...]string{
	RFC8259: "RFC 8259",
	JSON5:   "JSON5",
}

func (d Dialect) String() string {
	if int(d) < len(dialectStr) {
		return dialectStr[d]
	}
	return "unknown dialect"
}

// A Config carries the settings for a parse. A zero Config is ready for
// use and selects the strict dialect.
type Config struct {
	Dialect Dialect
}

// IsSpace reports whether b is insignificant whitespace under dialect d.
// The strict dialect admits space, tab, carriage return and line feed;
// JSON5 adds vertical tab and form feed. The JSON5 whitespace code points
// above U+007F are multi-byte UTF-8 sequences, recognized through the
// lookahead window by the IsWideSpace functions rather than here.
func IsSpace(b byte, d Dialect) bool {
	switch b {
	case ' ', '\t', '\r', '\n':
		return true
	case '\v', '\f':
		return d == JSON5
	}
	return false
}

// IsWideSpaceStart reports whether b0 can begin the UTF-8 encoding of one
// of the JSON5 whitespace code points above U+007F. None of these bytes
// can begin any other token outside a string.
func IsWideSpaceStart(b0 byte) bool { return b0 == 0xC2 || b0 == 0xE2 || b0 == 0xEF }

// IsWideSpacePair reports whether b0 b1 form the complete UTF-8 encoding
// of a no-break space (U+00A0), insignificant under JSON5.
func IsWideSpacePair(b0, b1 byte) bool { return b0 == 0xC2 && b1 == 0xA0 }

// IsWideSpaceHead reports whether b0 b1 begin the three-byte UTF-8
// encoding of a line separator (U+2028), paragraph separator (U+2029), or
// byte order mark (U+FEFF), all insignificant under JSON5.
func IsWideSpaceHead(b0, b1 byte) bool {
	return (b0 == 0xE2 && b1 == 0x80) || (b0 == 0xEF && b1 == 0xBB)
}

// IsWideSpaceTail reports whether b2 completes the three-byte whitespace
// sequence introduced by b0.
func IsWideSpaceTail(b0, b2 byte) bool {
	if b0 == 0xE2 {
		return b2 == 0xA8 || b2 == 0xA9
	}
	return b2 == 0xBF
}

// IsDigit reports whether b is a decimal digit.
func IsDigit(b byte) bool { return '0' <= b && b <= '9' }

// IsHexDigit reports whether b is a hexadecimal digit.
func IsHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}

// IsSign reports whether b is a numeric sign.
func IsSign(b byte) bool { return b == '-' || b == '+' }

// IsExponent reports whether b marks the start of an exponent.
func IsExponent(b byte) bool { return b == 'e' || b == 'E' }

// IsNumberStart reports whether b can begin a numeric literal under
// dialect d. Signs and the decimal point are admitted by both dialects so
// that their misuse is diagnosed as a malformed number rather than an
// unrecognized value; the Infinity and NaN prefixes belong to JSON5 alone.
func IsNumberStart(b byte, d Dialect) bool {
	if IsDigit(b) || IsSign(b) || b == '.' {
		return true
	}
	return d == JSON5 && (b == 'I' || b == 'N')
}

// IsStringStart reports whether b opens a string literal under dialect d.
// Single quotes belong to JSON5 alone.
func IsStringStart(b byte, d Dialect) bool {
	return b == '"' || (b == '\'' && d == JSON5)
}

// IsCommentStart reports whether b can begin a comment under dialect d.
// Comments belong to JSON5 alone.
func IsCommentStart(b byte, d Dialect) bool { return b == '/' && d == JSON5 }

// IsIdentStart reports whether b can begin an unquoted identifier key.
// Identifiers approximate the ECMAScript 5.1 grammar over ASCII; a
// backslash admits a \uXXXX escape at any identifier position.
func IsIdentStart(b byte) bool {
	return b == '$' || b == '_' || b == '\\' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// IsIdentPart reports whether b can continue an unquoted identifier key.
func IsIdentPart(b byte) bool { return IsIdentStart(b) || IsDigit(b) }

// ReservedWord returns the reserved word introduced by b under dialect d,
// or "" if b does not begin one. The words true, false and null belong to
// both dialects, Infinity and NaN to JSON5 alone. Matching the remaining
// bytes of the word is the caller's concern.
func ReservedWord(b byte, d Dialect) string {
	switch b {
	case 't':
		return "true"
	case 'f':
		return "false"
	case 'n':
		return "null"
	case 'I':
		if d == JSON5 {
			return "Infinity"
		}
	case 'N':
		if d == JSON5 {
			return "NaN"
		}
	}
	return ""
}
