// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/berdon/jval"

	"go4.org/mem"
)

// Parse parses data as a single complete document in the strict RFC 8259
// dialect. The caller owns the returned value and releases it with
// Release when no longer needed. In case of a syntax error the returned
// error has type [*jval.SyntaxError].
func Parse(data []byte) (*Value, error) {
	return ParseBuffer(jval.NewBuffer(data), jval.Config{})
}

// ParseReader parses a single complete document from r in the strict
// RFC 8259 dialect.
func ParseReader(r io.Reader) (*Value, error) {
	return ParseBuffer(jval.NewReaderBuffer(r), jval.Config{})
}

// ParseJSON5 parses data as a single complete document in the JSON5
// dialect.
func ParseJSON5(data []byte) (*Value, error) {
	return ParseBuffer(jval.NewBuffer(data), jval.Config{Dialect: jval.JSON5})
}

// ParseJSON5Reader parses a single complete document from r in the JSON5
// dialect.
func ParseJSON5Reader(r io.Reader) (*Value, error) {
	return ParseBuffer(jval.NewReaderBuffer(r), jval.Config{Dialect: jval.JSON5})
}

// ParseBuffer parses a single complete document from b under cfg. It is
// the engine the other Parse functions delegate to; the two dialects
// differ only in the decisions cfg selects at each grammar point. In case
// of a syntax error the returned error has type [*jval.SyntaxError].
func ParseBuffer(b *jval.Buffer, cfg jval.Config) (_ *Value, err error) {
	p := &parser{buf: b, dialect: cfg.Dialect}
	defer p.recoverParseError(&err)

	v := p.parseValue()
	if err := p.checkEnd(); err != nil {
		v.Release()
		return nil, err
	}
	return v, nil
}

// A parser holds the state of a single parse: the input cursor, the
// dialect, and the text arena that string payloads are interned into.
type parser struct {
	buf     *jval.Buffer
	dialect jval.Dialect

	scratch bytes.Buffer      // transient text of the current token
	tbuf    [][]byte          // arena for interned string payloads
	keys    map[string]string // repeated object keys share one copy
}

// Internal parse errors are reported by panicking with a *jval.SyntaxError
// value, unwound here at the entry points.
func (p *parser) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		if err, ok := serr.(*jval.SyntaxError); ok {
			*errp = err
		} else {
			panic(serr)
		}
	}
}

// fail panics with a syntax error of the given kind at the current
// position, carrying cause in its wrap chain.
func (p *parser) fail(kind, cause error) {
	panic(&jval.SyntaxError{Offset: p.buf.Pos(), Err: fmt.Errorf("%w: %w", kind, cause)})
}

// failf panics with a syntax error of the given kind at the current
// position, formatting a detail message.
func (p *parser) failf(kind error, msg string, args ...any) {
	err := fmt.Errorf("%w: "+msg, append([]any{kind}, args...)...)
	panic(&jval.SyntaxError{Offset: p.buf.Pos(), Err: err})
}

// readByte consumes the next byte, failing with kind if none is available.
func (p *parser) readByte(kind error) byte {
	ch, err := p.buf.ReadByte()
	if err != nil {
		p.fail(kind, err)
	}
	return ch
}

// peekOpt returns the next byte without consuming it; ok is false at the
// end of input. Read failures are reported with kind.
func (p *parser) peekOpt(kind error) (byte, bool) {
	ch, err := p.buf.Peek()
	if err == io.EOF {
		return 0, false
	} else if err != nil {
		p.fail(kind, err)
	}
	return ch, true
}

// skip discards n bytes already seen through the lookahead window.
func (p *parser) skip(n int) {
	if err := p.buf.Skip(n); err != nil {
		p.fail(jval.ErrUnexpectedToken, err)
	}
}

// checkEnd verifies that nothing but insignificant bytes remain after the
// parsed document.
func (p *parser) checkEnd() (err error) {
	defer p.recoverParseError(&err)
	p.skipInsignificant()
	if ch, ok := p.peekOpt(jval.ErrUnexpectedToken); ok {
		p.failf(jval.ErrUnexpectedToken, "unexpected %q after value", ch)
	}
	return nil
}

// skipInsignificant consumes whitespace and, under JSON5, comments and the
// multi-byte whitespace sequences. It stops quietly at the end of input.
func (p *parser) skipInsignificant() {
	for {
		ch, ok := p.peekOpt(jval.ErrParseValue)
		if !ok {
			return
		}
		if jval.IsSpace(ch, p.dialect) {
			p.readByte(jval.ErrParseValue)
			continue
		}
		if jval.IsCommentStart(ch, p.dialect) {
			p.skipComment()
			continue
		}
		if p.dialect != jval.JSON5 || !p.skipWideSpace(ch) {
			return
		}
	}
}

// skipWideSpace consumes one multi-byte JSON5 whitespace sequence
// beginning with head, or reports false if the lookahead shows head does
// not begin one. A sequence that begins but does not complete is an
// error, since none of the head bytes can begin any other token.
func (p *parser) skipWideSpace(head byte) bool {
	if !jval.IsWideSpaceStart(head) {
		return false
	}
	next, err := p.buf.PeekNext()
	if err == io.EOF {
		return false
	} else if err != nil {
		p.fail(jval.ErrParseValue, err)
	}
	if jval.IsWideSpacePair(head, next) {
		p.skip(2)
		return true
	}
	if !jval.IsWideSpaceHead(head, next) {
		return false
	}
	p.skip(2)
	tail, ok := p.peekOpt(jval.ErrUnexpectedToken)
	if !ok || !jval.IsWideSpaceTail(head, tail) {
		p.failf(jval.ErrUnexpectedToken, "incomplete whitespace sequence")
	}
	p.readByte(jval.ErrUnexpectedToken)
	return true
}

// skipComment consumes a // line comment through its newline or the end
// of input, or a /* block comment through its terminator.
// Precondition: the next byte is '/'.
func (p *parser) skipComment() {
	next, err := p.buf.PeekNext()
	if err != nil {
		p.fail(jval.ErrUnexpectedToken, err)
	}
	switch next {
	case '/':
		p.skip(2)
		for {
			ch, err := p.buf.ReadByte()
			if err == io.EOF {
				return // input may end inside a line comment
			} else if err != nil {
				p.fail(jval.ErrUnexpectedToken, err)
			}
			if ch == '\n' {
				return
			}
		}
	case '*':
		p.skip(2)
		for {
			// Skip cleared the last-read marker, so "/*/" cannot satisfy the
			// terminator check with its own opening star.
			prev, _ := p.buf.Last()
			ch, err := p.buf.ReadByte()
			if err == io.EOF {
				p.failf(jval.ErrUnexpectedToken, "unterminated block comment")
			} else if err != nil {
				p.fail(jval.ErrUnexpectedToken, err)
			}
			if ch == '/' && prev == '*' {
				return
			}
		}
	default:
		p.failf(jval.ErrUnexpectedToken, "invalid %q in comment", next)
	}
}

// parseValue parses a single value of any kind, skipping any insignificant
// bytes before it.
func (p *parser) parseValue() *Value {
	p.skipInsignificant()
	ch, err := p.buf.Peek()
	if err != nil {
		p.fail(jval.ErrParseValue, err)
	}
	switch {
	case ch == '{':
		return p.parseObject()
	case ch == '[':
		return p.parseArray()
	case jval.IsStringStart(ch, p.dialect):
		return &Value{kind: KindString, text: p.intern(p.parseString(ch))}
	case jval.IsNumberStart(ch, p.dialect):
		return p.parseNumber()
	}
	switch jval.ReservedWord(ch, p.dialect) {
	case "true":
		p.expectWord("true")
		return True
	case "false":
		p.expectWord("false")
		return False
	case "null":
		p.expectWord("null")
		return Null
	}
	p.failf(jval.ErrParseValue, "unexpected %q", ch)
	return nil
}

// expectWord consumes the bytes of word, whose first byte has been matched
// by the dispatch but not yet consumed, failing on the first mismatch.
func (p *parser) expectWord(word string) {
	want := mem.S(word)
	for i := 0; i < want.Len(); i++ {
		if ch := p.readByte(jval.ErrUnexpectedToken); ch != want.At(i) {
			p.failf(jval.ErrUnexpectedToken, "unknown constant (want %q)", word)
		}
	}
}

// parseObject parses an object value. Members must be separated by
// commas; a dangling comma before the closing brace is accepted under
// JSON5 only. Precondition: the next byte is '{'.
func (p *parser) parseObject() *Value {
	p.readByte(jval.ErrParseObject)
	obj := new(Object)
	v := &Value{kind: KindObject, obj: obj}
	done := false
	defer func() {
		if !done {
			v.Release()
		}
	}()

	sawComma := false
	for {
		p.skipInsignificant()
		ch, err := p.buf.Peek()
		if err != nil {
			p.fail(jval.ErrParseObject, err)
		}
		switch {
		case ch == '}':
			if sawComma && p.dialect != jval.JSON5 {
				p.failf(jval.ErrUnexpectedToken, "trailing comma")
			}
			p.readByte(jval.ErrParseObject)
			done = true
			return v
		case ch == ',':
			p.readByte(jval.ErrParseObject)
			sawComma = true
		default:
			// A comma is required between members, but the first member is
			// never checked.
			if obj.Len() > 0 && !sawComma {
				p.failf(jval.ErrUnexpectedToken, "missing comma before member")
			}
			key := p.parseKey(ch)
			p.skipInsignificant()
			if sep, ok := p.peekOpt(jval.ErrParseObject); !ok || sep != ':' {
				if !ok {
					p.failf(jval.ErrUnexpectedToken, "missing %q", ':')
				}
				p.failf(jval.ErrUnexpectedToken, "expected %q, got %q", ':', sep)
			}
			p.readByte(jval.ErrParseObject)
			obj.Set(key, p.parseValue())
			sawComma = false
		}
	}
}

// parseKey parses an object key: a quoted string, or under JSON5 an
// unquoted identifier. Precondition: the next byte is ch.
func (p *parser) parseKey(ch byte) string {
	if jval.IsStringStart(ch, p.dialect) {
		return p.internKey(p.parseString(ch))
	}
	if p.dialect == jval.JSON5 && jval.IsIdentStart(ch) {
		return p.internKey(p.parseIdent())
	}
	p.failf(jval.ErrParseObject, "expected key, got %q", ch)
	return ""
}

// parseArray parses an array value with the same comma discipline as
// parseObject. Precondition: the next byte is '['.
func (p *parser) parseArray() *Value {
	p.readByte(jval.ErrParseValue)
	arr := new(Array)
	v := &Value{kind: KindArray, arr: arr}
	done := false
	defer func() {
		if !done {
			v.Release()
		}
	}()

	sawComma := false
	for {
		p.skipInsignificant()
		ch, err := p.buf.Peek()
		if err != nil {
			p.fail(jval.ErrParseValue, err)
		}
		switch {
		case ch == ']':
			if sawComma && p.dialect != jval.JSON5 {
				p.failf(jval.ErrUnexpectedToken, "trailing comma")
			}
			p.readByte(jval.ErrParseValue)
			done = true
			return v
		case ch == ',':
			p.readByte(jval.ErrParseValue)
			sawComma = true
		default:
			if arr.Len() > 0 && !sawComma {
				p.failf(jval.ErrUnexpectedToken, "missing comma before element")
			}
			arr.Append(p.parseValue())
			sawComma = false
		}
	}
}

// parseString consumes a string literal delimited by terminal and returns
// its raw contents with the quotes removed. Escape sequences pass through
// in source form; only the parity of consecutive backslashes is tracked,
// to tell an escaped terminal from a closing one. The returned slice is
// valid until the next token is parsed. Precondition: the next byte is
// the opening terminal.
func (p *parser) parseString(terminal byte) []byte {
	p.readByte(jval.ErrParseString)
	p.scratch.Reset()
	var esc bool
	for {
		ch := p.readByte(jval.ErrParseString)
		if ch == terminal && !esc {
			return p.scratch.Bytes()
		}
		p.scratch.WriteByte(ch)
		if ch == '\\' {
			esc = !esc
		} else {
			esc = false
		}
	}
}

// parseIdent parses an unquoted JSON5 identifier key, decoding \uXXXX
// escapes to their code points. The returned slice is valid until the
// next token is parsed. Precondition: the next byte starts an identifier.
func (p *parser) parseIdent() []byte {
	p.scratch.Reset()
	for {
		ch, ok := p.peekOpt(jval.ErrParseObject)
		if !ok || !jval.IsIdentPart(ch) {
			return p.scratch.Bytes()
		}
		p.readByte(jval.ErrParseObject)
		if ch != '\\' {
			p.scratch.WriteByte(ch)
			continue
		}
		if u := p.readByte(jval.ErrParseObject); u != 'u' {
			p.failf(jval.ErrParseObject, "invalid %q escape in identifier", u)
		}
		var hex [4]byte
		if err := p.buf.Read(hex[:]); err != nil {
			p.fail(jval.ErrParseObject, err)
		}
		cp := 0
		for _, h := range hex {
			d, ok := hexVal(h)
			if !ok {
				p.failf(jval.ErrParseObject, "invalid hex digit %q in escape", h)
			}
			cp = cp<<4 | d
		}
		var enc [utf8.UTFMax]byte
		n := utf8.EncodeRune(enc[:], rune(cp))
		p.scratch.Write(enc[:n])
	}
}

// parseNumber parses a numeric literal: an optionally signed integer or
// float, a hexadecimal integer (JSON5), or the Infinity and NaN constants
// (JSON5). The literal is an integer unless a fraction, exponent,
// Infinity or NaN is seen. Precondition: the next byte begins a number
// per IsNumberStart.
func (p *parser) parseNumber() *Value {
	p.scratch.Reset()
	var neg, isFloat bool

	ch, ok := p.peekOpt(jval.ErrParseNumber)
	if !ok {
		p.failf(jval.ErrParseNumber, "missing digits")
	}
	if jval.IsSign(ch) {
		if ch == '+' && p.dialect != jval.JSON5 {
			p.failf(jval.ErrParseNumber, "invalid %q sign", ch)
		}
		neg = ch == '-'
		p.readByte(jval.ErrParseNumber)
		if ch, ok = p.peekOpt(jval.ErrParseNumber); !ok {
			p.failf(jval.ErrParseNumber, "missing digits after sign")
		}
	}

	// Infinity and NaN, bare or after a sign.
	switch jval.ReservedWord(ch, p.dialect) {
	case "Infinity":
		p.expectWord("Infinity")
		if neg {
			return NegInfinity
		}
		return Infinity
	case "NaN":
		p.expectWord("NaN")
		if neg {
			return NegNaN
		}
		return NaN
	}

	// A 0x or 0X marker switches to hexadecimal digits, with the sign held
	// aside: the integer parser does not accept the prefix.
	if ch == '0' && p.dialect == jval.JSON5 {
		if nx, err := p.buf.PeekNext(); err == nil && (nx == 'x' || nx == 'X') {
			p.skip(2)
			return p.parseHexTail(neg)
		}
	}

	if neg {
		p.scratch.WriteByte('-')
	}
	intDigits := p.readDigits(&ch, &ok)
	if hasExtraLeadingZeroes(p.scratch.Bytes()) {
		p.failf(jval.ErrParseNumber, "extra leading zeroes")
	}

	// Fractional part. A missing integer part or a bare trailing point is
	// accepted under JSON5 only.
	if ok && ch == '.' {
		p.scratch.WriteByte('.')
		p.readByte(jval.ErrParseNumber)
		fracDigits := p.readDigits(&ch, &ok)
		if p.dialect != jval.JSON5 {
			if intDigits == 0 {
				p.failf(jval.ErrParseNumber, "number cannot begin with %q", '.')
			} else if fracDigits == 0 {
				p.failf(jval.ErrParseNumber, "no digits after decimal point")
			}
		} else if intDigits == 0 && fracDigits == 0 {
			p.failf(jval.ErrParseNumber, "missing digits")
		}
		isFloat = true
	} else if intDigits == 0 {
		p.failf(jval.ErrParseNumber, "missing digits")
	}

	// Exponent. Digits are required once the marker is seen.
	if ok && jval.IsExponent(ch) {
		p.scratch.WriteByte(ch)
		p.readByte(jval.ErrParseNumber)
		if ch, ok = p.peekOpt(jval.ErrParseNumber); ok && jval.IsSign(ch) {
			p.scratch.WriteByte(ch)
			p.readByte(jval.ErrParseNumber)
		}
		if p.readDigits(&ch, &ok) == 0 {
			p.failf(jval.ErrParseNumber, "missing exponent digits")
		}
		isFloat = true
	}

	if !isFloat {
		z, err := strconv.ParseInt(p.scratch.String(), 10, 64)
		if err != nil {
			p.fail(jval.ErrParseNumber, err)
		}
		return NewInt(z)
	}
	f, err := strconv.ParseFloat(p.scratch.String(), 64)
	if err != nil {
		p.fail(jval.ErrParseNumber, err)
	}
	return NewFloat(f)
}

// readDigits consumes decimal digits into the scratch buffer, leaving ch
// and ok describing the first byte after them, and reports how many were
// consumed.
func (p *parser) readDigits(ch *byte, ok *bool) (n int) {
	for {
		c, more := p.peekOpt(jval.ErrParseNumber)
		*ch, *ok = c, more
		if !more || !jval.IsDigit(c) {
			return n
		}
		p.scratch.WriteByte(c)
		p.readByte(jval.ErrParseNumber)
		n++
	}
}

// parseHexTail parses the digits of a hexadecimal literal after the
// consumed 0x marker, applying the sign to the parsed magnitude.
func (p *parser) parseHexTail(neg bool) *Value {
	p.scratch.Reset()
	for {
		ch, ok := p.peekOpt(jval.ErrParseNumber)
		if !ok || !jval.IsHexDigit(ch) {
			break
		}
		p.scratch.WriteByte(ch)
		p.readByte(jval.ErrParseNumber)
	}
	if p.scratch.Len() == 0 {
		p.failf(jval.ErrParseNumber, "missing digits after hex marker")
	}
	u, err := strconv.ParseUint(p.scratch.String(), 16, 64)
	if err != nil {
		p.fail(jval.ErrParseNumber, err)
	}
	if u > 1<<63-1 {
		p.failf(jval.ErrParseNumber, "hex literal out of range")
	}
	z := int64(u)
	if neg {
		z = -z
	}
	return NewInt(z)
}

// hasExtraLeadingZeroes reports whether the integer part of the literal in
// buf has redundant leading zeroes.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if len(buf) > 0 && buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if len(buf) > 0 && buf[0] == '0' {
		// A leading zero is OK if it is the only digit.
		return len(buf) > 1
	}
	return false
}

func hexVal(b byte) (int, bool) {
	switch {
	case '0' <= b && b <= '9':
		return int(b - '0'), true
	case 'a' <= b && b <= 'f':
		return int(b-'a') + 10, true
	case 'A' <= b && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}

// intern copies text into the parse's text arena and returns the copy.
// Allocations are batched to reduce allocation overhead.
func (p *parser) intern(text []byte) []byte {
	const bufBlockBytes = 8192

	if len(text) >= bufBlockBytes {
		return append([]byte(nil), text...)
	}

	i := 0
	for i < len(p.tbuf) {
		if len(p.tbuf[i])+len(text) < cap(p.tbuf[i]) {
			break
		}
		i++
	}
	if i == len(p.tbuf) {
		p.tbuf = append(p.tbuf, make([]byte, 0, bufBlockBytes))
	}
	s := len(p.tbuf[i])
	p.tbuf[i] = append(p.tbuf[i], text...)
	return p.tbuf[i][s : s+len(text)]
}

// internKey returns raw as a string, sharing one copy among the repeated
// keys of a single parse.
func (p *parser) internKey(raw []byte) string {
	if c, ok := p.keys[string(raw)]; ok {
		return c
	}
	k := string(raw)
	if p.keys == nil {
		p.keys = make(map[string]string)
	}
	p.keys[k] = k
	return k
}
