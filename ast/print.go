// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"fmt"
	"io"
)

// A Formatter carries the settings for pretty-printing values.
// A zero value is ready for use with default settings.
type Formatter struct{}

func (f Formatter) indent() string { return "  " }

func (f Formatter) maxLineItems() int { return 3 }

// Format renders an indented representation of v to w with default
// settings. The rendering is for inspection, not serialization: string
// payloads appear in source form with their escapes intact, every
// container member is followed by a comma, and the non-finite numbers
// print by name.
func Format(w io.Writer, v *Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatToString formats v to a string with default settings.
// In case of error in formatting, it returns an empty string.
func FormatToString(v *Value) string {
	var buf bytes.Buffer
	if Format(&buf, v) != nil {
		return ""
	}
	return buf.String()
}

// Format renders an indented representation of v to w using the settings
// from f.
func (f Formatter) Format(w io.Writer, v *Value) error {
	p := &printer{w: w}
	f.formatValue(p, v, "", "")
	return p.err
}

// A printer tracks the first write error so the formatting calls do not
// have to check each one.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) print(args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprint(p.w, args...)
	}
}

// formatValue writes a representation of v to p indented by indent.
func (f Formatter) formatValue(p *printer, v *Value, init, indent string) {
	switch {
	case v == nil:
		p.print(init, "<nil>")
	case v.kind == KindObject:
		f.formatObject(p, v, init, indent)
	case v.kind == KindArray:
		f.formatArray(p, v, init, indent)
	default:
		p.print(init, v.String())
	}
}

func (f Formatter) formatArray(p *printer, v *Value, init, indent string) {
	if f.isBoring(v) {
		p.print(init, "[")
		for i, e := range v.arr.values {
			if i > 0 {
				p.print(", ")
			}
			f.formatValue(p, e, "", "")
		}
		p.print("]")
		return
	}

	p.print(init, "[\n")
	adent := indent + f.indent()
	for _, e := range v.arr.values {
		f.formatValue(p, e, adent, adent)
		p.print(",\n")
	}
	p.print(indent, "]")
}

func (f Formatter) formatObject(p *printer, v *Value, init, indent string) {
	if f.isBoring(v) {
		p.print(init, "{")
		for i, m := range v.obj.members {
			if i > 0 {
				p.print(", ")
			}
			p.print(`"`, m.Key, `": `)
			f.formatValue(p, m.Value, "", "")
		}
		p.print("}")
		return
	}

	p.print(init, "{\n")
	mdent := indent + f.indent()
	for _, m := range v.obj.members {
		p.print(mdent, `"`, m.Key, `": `)
		f.formatValue(p, m.Value, "", mdent)
		p.print(",\n")
	}
	p.print(indent, "}")
}

// isBoring reports whether v has a simple enough structure that it can be
// rendered on one line.
func (f Formatter) isBoring(v *Value) bool {
	if v == nil {
		return true
	}
	switch v.kind {
	case KindArray:
		for i, e := range v.arr.values {
			if i >= f.maxLineItems() || !f.isBoring(e) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() == 1 {
			return f.isBoring(v.obj.members[0].Value)
		}
		return v.obj.Len() == 0
	case KindInvalid:
		return false
	}
	return true
}
