// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines the typed value tree produced by parsing JSON and
// JSON5 source, and the parser that constructs such trees.
package ast

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Kind enumerates the kinds of value a tree node can hold.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindInvalid Kind = iota // zero or released value
	KindNull                // the null constant
	KindBool                // boolean: true or false
	KindInt                 // number: integer with no fraction or exponent
	KindFloat               // number with fraction, exponent, Infinity or NaN
	KindString              // quoted string
	KindArray               // array of values
	KindObject              // object of key/value members
)

var kindStr = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "boolean",
	KindInt:     "integer",
	KindFloat:   "float",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return kindStr[KindInvalid]
}

// A Value is a single node of a parsed tree. Each value holds exactly one
// of the kinds enumerated by Kind, fixed at construction. The zero Value
// is invalid; values come from a parse or from the constructors in this
// package.
type Value struct {
	kind   Kind
	shared bool // indestructible shared value

	b    bool
	i    int64
	f    float64
	text []byte // string payload, owned by the value
	obj  *Object
	arr  *Array
}

// Shared values, returned by every parse for the corresponding literals
// and compared by pointer identity. They are indestructible: Release skips
// them whether they are the root or a child of a released container.
var (
	Null  = &Value{kind: KindNull, shared: true}
	True  = &Value{kind: KindBool, shared: true, b: true}
	False = &Value{kind: KindBool, shared: true}

	Infinity    = &Value{kind: KindFloat, shared: true, f: math.Inf(1)}
	NegInfinity = &Value{kind: KindFloat, shared: true, f: math.Inf(-1)}
	NaN         = &Value{kind: KindFloat, shared: true, f: math.NaN()}
	NegNaN      = &Value{kind: KindFloat, shared: true, f: math.Copysign(math.NaN(), -1)}
)

// Kind reports the kind of v.
func (v *Value) Kind() Kind { return v.kind }

// IsShared reports whether v is one of the shared indestructible values.
func (v *Value) IsShared() bool { return v.shared }

func (v *Value) need(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("jval/ast: value is %v, not %v", v.kind, k))
	}
}

// Bool returns the truth value of a boolean. It panics if v is not a
// boolean; BoolOK is the non-panicking form.
func (v *Value) Bool() bool { v.need(KindBool); return v.b }

// BoolOK returns the truth value of a boolean, or false if v is not a
// boolean.
func (v *Value) BoolOK() (bool, bool) { return v.b, v.kind == KindBool }

// Int64 returns the payload of an integer. It panics if v is not an
// integer; Int64OK is the non-panicking form. Integers and floats are
// distinct kinds: Int64 panics on a float value.
func (v *Value) Int64() int64 { v.need(KindInt); return v.i }

// Int64OK returns the payload of an integer, or false if v is not an
// integer.
func (v *Value) Int64OK() (int64, bool) { return v.i, v.kind == KindInt }

// Float64 returns the payload of a float. It panics if v is not a float;
// Float64OK is the non-panicking form. Integers and floats are distinct
// kinds: Float64 panics on an integer value.
func (v *Value) Float64() float64 { v.need(KindFloat); return v.f }

// Float64OK returns the payload of a float, or false if v is not a float.
func (v *Value) Float64OK() (float64, bool) { return v.f, v.kind == KindFloat }

// Text returns the contents of a string value. The contents are as they
// appeared in the source, escape sequences included; use jval.Unescape to
// decode them. Text panics if v is not a string; TextOK is the
// non-panicking form.
func (v *Value) Text() string { v.need(KindString); return string(v.text) }

// TextOK returns the contents of a string value, or false if v is not a
// string.
func (v *Value) TextOK() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return string(v.text), true
}

// Bytes returns the contents of a string value without copying. The slice
// is owned by v: it is valid until v is released and must not be modified.
// Bytes panics if v is not a string.
func (v *Value) Bytes() []byte { v.need(KindString); return v.text }

// Object returns the object payload of v. It panics if v is not an
// object; ObjectOK is the non-panicking form.
func (v *Value) Object() *Object { v.need(KindObject); return v.obj }

// ObjectOK returns the object payload of v, or nil, false if v is not an
// object.
func (v *Value) ObjectOK() (*Object, bool) { return v.obj, v.kind == KindObject }

// Array returns the array payload of v. It panics if v is not an array;
// ArrayOK is the non-panicking form.
func (v *Value) Array() *Array { v.need(KindArray); return v.arr }

// ArrayOK returns the array payload of v, or nil, false if v is not an
// array.
func (v *Value) ArrayOK() (*Array, bool) { return v.arr, v.kind == KindArray }

// Release destroys v and everything it owns: children are released depth
// first, string payloads are dropped, and container storage is cleared.
// The shared values are indestructible; releasing one is a no-op, and a
// shared value encountered as a child is skipped. After Release, v is
// invalid and must not be used again.
func (v *Value) Release() {
	if v == nil || v.shared {
		return
	}
	switch v.kind {
	case KindObject:
		if v.obj != nil {
			for _, m := range v.obj.members {
				m.Value.Release()
				m.Value = nil
			}
			v.obj.members = nil
			v.obj.index = nil
			v.obj = nil
		}
	case KindArray:
		if v.arr != nil {
			for _, e := range v.arr.values {
				e.Release()
			}
			v.arr.values = nil
			v.arr = nil
		}
	case KindString:
		v.text = nil
	}
	v.kind = KindInvalid
	v.b, v.i, v.f = false, 0, 0
}

// Equal reports whether v and w are structurally equal: the same kind with
// equal payloads, object members compared by key without regard to order,
// array elements compared in order. Kinds never mix: an integer is not
// equal to a float of the same magnitude, and null is equal only to null.
// Two NaN payloads with the same sign are equal.
func (v *Value) Equal(w *Value) bool {
	if v == w {
		return true
	} else if v == nil || w == nil || v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == w.b
	case KindInt:
		return v.i == w.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(w.f) {
			return math.Signbit(v.f) == math.Signbit(w.f)
		}
		return v.f == w.f
	case KindString:
		return bytes.Equal(v.text, w.text)
	case KindArray:
		if v.arr.Len() != w.arr.Len() {
			return false
		}
		for i, e := range v.arr.values {
			if !e.Equal(w.arr.values[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != w.obj.Len() {
			return false
		}
		for _, m := range v.obj.members {
			if found := w.obj.Find(m.Key); found == nil || !m.Value.Equal(found) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns a short debug rendering of v: scalars render their
// contents, containers their kind and length. String contents render with
// their source escapes intact, so the result is not necessarily valid
// JSON.
func (v *Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return `"` + string(v.text) + `"`
	case KindArray:
		return fmt.Sprintf("array(len=%d)", v.arr.Len())
	case KindObject:
		return fmt.Sprintf("object(len=%d)", v.obj.Len())
	}
	return "invalid"
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		if math.Signbit(f) {
			return "-NaN"
		}
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// An Object is an insertion-ordered collection of key/value members. Keys
// are unique: setting a key already present replaces its value in place,
// keeping the member's original position.
type Object struct {
	members []*Member
	index   map[string]int
}

// A Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value *Value
}

// Field constructs a Member with the given key and value.
func Field(key string, v *Value) *Member { return &Member{Key: key, Value: v} }

// Len reports the number of members of o.
func (o *Object) Len() int { return len(o.members) }

// Find returns the value for key, or nil if no member has that key.
func (o *Object) Find(key string) *Value {
	if i, ok := o.index[key]; ok {
		return o.members[i].Value
	}
	return nil
}

// At returns the value for key. It panics if no member has that key; Find
// is the non-panicking form.
func (o *Object) At(key string) *Value {
	v := o.Find(key)
	if v == nil {
		panic(fmt.Sprintf("jval/ast: no member %q", key))
	}
	return v
}

// Set inserts or replaces the member for key. A replaced value is released
// unless it is shared. The object takes ownership of v.
func (o *Object) Set(key string, v *Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value.Release()
		o.members[i].Value = v
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, &Member{Key: key, Value: v})
}

// Keys returns the keys of o in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Member returns the i'th member of o in insertion order. It panics if i
// is out of range.
func (o *Object) Member(i int) *Member { return o.members[i] }

// An Array is an ordered sequence of values.
type Array struct {
	values []*Value
}

// Len reports the number of elements of a.
func (a *Array) Len() int { return len(a.values) }

// At returns the i'th element of a. It panics if i is out of range.
func (a *Array) At(i int) *Value { return a.values[i] }

// Append adds v to the end of a. The array takes ownership of v.
func (a *Array) Append(v *Value) { a.values = append(a.values, v) }

// Values returns the elements of a in order. The slice is shared with a
// and must not be modified by the caller.
func (a *Array) Values() []*Value { return a.values }

// NewBool returns the shared value for b.
func NewBool(b bool) *Value {
	if b {
		return True
	}
	return False
}

// NewInt constructs a fresh integer value.
func NewInt(z int64) *Value { return &Value{kind: KindInt, i: z} }

// NewFloat constructs a float value. Infinities and NaNs map to the
// corresponding shared values.
func NewFloat(f float64) *Value {
	switch {
	case math.IsInf(f, 1):
		return Infinity
	case math.IsInf(f, -1):
		return NegInfinity
	case math.IsNaN(f):
		if math.Signbit(f) {
			return NegNaN
		}
		return NaN
	}
	return &Value{kind: KindFloat, f: f}
}

// NewString constructs a fresh string value with a copy of s as contents.
func NewString(s string) *Value {
	return &Value{kind: KindString, text: []byte(s)}
}

// NewStringBytes constructs a fresh string value with a copy of text as
// contents.
func NewStringBytes(text []byte) *Value {
	return &Value{kind: KindString, text: append([]byte(nil), text...)}
}

// NewArray constructs an array value of the given elements, which it
// takes ownership of.
func NewArray(vs ...*Value) *Value {
	return &Value{kind: KindArray, arr: &Array{values: vs}}
}

// NewObject constructs an object value from the given members, applying
// the insert-or-replace rule to duplicate keys.
func NewObject(ms ...*Member) *Value {
	obj := new(Object)
	for _, m := range ms {
		obj.Set(m.Key, m.Value)
	}
	return &Value{kind: KindObject, obj: obj}
}

// ToValue converts a plain Go value to a Value. It accepts nil, bool,
// int, int64, float64, string, and *Value (returned unchanged); booleans
// and nil map to the shared values. ToValue panics for any other type.
func ToValue(v any) *Value {
	switch t := v.(type) {
	case nil:
		return Null
	case bool:
		if t {
			return True
		}
		return False
	case int:
		return NewInt(int64(t))
	case int64:
		return NewInt(t)
	case float64:
		return NewFloat(t)
	case string:
		return NewString(t)
	case *Value:
		return t
	}
	panic(fmt.Sprintf("jval/ast: cannot convert %T to a value", v))
}

// ArrayOf constructs an array value whose elements are the given values
// converted by ToValue.
func ArrayOf(vs ...any) *Value {
	elts := make([]*Value, len(vs))
	for i, v := range vs {
		elts[i] = ToValue(v)
	}
	return NewArray(elts...)
}
