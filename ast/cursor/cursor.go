// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over a parsed value tree.
package cursor

import (
	"fmt"

	"github.com/berdon/jval/ast"
)

// Path traverses a sequential path into the structure of v where path
// elements are as documented for the Cursor.Down method.  This is a
// convenience wrapper for creating a cursor, applying path, and
// retrieving its value.
func Path(v *ast.Value, path ...any) (*ast.Value, error) {
	c := New(v).Down(path...)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.Value(), nil
}

// A Cursor is a pointer that navigates into the structure of a value.
type Cursor struct {
	org *ast.Value
	stk []*ast.Value
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin *ast.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() *ast.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() *ast.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []*ast.Value {
	return append([]*ast.Value{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current value, where path elements are either strings (denoting object
// keys), integers (denoting offsets into arrays or objects), or functions
// (see below).  If the path cannot be completely consumed, traversal stops
// and an error is recorded. Use Err to recover the error.
//
// If a path element is a string, the current value must be an object, and
// the string resolves the value of the object member with that key.
//
// If a path element is an integer, the current value must be an array or
// object, and the integer resolves to an index in the array or the member
// sequence of the object. Negative indices count backward from the end
// (-1 is last, -2 second last). An error is reported if the index is out
// of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a signature
//
//	func(*ast.Value) (*ast.Value, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		if cur == nil {
			return c.setErrorf("cannot traverse nil value")
		}

		switch t := elt.(type) {
		case string:
			obj, ok := cur.ObjectOK()
			if !ok {
				return c.setErrorf("cannot traverse %v with %q", cur.Kind(), t)
			}
			v := obj.Find(t)
			if v == nil {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(v)

		case int:
			if arr, ok := cur.ArrayOK(); ok {
				i, ok := fixArrayBound(arr.Len(), t)
				if !ok {
					return c.setErrorf("array index %d out of bounds (n=%d)", t, arr.Len())
				}
				cur = c.push(arr.At(i))
			} else if obj, ok := cur.ObjectOK(); ok {
				i, ok := fixArrayBound(obj.Len(), t)
				if !ok {
					return c.setErrorf("object index %d out of bounds (n=%d)", t, obj.Len())
				}
				cur = c.push(obj.Member(i).Value)
			} else {
				return c.setErrorf("cannot traverse %v with %v", cur.Kind(), elt)
			}

		case func(*ast.Value) (*ast.Value, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v *ast.Value) *ast.Value { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
