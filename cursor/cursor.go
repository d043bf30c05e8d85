// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor navigates the objects and arrays of a parsed jstream.Value
// by paths of member names, offsets, and functions.
//
// Objects may hold several members with the same name. A name in a path
// always selects the first of them, as Object.Find does; the later members
// are reachable only by offset.
package cursor

import (
	"fmt"

	"github.com/creachadair/jstream"
)

// Path follows path from v, with elements as described for Cursor.Down, and
// returns the value it reaches. It reports an error if the path cannot be
// followed to its end, or if the value reached is not a T.
func Path[T jstream.Value](v jstream.Value, path ...any) (T, error) {
	c := New(v).Down(path...)
	var result T
	if err := c.Err(); err != nil {
		return result, err
	}
	r, ok := c.Value().(T)
	if !ok {
		return result, fmt.Errorf("wrong value type %T", c.Value())
	}
	return r, nil
}

// A Cursor records a position inside a jstream.Value, as the stack of values
// visited on the way down from its origin.
type Cursor struct {
	org jstream.Value
	stk []jstream.Value
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin jstream.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() jstream.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() jstream.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []jstream.Value {
	return append([]jstream.Value{c.org}, c.stk...)
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

// Down moves c along path, starting at its current value, and returns c. On
// failure c stays at the last value it reached and Err reports why.
//
// Each element of path is one of:
//
//   - a string, which requires an *jstream.Object and selects the value of
//     its first member with that name; duplicates after it are skipped
//   - an int, which requires an *jstream.Array or *jstream.Object and selects
//     the element or member value at that offset; negative offsets count
//     from the end, so -1 is the last
//   - a func(jstream.Value) (jstream.Value, error), whose result becomes the
//     next value; an error from it stops the traversal
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			o, ok := cur.(*jstream.Object)
			if !ok {
				return c.setErrorf("cannot traverse %T with %q", cur, elt)
			}
			v, ok := o.Find(t)
			if !ok {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(v)

		case int:
			switch e := cur.(type) {
			case *jstream.Array:
				i, ok := fixArrayBound(e.Len(), t)
				if !ok {
					return c.setErrorf("array index %d out of bounds (n=%d)", i, e.Len())
				}
				cur = c.push(e.At(i))
			case *jstream.Object:
				i, ok := fixArrayBound(e.Len(), t)
				if !ok {
					return c.setErrorf("object index %d out of bounds (n=%d)", i, e.Len())
				}
				cur = c.push(e.Member(i).Value)
			default:
				return c.setErrorf("cannot traverse %T with %v", cur, elt)
			}

		case func(jstream.Value) (jstream.Value, error):
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

func (c *Cursor) push(v jstream.Value) jstream.Value { c.stk = append(c.stk, v); return v }

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
