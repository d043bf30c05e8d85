// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"bufio"
	"bytes"
	"io"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// An Encoder renders JSON text to an underlying writer. Values can be written
// whole with Encode, or pushed one member or element at a time through the
// streaming writers returned by Object and Array.
//
// Output is buffered. Encode and closing a root streaming writer flush the
// buffer; otherwise call Flush.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	w      *bufio.Writer
	unit   string // per-level indentation
	active bool   // a root streaming writer is open
}

// NewEncoder constructs an Encoder that writes to w. If w is already a
// *bufio.Writer it is used directly.
func NewEncoder(w io.Writer) *Encoder {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &Encoder{w: bw, unit: "  "}
}

// SetIndent sets the string used to indent each nesting level of multi-line
// output. The default is two spaces.
func (e *Encoder) SetIndent(unit string) { e.unit = unit }

// Encode writes v followed by a newline, and flushes the output.
func (e *Encoder) Encode(v Value) error {
	if err := e.WriteValue(v); err != nil {
		return err
	}
	e.w.WriteByte('\n')
	return e.Flush()
}

// WriteValue writes v without a trailing newline. The output is not flushed.
func (e *Encoder) WriteValue(v Value) error {
	if e.active {
		return usageError("Cannot write a value while a streaming writer is open")
	}
	return e.writeValue(v, "")
}

// Flush writes any buffered output to the underlying writer.
func (e *Encoder) Flush() error { return e.w.Flush() }

// Format renders a pretty-printed representation of v to w, followed by a
// newline.
func Format(w io.Writer, v Value) error { return NewEncoder(w).Encode(v) }

// FormatToString formats v to a string as Format. In case of error in
// formatting, it returns an empty string.
func FormatToString(v Value) string {
	var buf bytes.Buffer
	if Format(&buf, v) != nil {
		return ""
	}
	return buf.String()
}

// writeValue writes a representation of v to e, where indent is the
// indentation of the line on which v begins.
func (e *Encoder) writeValue(v Value, indent string) error {
	switch t := v.(type) {
	case String:
		e.writeString(string(t))
	case Int32, Int64, Bool, Null:
		e.w.WriteString(t.JSON())
	case Double:
		return e.writeDouble(float64(t))
	case *Object:
		return e.writeObject(t, indent)
	case *Array:
		return e.writeArray(t, indent)
	default:
		return usageError("Cannot encode %T as JSON", v)
	}
	return nil
}

func (e *Encoder) writeString(s string) {
	e.w.WriteByte('"')
	e.w.Write(escape.Quote(mem.S(s)))
	e.w.WriteByte('"')
}

func (e *Encoder) writeDouble(f float64) error {
	s, ok := formatDouble(f)
	if !ok {
		return usageError("Cannot encode %v as JSON", f)
	}
	e.w.WriteString(s)
	return nil
}

func (e *Encoder) writeObject(o *Object, indent string) error {
	if o.Len() == 0 {
		e.w.WriteString("{}")
		return nil
	}
	e.w.WriteString("{\n")
	mdent := indent + e.unit
	for i, m := range o.members {
		if i > 0 {
			e.w.WriteString(",\n")
		}
		e.w.WriteString(mdent)
		e.writeString(m.Name)
		e.w.WriteString(": ")
		if err := e.writeValue(m.Value, mdent); err != nil {
			return err
		}
	}
	e.w.WriteByte('\n')
	e.w.WriteString(indent)
	e.w.WriteByte('}')
	return nil
}

func (e *Encoder) writeArray(a *Array, indent string) error {
	if a.Len() == 0 {
		e.w.WriteString("[]")
		return nil
	}
	if isFlat(a) {
		e.w.WriteByte('[')
		for i, v := range a.values {
			if i > 0 {
				e.w.WriteString(", ")
			}
			if err := e.writeValue(v, ""); err != nil {
				return err
			}
		}
		e.w.WriteByte(']')
		return nil
	}

	e.w.WriteString("[\n")
	adent := indent + e.unit
	for i, v := range a.values {
		if i > 0 {
			e.w.WriteString(",\n")
		}
		e.w.WriteString(adent)
		if err := e.writeValue(v, adent); err != nil {
			return err
		}
	}
	e.w.WriteByte('\n')
	e.w.WriteString(indent)
	e.w.WriteByte(']')
	return nil
}

// writeInline writes v entirely on one line. Used by single-line streaming
// writers, whose output must not contain line breaks.
func (e *Encoder) writeInline(v Value) error {
	switch t := v.(type) {
	case *Object:
		e.w.WriteByte('{')
		for i, m := range t.members {
			if i > 0 {
				e.w.WriteString(", ")
			}
			e.writeString(m.Name)
			e.w.WriteString(": ")
			if err := e.writeInline(m.Value); err != nil {
				return err
			}
		}
		e.w.WriteByte('}')
	case *Array:
		e.w.WriteByte('[')
		for i, v := range t.values {
			if i > 0 {
				e.w.WriteString(", ")
			}
			if err := e.writeInline(v); err != nil {
				return err
			}
		}
		e.w.WriteByte(']')
	default:
		return e.writeValue(v, "")
	}
	return nil
}

// isFlat reports whether every element of a is a primitive or an empty object
// or array, so that a can be rendered on one line.
func isFlat(a *Array) bool {
	for _, v := range a.values {
		switch t := v.(type) {
		case *Object:
			if t.Len() != 0 {
				return false
			}
		case *Array:
			if t.Len() != 0 {
				return false
			}
		}
	}
	return true
}
