// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jstream

// A writer is the state shared by ObjectWriter and ArrayWriter.
//
// Each writer owns its enclosing delimiters: the opening delimiter is written
// when the writer is created, the closing delimiter when it is closed. A
// writer that has an open nested writer refuses further output until the
// nested writer is closed.
type writer struct {
	e      *Encoder
	parent *writer
	indent string // indentation of the line holding the opening delimiter
	close  byte   // closing delimiter
	single bool   // render on one line
	n      int    // number of elements written
	child  bool   // a nested writer is open
	closed bool
}

func newWriter(e *Encoder, parent *writer, indent string, open, close byte) writer {
	e.w.WriteByte(open)
	w := writer{e: e, parent: parent, indent: indent, close: close}
	if parent != nil {
		w.single = parent.single
		parent.child = true
	}
	return w
}

func (w *writer) check() error {
	if w.closed {
		return usageError("Cannot write to a closed writer")
	} else if w.child {
		return usageError("Cannot write while a nested writer is open")
	}
	return nil
}

// begin writes the separator preceding the next element.
func (w *writer) begin() error {
	if err := w.check(); err != nil {
		return err
	}
	if w.single {
		if w.n > 0 {
			w.e.w.WriteString(", ")
		}
	} else {
		if w.n > 0 {
			w.e.w.WriteString(",\n")
		} else {
			w.e.w.WriteByte('\n')
		}
		w.e.w.WriteString(w.inner())
	}
	w.n++
	return nil
}

// inner returns the indentation of the elements of w.
func (w *writer) inner() string { return w.indent + w.e.unit }

func (w *writer) setSingleLine() error {
	if err := w.check(); err != nil {
		return err
	} else if w.n != 0 {
		return usageError("Cannot change line mode after the first element")
	}
	w.single = true
	return nil
}

func (w *writer) writeValue(v Value) error {
	if w.single {
		return w.e.writeInline(v)
	}
	return w.e.writeValue(v, w.inner())
}

func (w *writer) closeWriter() error {
	if w.closed {
		return usageError("Writer is already closed")
	} else if w.child {
		return usageError("Cannot close a writer while a nested writer is open")
	}
	w.closed = true
	if w.n > 0 && !w.single {
		w.e.w.WriteByte('\n')
		w.e.w.WriteString(w.indent)
	}
	w.e.w.WriteByte(w.close)
	if w.parent != nil {
		w.parent.child = false
		return nil
	}

	// This is the root writer: terminate the last line and flush.
	w.e.active = false
	w.e.w.WriteByte('\n')
	return w.e.Flush()
}

// An ObjectWriter pushes the members of a JSON object to an Encoder one at a
// time. Every ObjectWriter must be closed exactly once; closing writes the
// closing brace. An object with no members renders as {}.
type ObjectWriter struct{ writer }

// An ArrayWriter pushes the elements of a JSON array to an Encoder one at a
// time. Every ArrayWriter must be closed exactly once; closing writes the
// closing bracket. An array with no elements renders as [].
//
// Unlike Encode, an ArrayWriter renders one element per line unless
// SetSingleLine is called.
type ArrayWriter struct{ writer }

// Object begins a root object. The returned writer must be closed, which
// terminates the output with a newline and flushes it.
func (e *Encoder) Object() (*ObjectWriter, error) {
	if e.active {
		return nil, usageError("A streaming writer is already open")
	}
	e.active = true
	return &ObjectWriter{newWriter(e, nil, "", '{', '}')}, nil
}

// Array begins a root array. The returned writer must be closed, which
// terminates the output with a newline and flushes it.
func (e *Encoder) Array() (*ArrayWriter, error) {
	if e.active {
		return nil, usageError("A streaming writer is already open")
	}
	e.active = true
	return &ArrayWriter{newWriter(e, nil, "", '[', ']')}, nil
}

// SetSingleLine renders o on a single line, with members separated by ", ".
// Writers nested inside o inherit this mode. It must be called before the
// first member is written.
func (o *ObjectWriter) SetSingleLine() error { return o.setSingleLine() }

// Close writes the closing brace of o. If o is a root writer, the output is
// also terminated with a newline and flushed.
func (o *ObjectWriter) Close() error { return o.closeWriter() }

func (o *ObjectWriter) name(name string) error {
	if err := o.begin(); err != nil {
		return err
	}
	o.e.writeString(name)
	o.e.w.WriteString(": ")
	return nil
}

// Write writes a member with the given name and value.
func (o *ObjectWriter) Write(name string, v Value) error {
	if err := o.name(name); err != nil {
		return err
	}
	return o.writeValue(v)
}

// WriteFor writes a member named by p, after checking that v has the kind
// declared by p. Untyped properties accept any value.
func (o *ObjectWriter) WriteFor(p *Property, v Value) error {
	if err := checkKind(v, p.Kind); err != nil {
		return err
	}
	return o.Write(p.Name, v)
}

// WriteString writes a member with a string value.
func (o *ObjectWriter) WriteString(name, s string) error { return o.Write(name, String(s)) }

// WriteInt writes a member with a 32-bit integer value.
func (o *ObjectWriter) WriteInt(name string, z int32) error { return o.Write(name, Int32(z)) }

// WriteLong writes a member with a 64-bit integer value.
func (o *ObjectWriter) WriteLong(name string, z int64) error { return o.Write(name, Int64(z)) }

// WriteDouble writes a member with a floating-point value.
func (o *ObjectWriter) WriteDouble(name string, f float64) error { return o.Write(name, Double(f)) }

// WriteBool writes a member with a Boolean value.
func (o *ObjectWriter) WriteBool(name string, b bool) error { return o.Write(name, Bool(b)) }

// WriteNull writes a member with the explicit null value.
func (o *ObjectWriter) WriteNull(name string) error { return o.Write(name, Null{}) }

// Object begins a nested object member with the given name. The returned
// writer must be closed before o is written to again.
func (o *ObjectWriter) Object(name string) (*ObjectWriter, error) {
	if err := o.name(name); err != nil {
		return nil, err
	}
	return &ObjectWriter{newWriter(o.e, &o.writer, o.inner(), '{', '}')}, nil
}

// Array begins a nested array member with the given name. The returned
// writer must be closed before o is written to again.
func (o *ObjectWriter) Array(name string) (*ArrayWriter, error) {
	if err := o.name(name); err != nil {
		return nil, err
	}
	return &ArrayWriter{newWriter(o.e, &o.writer, o.inner(), '[', ']')}, nil
}

// SetSingleLine renders a on a single line as [v1, v2, ...]. Writers nested
// inside a inherit this mode. It must be called before the first element is
// written.
func (a *ArrayWriter) SetSingleLine() error { return a.setSingleLine() }

// Close writes the closing bracket of a. If a is a root writer, the output is
// also terminated with a newline and flushed.
func (a *ArrayWriter) Close() error { return a.closeWriter() }

// Write writes an element with the given value.
func (a *ArrayWriter) Write(v Value) error {
	if err := a.begin(); err != nil {
		return err
	}
	return a.writeValue(v)
}

// WriteString writes a string element.
func (a *ArrayWriter) WriteString(s string) error { return a.Write(String(s)) }

// WriteInt writes a 32-bit integer element.
func (a *ArrayWriter) WriteInt(z int32) error { return a.Write(Int32(z)) }

// WriteLong writes a 64-bit integer element.
func (a *ArrayWriter) WriteLong(z int64) error { return a.Write(Int64(z)) }

// WriteDouble writes a floating-point element.
func (a *ArrayWriter) WriteDouble(f float64) error { return a.Write(Double(f)) }

// WriteBool writes a Boolean element.
func (a *ArrayWriter) WriteBool(b bool) error { return a.Write(Bool(b)) }

// WriteNull writes the explicit null as an element.
func (a *ArrayWriter) WriteNull() error { return a.Write(Null{}) }

// Object begins a nested object element. The returned writer must be closed
// before a is written to again.
func (a *ArrayWriter) Object() (*ObjectWriter, error) {
	if err := a.begin(); err != nil {
		return nil, err
	}
	return &ObjectWriter{newWriter(a.e, &a.writer, a.inner(), '{', '}')}, nil
}

// Array begins a nested array element. The returned writer must be closed
// before a is written to again.
func (a *ArrayWriter) Array() (*ArrayWriter, error) {
	if err := a.begin(); err != nil {
		return nil, err
	}
	return &ArrayWriter{newWriter(a.e, &a.writer, a.inner(), '[', ']')}, nil
}
