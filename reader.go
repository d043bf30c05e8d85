// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import "io"

// An Item is one value read from a stream. Exactly one field is set: Value
// for a primitive, Object or Array for a nested container. A nested reader
// is positioned just inside its opening delimiter.
type Item struct {
	Value  Value
	Object *ObjectReader
	Array  *ArrayReader
}

// Kind reports the kind of the item.
func (it Item) Kind() Kind {
	switch {
	case it.Object != nil:
		return ObjectKind
	case it.Array != nil:
		return ArrayKind
	case it.Value != nil:
		return it.Value.Kind()
	}
	return AnyKind
}

// Decode returns the complete value of the item. For a nested container, the
// remainder of its reader is consumed and materialized.
func (it Item) Decode() (Value, error) {
	switch {
	case it.Object != nil:
		return it.Object.ReadAll()
	case it.Array != nil:
		return it.Array.ReadAll()
	}
	return it.Value, nil
}

type readState byte

const (
	atBeginning readState = iota // just inside the opening delimiter
	midSequence                  // after at least one item
	atEnd                        // the closing delimiter has been consumed
)

// A reader is the state shared by ObjectReader and ArrayReader. All the
// readers of a session share one Scanner.
//
// A reader that has produced a nested reader refuses to advance until the
// nested reader has reported its end. Callers must therefore finish each
// nested reader (or Skip the value instead) before continuing with its
// parent.
type reader struct {
	s      *Scanner
	parent *reader
	close  Token // RBrace or RSquare
	state  readState
	child  bool // a nested reader has not yet reached its end
	object bool // this reader reads object members
	named  bool // a member name has been read but its value has not
}

// NewReader constructs a streaming reader over the JSON text in r, which
// must be an object or an array. The result has either its Object or its
// Array field set.
func NewReader(r io.Reader) (Item, error) {
	s, err := NewScanner(r)
	if err != nil {
		return Item{}, err
	}
	switch tok := s.Token(); tok {
	case LBrace, LSquare:
		return openItem(s, nil, tok)
	}
	return Item{}, expectedError(GrammarError, s.Location().First,
		"{ or [, starting an object or array", s.describe())
}

// NewObjectReader constructs a streaming reader over the JSON text in r,
// which must be an object.
func NewObjectReader(r io.Reader) (*ObjectReader, error) {
	s, err := NewScanner(r)
	if err != nil {
		return nil, err
	} else if s.Token() != LBrace {
		return nil, expectedError(GrammarError, s.Location().First, "{, starting an object", s.describe())
	}
	rd, err := openReader(s, nil, RBrace)
	if err != nil {
		return nil, err
	}
	return &ObjectReader{reader: rd}, nil
}

// NewArrayReader constructs a streaming reader over the JSON text in r,
// which must be an array.
func NewArrayReader(r io.Reader) (*ArrayReader, error) {
	s, err := NewScanner(r)
	if err != nil {
		return nil, err
	} else if s.Token() != LSquare {
		return nil, expectedError(GrammarError, s.Location().First, "[, starting an array", s.describe())
	}
	rd, err := openReader(s, nil, RSquare)
	if err != nil {
		return nil, err
	}
	return &ArrayReader{reader: rd}, nil
}

// openItem consumes the opening delimiter tok and returns an item holding a
// reader for the container it opens. On error the item is empty.
func openItem(s *Scanner, parent *reader, tok Token) (Item, error) {
	if tok == LBrace {
		rd, err := openReader(s, parent, RBrace)
		if err != nil {
			return Item{}, err
		}
		return Item{Object: &ObjectReader{reader: rd}}, nil
	}
	rd, err := openReader(s, parent, RSquare)
	if err != nil {
		return Item{}, err
	}
	return Item{Array: &ArrayReader{reader: rd}}, nil
}

// openReader consumes an opening delimiter and returns a reader for the
// contents it opens.
func openReader(s *Scanner, parent *reader, close Token) (reader, error) {
	if err := s.Next(); err != nil {
		return reader{}, err
	}
	if parent != nil {
		parent.child = true
	}
	return reader{s: s, parent: parent, close: close, object: close == RBrace}, nil
}

// AtEnd reports whether the closing delimiter of r has been reached. When it
// is, AtEnd consumes the delimiter; calling AtEnd again after that reports
// true without further effect.
//
// When r is a root reader, reaching its end also checks that nothing but
// whitespace follows in the input.
func (r *reader) AtEnd() (bool, error) {
	if r.state == atEnd {
		return true, nil
	} else if err := r.ready(); err != nil {
		return false, err
	} else if r.named {
		return false, nil // a value is pending
	}

	switch tok := r.s.Token(); {
	case tok == r.close:
		if err := r.s.Next(); err != nil {
			return false, err
		}
		r.state = atEnd
		if r.parent != nil {
			r.parent.child = false
		} else if r.s.Token() != EOF {
			return false, r.expected(endOfText)
		}
		return true, nil

	case r.state == midSequence && tok != Comma:
		return false, r.expected(r.sepLabel())
	}
	return false, nil
}

// ready reports an error if r cannot currently advance.
func (r *reader) ready() error {
	if err := r.s.Err(); err != nil {
		return err
	} else if r.child {
		return usageError("Cannot advance a reader while a nested reader is unfinished")
	}
	return nil
}

// beginItem consumes the separator preceding the next item, if any.
func (r *reader) beginItem() error {
	if err := r.ready(); err != nil {
		return err
	}
	switch r.state {
	case atEnd:
		if r.object {
			return usageError("No more name/value pairs in object")
		}
		return usageError("No more elements in array")
	case atBeginning:
		r.state = midSequence
		return nil
	}
	if r.s.Token() != Comma {
		return r.expected(r.sepLabel())
	}
	return r.s.Next()
}

// beginValue prepares to read the next value: for an array, the next
// element; for an object, the value of the member whose name was just read.
func (r *reader) beginValue() error {
	if !r.object {
		return r.beginItem()
	}
	if err := r.ready(); err != nil {
		return err
	} else if r.state == atEnd {
		return usageError("No more name/value pairs in object")
	} else if !r.named {
		return usageError("Cannot read a property value before its name")
	}
	r.named = false
	return nil
}

// readName reads a member name and the colon following it.
func (r *reader) readName() (string, error) {
	if r.named {
		return "", usageError("Cannot read a property name before the previous value")
	}
	if err := r.beginItem(); err != nil {
		return "", err
	}
	key, ok := r.s.Value().(String)
	if !ok {
		return "", r.expected("string for object key")
	}
	if err := r.s.Next(); err != nil {
		return "", err
	} else if r.s.Token() != Colon {
		return "", r.expected("':' following object key")
	} else if err := r.s.Next(); err != nil {
		return "", err
	}
	r.named = true
	return string(key), nil
}

// ReadValue reads the next value. If the value is an object or array, the
// result holds a nested reader for it.
func (r *reader) ReadValue() (Item, error) {
	if err := r.beginValue(); err != nil {
		return Item{}, err
	}
	return r.readCurrent()
}

// readCurrent reads the value beginning at the current token.
func (r *reader) readCurrent() (Item, error) {
	switch r.s.Token() {
	case Literal:
		v := r.s.Value()
		if err := r.s.Next(); err != nil {
			return Item{}, err
		}
		return Item{Value: v}, nil
	case LBrace, LSquare:
		return openItem(r.s, r, r.s.Token())
	}
	return Item{}, r.expected("primitive type, object, or array")
}

// readPrimitive reads the next value, which must be a primitive of kind want.
func (r *reader) readPrimitive(want Kind) (Value, error) {
	if err := r.beginValue(); err != nil {
		return nil, err
	}
	loc := r.s.Location().First
	if r.s.Token() != Literal {
		return nil, expectedError(TypeMismatchError, loc, want.String()+" value", r.s.describe())
	}
	v := r.s.Value()
	if err := checkKind(v, want); err != nil {
		return nil, mismatchError(loc, want, v)
	}
	return v, r.s.Next()
}

// ReadString reads the next value, which must be a string.
func (r *reader) ReadString() (string, error) {
	v, err := r.readPrimitive(StringKind)
	if err != nil {
		return "", err
	}
	return string(v.(String)), nil
}

// ReadInt reads the next value, which must be an integer that fits in 32 bits.
func (r *reader) ReadInt() (int32, error) {
	v, err := r.readPrimitive(Int32Kind)
	if err != nil {
		return 0, err
	}
	return int32(v.(Int32)), nil
}

// ReadLong reads the next value, which must be an integer.
func (r *reader) ReadLong() (int64, error) {
	v, err := r.readPrimitive(Int64Kind)
	if err != nil {
		return 0, err
	}
	return asLong(v), nil
}

// ReadDouble reads the next value, which must be a number. Integers are
// converted.
func (r *reader) ReadDouble() (float64, error) {
	v, err := r.readPrimitive(DoubleKind)
	if err != nil {
		return 0, err
	}
	return asDouble(v), nil
}

// ReadBool reads the next value, which must be true or false.
func (r *reader) ReadBool() (bool, error) {
	v, err := r.readPrimitive(BoolKind)
	if err != nil {
		return false, err
	}
	return bool(v.(Bool)), nil
}

// ReadNull reads the next value, which must be null.
func (r *reader) ReadNull() error {
	_, err := r.readPrimitive(NullKind)
	return err
}

// ReadObject reads the next value, which must be an object, and returns a
// nested reader for its members.
func (r *reader) ReadObject() (*ObjectReader, error) {
	if err := r.beginContainer(LBrace, ObjectKind); err != nil {
		return nil, err
	}
	it, err := r.readCurrent()
	return it.Object, err
}

// ReadArray reads the next value, which must be an array, and returns a
// nested reader for its elements.
func (r *reader) ReadArray() (*ArrayReader, error) {
	if err := r.beginContainer(LSquare, ArrayKind); err != nil {
		return nil, err
	}
	it, err := r.readCurrent()
	return it.Array, err
}

// beginContainer prepares to read the next value, and checks that it begins
// with the opening delimiter tok.
func (r *reader) beginContainer(tok Token, want Kind) error {
	if err := r.beginValue(); err != nil {
		return err
	} else if r.s.Token() != tok {
		return expectedError(TypeMismatchError, r.s.Location().First, want.String()+" value", r.s.describe())
	}
	return nil
}

// Skip reads and discards the next value, including the complete contents of
// an object or array.
func (r *reader) Skip() error {
	it, err := r.ReadValue()
	if err != nil {
		return err
	}
	switch {
	case it.Object != nil:
		return it.Object.drain()
	case it.Array != nil:
		return it.Array.drain()
	}
	return nil
}

// drain consumes the remaining items of r through its closing delimiter.
func (r *reader) drain() error {
	for {
		if end, err := r.AtEnd(); err != nil || end {
			return err
		}
		if r.object {
			if _, err := r.readName(); err != nil {
				return err
			}
		}
		if err := r.Skip(); err != nil {
			return err
		}
	}
}

// sepLabel describes the tokens that may follow an item of r.
func (r *reader) sepLabel() string {
	if r.object {
		return "',' or '}'"
	}
	return "',' or ']'"
}

func (r *reader) expected(want string) error {
	return expectedError(GrammarError, r.s.Location().First, want, r.s.describe())
}

// An ObjectReader reads the members of a JSON object one at a time.
//
// To read a member, call ReadPropertyName or ReadProperty, then exactly one
// of the value methods (ReadPropertyValue, ReadString, ReadInt, ReadLong,
// ReadDouble, ReadBool, ReadNull, ReadObject, ReadArray, Skip). Call AtEnd
// before each member to find out whether the object is finished.
type ObjectReader struct {
	reader
	typ *ObjectType
}

// SetType attaches the property registry used by ReadProperty. A nil type
// is the empty registry, in which every property is untyped.
func (o *ObjectReader) SetType(t *ObjectType) { o.typ = t }

// Type returns the property registry attached to o, or nil.
func (o *ObjectReader) Type() *ObjectType { return o.typ }

// ReadPropertyName reads the name of the next member and the colon that
// follows it. It reports an error if o is at its end.
func (o *ObjectReader) ReadPropertyName() (string, error) { return o.readName() }

// ReadProperty reads the name of the next member, as ReadPropertyName, and
// resolves it in the registry attached to o. A name not registered there
// yields an untyped property with ID -1.
func (o *ObjectReader) ReadProperty() (*Property, error) {
	name, err := o.readName()
	if err != nil {
		return nil, err
	}
	return o.typ.Property(name), nil
}

// ReadPropertyValue reads the value of the member whose name was just read.
func (o *ObjectReader) ReadPropertyValue() (Item, error) { return o.ReadValue() }

// ReadValueFor reads the value of the member whose name was just read, and
// checks it against the kind declared by p. Untyped properties accept any
// value.
func (o *ObjectReader) ReadValueFor(p *Property) (Item, error) {
	loc := o.s.Location().First
	it, err := o.ReadValue()
	if err != nil {
		return it, err
	}
	if got := it.Kind(); p.Kind != AnyKind && got != p.Kind {
		if it.Value == nil || checkKind(it.Value, p.Kind) != nil {
			return Item{}, expectedError(TypeMismatchError, loc,
				p.Kind.String()+" value for property "+Quote(p.Name), got.String()+" value")
		}
	}
	return it, nil
}

// ReadAll reads the remaining members of o and returns them as an object.
func (o *ObjectReader) ReadAll() (*Object, error) {
	obj := new(Object)
	for {
		end, err := o.AtEnd()
		if err != nil {
			return nil, err
		} else if end {
			return obj, nil
		}
		name, err := o.ReadPropertyName()
		if err != nil {
			return nil, err
		}
		it, err := o.ReadPropertyValue()
		if err != nil {
			return nil, err
		}
		v, err := it.Decode()
		if err != nil {
			return nil, err
		}
		obj.Add(name, v)
	}
}

// An ArrayReader reads the elements of a JSON array one at a time. Call
// AtEnd before each element to find out whether the array is finished.
type ArrayReader struct {
	reader
}

// ReadAll reads the remaining elements of a and returns them as an array.
func (a *ArrayReader) ReadAll() (*Array, error) {
	arr := new(Array)
	for {
		end, err := a.AtEnd()
		if err != nil {
			return nil, err
		} else if end {
			return arr, nil
		}
		it, err := a.ReadValue()
		if err != nil {
			return nil, err
		}
		v, err := it.Decode()
		if err != nil {
			return nil, err
		}
		arr.Add(v)
	}
}
