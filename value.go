// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

// A Value is an arbitrary JSON value. The concrete type of a Value is one of
// String, Int32, Int64, Double, Bool, Null, *Object, or *Array; no other
// implementations are possible.
type Value interface {
	// Kind reports the kind of the value.
	Kind() Kind

	// JSON renders the value as compact JSON text.
	JSON() string

	isValue()
}

// Kind identifies the concrete type of a Value.
type Kind byte

// Constants defining the valid Kind values. AnyKind is not the kind of any
// value; it is the declared kind of an untyped Property.
const (
	AnyKind Kind = iota
	StringKind
	Int32Kind
	Int64Kind
	DoubleKind
	BoolKind
	NullKind
	ObjectKind
	ArrayKind
)

var kindStr = [...]string{
	AnyKind:    "any",
	StringKind: "string",
	Int32Kind:  "int",
	Int64Kind:  "long",
	DoubleKind: "double",
	BoolKind:   "boolean",
	NullKind:   "null",
	ObjectKind: "object",
	ArrayKind:  "array",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "invalid kind"
	}
	return kindStr[k]
}

// IsPrimitive reports whether k is the kind of a primitive (non-container)
// value.
func (k Kind) IsPrimitive() bool { return k >= StringKind && k <= NullKind }

// A String is a JSON string value.
type String string

// An Int32 is an integer value that fits in 32 bits.
type Int32 int32

// An Int64 is an integer value that requires 64 bits.
type Int64 int64

// A Double is a number with a fractional part.
type Double float64

// A Bool is a Boolean constant, true or false.
type Bool bool

// Null is the explicit null constant, distinct from an absent value.
type Null struct{}

func (String) Kind() Kind { return StringKind }
func (Int32) Kind() Kind  { return Int32Kind }
func (Int64) Kind() Kind  { return Int64Kind }
func (Double) Kind() Kind { return DoubleKind }
func (Bool) Kind() Kind   { return BoolKind }
func (Null) Kind() Kind   { return NullKind }

func (s String) JSON() string { return Quote(string(s)) }
func (z Int32) JSON() string  { return strconv.FormatInt(int64(z), 10) }
func (z Int64) JSON() string  { return strconv.FormatInt(int64(z), 10) }
func (b Bool) JSON() string   { return strconv.FormatBool(bool(b)) }
func (Null) JSON() string     { return "null" }

// JSON renders d in decimal notation. The result always contains a decimal
// point, so that it reads back as a Double. Values with no representation the
// scanner can read back (not-a-number, infinities, and magnitudes of 2^63 or
// more) render as "null".
func (d Double) JSON() string {
	s, ok := formatDouble(float64(d))
	if !ok {
		return "null"
	}
	return s
}

func (String) isValue()  {}
func (Int32) isValue()   {}
func (Int64) isValue()   {}
func (Double) isValue()  {}
func (Bool) isValue()    {}
func (Null) isValue()    {}
func (*Object) isValue() {}
func (*Array) isValue()  {}

// formatDouble renders f without an exponent, and reports false if f is not
// finite or its integer part does not fit in 64 bits. The scanner rejects an
// integer part that overflows int64, so such values cannot be read back.
func formatDouble(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= 1<<63 {
		return "", false
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, true
}

// A Member is a single name/value pair belonging to an Object.
type Member struct {
	Name  string
	Value Value
}

// An Object is an ordered collection of name/value members. The order in
// which members are added is preserved. Duplicate names are permitted; lookups
// by name report the first matching member.
//
// The zero value is an empty object ready for use.
type Object struct {
	members []Member
}

// NewObject constructs an object with the given members.
func NewObject(members ...Member) *Object {
	return &Object{members: append([]Member(nil), members...)}
}

// Field is a convenience constructor for a Member. The value is converted as
// by ToValue.
func Field(name string, value any) Member { return Member{Name: name, Value: ToValue(value)} }

// Kind satisfies the Value interface.
func (o *Object) Kind() Kind { return ObjectKind }

// JSON renders o as compact JSON text.
func (o *Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(Quote(m.Name))
		sb.WriteByte(':')
		sb.WriteString(m.Value.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// String renders o in the pretty-printed form produced by Format.
func (o *Object) String() string { return strings.TrimSuffix(FormatToString(o), "\n") }

// Len reports the number of members in o.
func (o *Object) Len() int { return len(o.members) }

// Member returns the member at offset i of o. It panics if i is out of range.
func (o *Object) Member(i int) Member { return o.members[i] }

// All returns an iterator over the names and values of o in order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, m := range o.members {
			if !yield(m.Name, m.Value) {
				return
			}
		}
	}
}

// Names returns the member names of o in order. Duplicate names are repeated.
func (o *Object) Names() []string {
	out := make([]string, len(o.members))
	for i, m := range o.members {
		out[i] = m.Name
	}
	return out
}

// Add appends a member with the given name and value to o. A nil value is
// recorded as Null.
func (o *Object) Add(name string, v Value) {
	if v == nil {
		v = Null{}
	}
	o.members = append(o.members, Member{Name: name, Value: v})
}

// AddObject appends a new empty object under name, and returns it.
func (o *Object) AddObject(name string) *Object {
	c := new(Object)
	o.Add(name, c)
	return c
}

// AddArray appends a new empty array under name, and returns it.
func (o *Object) AddArray(name string) *Array {
	c := new(Array)
	o.Add(name, c)
	return c
}

// Find returns the value of the first member of o with the given name, and
// reports whether such a member exists.
func (o *Object) Find(name string) (Value, bool) {
	for _, m := range o.members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Has reports whether o has a member with the given name.
func (o *Object) Has(name string) bool { _, ok := o.Find(name); return ok }

// IsNull reports whether o has a member with the given name whose value is
// the explicit null. It reports false for a missing member.
func (o *Object) IsNull(name string) bool {
	v, ok := o.Find(name)
	return ok && v.Kind() == NullKind
}

func (o *Object) lookup(name string, want Kind) (Value, error) {
	v, ok := o.Find(name)
	if !ok {
		return nil, usageError("No property named %q", name)
	}
	return v, checkKind(v, want)
}

// GetString returns the string value of the named member.
func (o *Object) GetString(name string) (string, error) {
	v, err := o.lookup(name, StringKind)
	if err != nil {
		return "", err
	}
	return string(v.(String)), nil
}

// GetInt returns the 32-bit integer value of the named member.
func (o *Object) GetInt(name string) (int32, error) {
	v, err := o.lookup(name, Int32Kind)
	if err != nil {
		return 0, err
	}
	return int32(v.(Int32)), nil
}

// GetLong returns the integer value of the named member. Both Int32 and Int64
// values are accepted.
func (o *Object) GetLong(name string) (int64, error) {
	v, err := o.lookup(name, Int64Kind)
	if err != nil {
		return 0, err
	}
	return asLong(v), nil
}

// GetDouble returns the numeric value of the named member. Integer values
// are converted.
func (o *Object) GetDouble(name string) (float64, error) {
	v, err := o.lookup(name, DoubleKind)
	if err != nil {
		return 0, err
	}
	return asDouble(v), nil
}

// GetBool returns the Boolean value of the named member.
func (o *Object) GetBool(name string) (bool, error) {
	v, err := o.lookup(name, BoolKind)
	if err != nil {
		return false, err
	}
	return bool(v.(Bool)), nil
}

// GetObject returns the object value of the named member.
func (o *Object) GetObject(name string) (*Object, error) {
	v, err := o.lookup(name, ObjectKind)
	if err != nil {
		return nil, err
	}
	return v.(*Object), nil
}

// GetArray returns the array value of the named member.
func (o *Object) GetArray(name string) (*Array, error) {
	v, err := o.lookup(name, ArrayKind)
	if err != nil {
		return nil, err
	}
	return v.(*Array), nil
}

// An Array is an ordered sequence of values.
//
// The zero value is an empty array ready for use.
type Array struct {
	values []Value
}

// NewArray constructs an array with the given values, converted as by ToValue.
func NewArray(vs ...any) *Array {
	a := &Array{values: make([]Value, len(vs))}
	for i, v := range vs {
		a.values[i] = ToValue(v)
	}
	return a
}

// Kind satisfies the Value interface.
func (a *Array) Kind() Kind { return ArrayKind }

// JSON renders a as compact JSON text.
func (a *Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// String renders a in the pretty-printed form produced by Format.
func (a *Array) String() string { return strings.TrimSuffix(FormatToString(a), "\n") }

// Len reports the number of elements in a.
func (a *Array) Len() int { return len(a.values) }

// At returns the element at offset i of a. It panics if i is out of range.
func (a *Array) At(i int) Value { return a.values[i] }

// All returns an iterator over the offsets and elements of a in order.
func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range a.values {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Add appends v to a. A nil value is recorded as Null.
func (a *Array) Add(v Value) {
	if v == nil {
		v = Null{}
	}
	a.values = append(a.values, v)
}

// AddObject appends a new empty object to a, and returns it.
func (a *Array) AddObject() *Object {
	c := new(Object)
	a.Add(c)
	return c
}

// AddArray appends a new empty array to a, and returns it.
func (a *Array) AddArray() *Array {
	c := new(Array)
	a.Add(c)
	return c
}

// Equal reports whether a and b are structurally equal: they have the same
// kinds and values, objects have the same members in the same order, and
// arrays have the same elements in the same order.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch t := a.(type) {
	case *Object:
		u := b.(*Object)
		if t.Len() != u.Len() {
			return false
		}
		for i, m := range t.members {
			if n := u.members[i]; m.Name != n.Name || !Equal(m.Value, n.Value) {
				return false
			}
		}
		return true
	case *Array:
		u := b.(*Array)
		if t.Len() != u.Len() {
			return false
		}
		for i, v := range t.values {
			if !Equal(v, u.values[i]) {
				return false
			}
		}
		return true
	case Double:
		x, y := float64(t), float64(b.(Double))
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	default:
		return a == b
	}
}

// ToValue converts a Go value into a Value. It accepts Value implementations
// (returned unchanged), nil (as Null), string, bool, the built-in integer
// types, float32, float64, []any, and []Member (as an object). Integers are
// narrowed to Int32 when they fit. ToValue panics for any other type.
func ToValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return Null{}
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return narrow(int64(t))
	case int8:
		return Int32(t)
	case int16:
		return Int32(t)
	case int32:
		return Int32(t)
	case int64:
		return narrow(t)
	case uint8:
		return Int32(t)
	case uint16:
		return Int32(t)
	case uint32:
		return narrow(int64(t))
	case float32:
		return Double(t)
	case float64:
		return Double(t)
	case []any:
		return NewArray(t...)
	case []Member:
		return NewObject(t...)
	default:
		panic(fmt.Sprintf("cannot convert %T to a Value", v))
	}
}

// narrow returns v as an Int32 if it fits in 32 bits, otherwise as an Int64.
func narrow(v int64) Value {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return Int32(v)
	}
	return Int64(v)
}

// checkKind reports an error if v cannot be read as the kind want. Integers
// widen to Int64 and Double; no other conversions are allowed. AnyKind
// accepts every value.
func checkKind(v Value, want Kind) error {
	got := v.Kind()
	switch {
	case want == AnyKind || got == want:
		return nil
	case want == Int64Kind && got == Int32Kind:
		return nil
	case want == DoubleKind && (got == Int32Kind || got == Int64Kind):
		return nil
	}
	return mismatchError(LineCol{}, want, v)
}

func mismatchError(loc LineCol, want Kind, got Value) *Error {
	return expectedError(TypeMismatchError, loc, want.String()+" value",
		got.Kind().String()+" "+describeValue(got))
}

// describeValue renders v for the "encountered" half of an error message.
// Containers are abbreviated.
func describeValue(v Value) string {
	switch v.(type) {
	case *Object:
		return "{...}"
	case *Array:
		return "[...]"
	default:
		return v.JSON()
	}
}

func asLong(v Value) int64 {
	switch t := v.(type) {
	case Int32:
		return int64(t)
	case Int64:
		return int64(t)
	}
	panic(fmt.Sprintf("value of kind %v is not an integer", v.Kind()))
}

func asDouble(v Value) float64 {
	switch t := v.(type) {
	case Int32:
		return float64(t)
	case Int64:
		return float64(t)
	case Double:
		return float64(t)
	}
	panic(fmt.Sprintf("value of kind %v is not a number", v.Kind()))
}
