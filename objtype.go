// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jstream

// A Property describes a named object member with a declared kind.
type Property struct {
	Name string
	ID   int  // caller-assigned identifier; -1 for an untyped property
	Kind Kind // declared kind; AnyKind for an untyped property
}

// IsTyped reports whether p was registered in an ObjectType.
func (p *Property) IsTyped() bool { return p.Kind != AnyKind }

func (p *Property) String() string {
	if p.Kind == AnyKind {
		return p.Name
	}
	return p.Name + " (" + p.Kind.String() + ")"
}

// An ObjectType is a registry mapping property names to typed Property
// descriptors, used by an ObjectReader to resolve member names. A lookup that
// misses in an ObjectType falls through to its super type, if any.
//
// Build an ObjectType once, before any reader uses it, and do not register
// further properties afterward. A nil *ObjectType is a valid empty registry.
type ObjectType struct {
	name  string
	super *ObjectType
	props map[string]*Property
}

// NewObjectType constructs an empty ObjectType with the given name, whose
// lookups fall through to super. The super type may be nil.
func NewObjectType(name string, super *ObjectType) *ObjectType {
	return &ObjectType{name: name, super: super, props: make(map[string]*Property)}
}

// Name returns the name of t.
func (t *ObjectType) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Super returns the super type of t, or nil.
func (t *ObjectType) Super() *ObjectType {
	if t == nil {
		return nil
	}
	return t.super
}

// Register adds a property with the given name, id, and kind to t, and
// returns its descriptor. It reports an error if name is already registered
// in t or any of its super types, or if kind is AnyKind or NullKind.
func (t *ObjectType) Register(name string, id int, kind Kind) (*Property, error) {
	if t == nil {
		return nil, usageError("Cannot register property %q in a nil object type", name)
	}
	if _, ok := t.Lookup(name); ok {
		return nil, usageError("Property %q is already registered in %q", name, t.name)
	}
	switch kind {
	case StringKind, Int32Kind, Int64Kind, DoubleKind, BoolKind, ObjectKind, ArrayKind:
	default:
		return nil, usageError("Invalid kind %v for property %q", kind, name)
	}
	p := &Property{Name: name, ID: id, Kind: kind}
	t.props[name] = p
	return p, nil
}

// MustRegister is as Register, but panics on error. It is intended for use
// when building schemas during program initialization.
func (t *ObjectType) MustRegister(name string, id int, kind Kind) *Property {
	p, err := t.Register(name, id, kind)
	if err != nil {
		panic(err)
	}
	return p
}

// Lookup returns the property registered under name in t or its super types,
// and reports whether it was found.
func (t *ObjectType) Lookup(name string) (*Property, bool) {
	for cur := t; cur != nil; cur = cur.super {
		if p, ok := cur.props[name]; ok {
			return p, true
		}
	}
	return nil, false
}

// Property returns the property registered under name in t or its super
// types. If there is none, it returns a new untyped property with ID -1.
func (t *ObjectType) Property(name string) *Property {
	if p, ok := t.Lookup(name); ok {
		return p
	}
	return &Property{Name: name, ID: -1, Kind: AnyKind}
}
