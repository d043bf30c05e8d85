// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"io"
	"strings"
)

// Parse parses a complete JSON text from r and returns its value. The text
// must consist of exactly one object or array, optionally surrounded by
// whitespace. The concrete type of a successful result is *Object or *Array.
//
// In case of error, the concrete type of the error is *Error, unless reading
// from r failed.
func Parse(r io.Reader) (Value, error) {
	p, err := newParser(r)
	if err != nil {
		return nil, err
	}
	return p.parseRoot()
}

// ParseString parses a complete JSON text from s, as Parse.
func ParseString(s string) (Value, error) { return Parse(strings.NewReader(s)) }

// ParseObject parses a complete JSON text from r, which must be an object.
func ParseObject(r io.Reader) (*Object, error) {
	p, err := newParser(r)
	if err != nil {
		return nil, err
	} else if p.s.Token() != LBrace {
		return nil, p.expected("{, starting an object")
	}
	v, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	return v.(*Object), nil
}

// ParseArray parses a complete JSON text from r, which must be an array.
func ParseArray(r io.Reader) (*Array, error) {
	p, err := newParser(r)
	if err != nil {
		return nil, err
	} else if p.s.Token() != LSquare {
		return nil, p.expected("[, starting an array")
	}
	v, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	return v.(*Array), nil
}

// A parser is a recursive-descent parser over the tokens of a Scanner. Each
// parse method is entered with the scanner positioned on the first token of
// its production, and returns with the scanner positioned on the first token
// following it.
type parser struct {
	s *Scanner
}

func newParser(r io.Reader) (*parser, error) {
	s, err := NewScanner(r)
	if err != nil {
		return nil, err
	}
	return &parser{s: s}, nil
}

func (p *parser) parseRoot() (Value, error) {
	var v Value
	var err error
	switch p.s.Token() {
	case LBrace:
		v, err = p.parseObject()
	case LSquare:
		v, err = p.parseArray()
	default:
		return nil, p.expected("{ or [, starting an object or array")
	}
	if err != nil {
		return nil, err
	} else if p.s.Token() != EOF {
		return nil, p.expected(endOfText)
	}
	return v, nil
}

// parseObject consumes an object.
// Precondition: token == LBrace.
func (p *parser) parseObject() (*Object, error) {
	if err := p.s.Next(); err != nil {
		return nil, err
	}
	obj := new(Object)
	if p.s.Token() == RBrace {
		return obj, p.s.Next() // empty object
	}
	for {
		// Parse a single member: "key": value
		key, ok := p.s.Value().(String)
		if !ok {
			return nil, p.expected("string for object key")
		}
		if err := p.s.Next(); err != nil {
			return nil, err
		} else if p.s.Token() != Colon {
			return nil, p.expected("':' following object key")
		}
		if err := p.s.Next(); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Add(string(key), v)

		// Check whether we have more members (",") or are done ("}").
		switch p.s.Token() {
		case Comma:
			if err := p.s.Next(); err != nil {
				return nil, err
			}
		case RBrace:
			return obj, p.s.Next()
		default:
			return nil, p.expected("',' or '}'")
		}
	}
}

// parseArray consumes an array.
// Precondition: token == LSquare.
func (p *parser) parseArray() (*Array, error) {
	if err := p.s.Next(); err != nil {
		return nil, err
	}
	arr := new(Array)
	if p.s.Token() == RSquare {
		return arr, p.s.Next() // empty array
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Add(v)

		switch p.s.Token() {
		case Comma:
			if err := p.s.Next(); err != nil {
				return nil, err
			}
		case RSquare:
			return arr, p.s.Next()
		default:
			return nil, p.expected("',' or ']'")
		}
	}
}

// parseValue consumes a single value of any type.
func (p *parser) parseValue() (Value, error) {
	switch p.s.Token() {
	case Literal:
		v := p.s.Value()
		return v, p.s.Next()
	case LBrace:
		return p.parseObject()
	case LSquare:
		return p.parseArray()
	default:
		return nil, p.expected("primitive type, object, or array")
	}
}

// expected reports a grammar error at the current token.
func (p *parser) expected(want string) error {
	return expectedError(GrammarError, p.s.Location().First, want, p.s.describe())
}
