// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	f := jstream.Field
	tests := []struct {
		input string
		want  jstream.Value
	}{
		{`{}`, jstream.NewObject()},
		{`[]`, jstream.NewArray()},
		{"  \n[ ]\n\n", jstream.NewArray()},
		{`[1, "two", true, false, null, 2.5]`, jstream.NewArray(1, "two", true, false, nil, 2.5)},
		{`{"a": 1, "b": [2, 3000000000], "c": {"d": null}}`, jstream.NewObject(
			f("a", 1),
			f("b", []any{2, int64(3000000000)}),
			f("c", []jstream.Member{f("d", nil)}),
		)},
		{`[[[]], {"": {}}]`, jstream.NewArray(
			[]any{[]any{}},
			[]jstream.Member{f("", []jstream.Member{})},
		)},

		// Duplicate names are preserved in order.
		{`{"x": 1, "x": 2}`, jstream.NewObject(f("x", 1), f("x", 2))},
	}
	for _, test := range tests {
		got, err := jstream.ParseString(test.input)
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, got, cmpValues); diff != "" {
			t.Errorf("Parse %#q: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  jstream.ErrorKind
		want  string
	}{
		{``, jstream.GrammarError, "Expected { or [, starting an object or array but encountered end of JSON text"},
		{`42`, jstream.GrammarError, "Expected { or [, starting an object or array but encountered 42"},
		{`"x"`, jstream.GrammarError, `Expected { or [, starting an object or array but encountered "x"`},
		{`{true}`, jstream.GrammarError, "Expected string for object key but encountered true"},
		{`{,}`, jstream.GrammarError, "Expected string for object key but encountered ','"},
		{`{"a" 1}`, jstream.GrammarError, "Expected ':' following object key but encountered 1"},
		{`{"a":}`, jstream.GrammarError, "Expected primitive type, object, or array but encountered '}'"},
		{`{"a":1 "b":2}`, jstream.GrammarError, `Expected ',' or '}' but encountered "b"`},
		{`{"a":1`, jstream.GrammarError, "Expected ',' or '}' but encountered end of JSON text"},
		{`[1,]`, jstream.GrammarError, "Expected primitive type, object, or array but encountered ']'"},
		{`[1:2]`, jstream.GrammarError, "Expected ',' or ']' but encountered ':'"},
		{`["abc", ["def", 42]`, jstream.GrammarError, "Expected ',' or ']' but encountered end of JSON text"},
		{`{} []`, jstream.GrammarError, "Expected end of JSON text but encountered '['"},
		{`[] 0`, jstream.GrammarError, "Expected end of JSON text but encountered 0"},

		// Lexical errors pass through the parser unchanged.
		{`.23`, jstream.LexicalError,
			"Unexpected character '.' in JSON; if that character should start a string, it must be quoted."},
		{`[1, 2e3]`, jstream.LexicalError, "Numbers in scientific notation aren't currently supported."},
		{`{"a": tru}`, jstream.LexicalError, `Expected "true" but encountered "tru}"`},
	}
	for _, test := range tests {
		_, err := jstream.ParseString(test.input)
		var jerr *jstream.Error
		if !errors.As(err, &jerr) {
			t.Errorf("Parse %#q: got error %v, want *Error", test.input, err)
			continue
		}
		if jerr.Kind != test.kind {
			t.Errorf("Parse %#q: got kind %v, want %v", test.input, jerr.Kind, test.kind)
		}
		if !errors.Is(err, &jstream.Error{Kind: test.kind}) {
			t.Errorf("Parse %#q: errors.Is(%v) is false", test.input, test.kind)
		}
		if diff := cmp.Diff(test.want, jerr.Message); diff != "" {
			t.Errorf("Parse %#q: message (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParseErrorLocation(t *testing.T) {
	_, err := jstream.ParseString("{\n  \"a\": 1,\n  true\n}")
	if err == nil {
		t.Fatal("Parse: got nil, want error")
	}
	const want = "at 3:2: Expected string for object key but encountered true"
	if got := err.Error(); got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
}

func TestParseRoot(t *testing.T) {
	t.Run("Object", func(t *testing.T) {
		obj, err := jstream.ParseObject(strings.NewReader(`{"ok": true}`))
		if err != nil {
			t.Fatalf("ParseObject: %v", err)
		}
		if ok, err := obj.GetBool("ok"); err != nil || !ok {
			t.Errorf("GetBool: got (%v, %v), want (true, nil)", ok, err)
		}
		_, err = jstream.ParseObject(strings.NewReader(`[]`))
		checkMessage(t, err, "Expected {, starting an object but encountered '['")
	})
	t.Run("Array", func(t *testing.T) {
		arr, err := jstream.ParseArray(strings.NewReader(`[1, 2]`))
		if err != nil {
			t.Fatalf("ParseArray: %v", err)
		}
		if arr.Len() != 2 {
			t.Errorf("Len: got %d, want 2", arr.Len())
		}
		_, err = jstream.ParseArray(strings.NewReader(`{}`))
		checkMessage(t, err, "Expected [, starting an array but encountered '{'")
	})
}

// checkMessage reports an error unless err is an *Error with the given message.
func checkMessage(t *testing.T, err error, want string) {
	t.Helper()
	var jerr *jstream.Error
	if !errors.As(err, &jerr) {
		t.Errorf("Got error %v, want *Error with message %q", err, want)
	} else if jerr.Message != want {
		t.Errorf("Message: got %q, want %q", jerr.Message, want)
	}
}
