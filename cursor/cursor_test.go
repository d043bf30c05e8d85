// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/creachadair/jstream/cursor"
	"github.com/google/go-cmp/cmp"
)

const testJSON = `{
  "list": [
    {
      "x": 1
    },
    {
      "x": 2
    }
  ],
  "y": {
    "hello": "there"
  },
  "o": ["hi", "yourself"],
  "xyz": {
    "p": true,
    "d": true,
    "q": false
  }
}`

var cmpValues = cmp.Comparer(jstream.Equal)

func TestCursor(t *testing.T) {
	v, err := jstream.ParseString(testJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := v.(*jstream.Object)
	find := func(o *jstream.Object, key string) jstream.Value {
		t.Helper()
		v, ok := o.Find(key)
		if !ok {
			t.Fatalf("Key %q not found", key)
		}
		return v
	}
	list := find(root, "list").(*jstream.Array)
	xyz := find(root, "xyz").(*jstream.Object)

	tests := []struct {
		name string
		path []any
		want jstream.Value
		fail bool
	}{
		{"NilInput", nil, v, false},
		{"NoMatch", []any{"nonesuch"}, v, true},
		{"WrongType", []any{11}, v, true},

		{"ArrayPos", []any{"list", 1}, list.At(1), false},
		{"ArrayNeg", []any{"list", -1}, list.At(1), false},
		{"ArrayRange", []any{"o", 25}, find(root, "o"), true},
		{"ObjPath", []any{"xyz", "d"}, jstream.Bool(true), false},
		{"ObjIndex", []any{"xyz", -1}, jstream.Bool(false), false},
		{"Deep", []any{"list", 0, "x"}, jstream.Int32(1), false},

		{"FuncArray", []any{"o", testPathFunc}, jstream.Int32(2), false},
		{"FuncObj", []any{"xyz", testPathFunc}, jstream.Int32(3), false},
		{"FuncWrong", []any{"xyz", "d", testPathFunc}, find(xyz, "d"), true},
		{"BadElement", []any{3.5}, v, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cursor.New(v).Down(tc.path...)
			err := c.Err()
			if err != nil {
				if tc.fail {
					t.Logf("Got expected error: %v", err)
				} else {
					t.Fatalf("Down %+v: unexpected error: %v", tc.path, err)
				}
			} else if tc.fail {
				t.Fatalf("Down %+v: got nil, want error", tc.path)
			}
			got := c.Value()
			if diff := cmp.Diff(got, tc.want, cmpValues); diff != "" {
				t.Errorf("Down %+v: wrong result (-got, +want):\n%s", tc.path, diff)
			} else if err == nil {
				t.Logf("Found %s OK", got.JSON())
			}
		})
	}
}

func TestUpReset(t *testing.T) {
	v, err := jstream.ParseString(testJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c := cursor.New(v).Down("y", "hello")
	if err := c.Err(); err != nil {
		t.Fatalf("Down: unexpected error: %v", err)
	}
	if got, want := len(c.Path()), 3; got != want {
		t.Errorf("Path length: got %d, want %d", got, want)
	}
	if got := c.Up().Value(); got.Kind() != jstream.ObjectKind {
		t.Errorf("Up: got %v, want object", got.Kind())
	}
	c.Reset()
	if !c.AtOrigin() || c.Value() != v {
		t.Error("Reset did not return to the origin")
	}
}

func TestPath(t *testing.T) {
	v, err := jstream.ParseString(testJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, err := cursor.Path[jstream.String](v, "y", "hello")
	if err != nil {
		t.Fatalf("Path: unexpected error: %v", err)
	} else if s != "there" {
		t.Errorf("Path: got %q, want %q", s, "there")
	}
	if _, err := cursor.Path[*jstream.Array](v, "y"); err == nil {
		t.Error("Path: got nil, want type error")
	}
}

func TestDuplicateKeys(t *testing.T) {
	v, err := jstream.ParseString(`{"k": 1, "k": {"x": 2}, "k": 3}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tests := []struct {
		path []any
		want jstream.Value
	}{
		{[]any{"k"}, jstream.Int32(1)},
		{[]any{1, "x"}, jstream.Int32(2)},
		{[]any{-1}, jstream.Int32(3)},
	}
	for _, tc := range tests {
		got, err := cursor.Path[jstream.Value](v, tc.path...)
		if err != nil {
			t.Errorf("Path %v: unexpected error: %v", tc.path, err)
		} else if diff := cmp.Diff(tc.want, got, cmpValues); diff != "" {
			t.Errorf("Path %v (-want, +got):\n%s", tc.path, diff)
		}
	}

	// The name selects the first member, so the nested "x" is not reachable
	// by name.
	if _, err := cursor.Path[jstream.Value](v, "k", "x"); err == nil {
		t.Error(`Path "k", "x": got nil, want error`)
	}
}

func testPathFunc(v jstream.Value) (jstream.Value, error) {
	switch t := v.(type) {
	case *jstream.Array:
		return jstream.ToValue(t.Len()), nil
	case *jstream.Object:
		return jstream.ToValue(t.Len()), nil
	default:
		return nil, errors.New("not a thing with length")
	}
}
