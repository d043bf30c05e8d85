// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/google/go-cmp/cmp"
)

func TestObjectWriter(t *testing.T) {
	var buf bytes.Buffer
	e := jstream.NewEncoder(&buf)
	ow := must(e.Object())
	ow.WriteString("name", "x")
	ow.WriteInt("n", 5)
	aw := must(ow.Array("tags"))
	aw.WriteInt(1)
	aw.WriteString("two")
	aw.Close()
	sub := must(ow.Object("sub"))
	sub.WriteNull("k")
	sub.Close()
	must(ow.Object("empty")).Close()
	ow.WriteDouble("f", 3)
	ow.WriteLong("l", 1<<40)
	ow.WriteBool("b", false)
	if err := ow.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	const want = `{
  "name": "x",
  "n": 5,
  "tags": [
    1,
    "two"
  ],
  "sub": {
    "k": null
  },
  "empty": {},
  "f": 3.0,
  "l": 1099511627776,
  "b": false
}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Output (-want, +got):\n%s", diff)
	}
}

func TestArrayWriter(t *testing.T) {
	var buf bytes.Buffer
	e := jstream.NewEncoder(&buf)
	aw := must(e.Array())
	aw.WriteInt(1)
	aw.WriteDouble(0.5)
	inner := must(aw.Array())
	inner.Close()
	ow := must(aw.Object())
	ow.Write("v", jstream.NewArray(1, 2))
	ow.Close()
	aw.WriteNull()
	if err := aw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	const want = `[
  1,
  0.5,
  [],
  {
    "v": [1, 2]
  },
  null
]
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Output (-want, +got):\n%s", diff)
	}
}

func TestEmptyWriters(t *testing.T) {
	var buf bytes.Buffer
	e := jstream.NewEncoder(&buf)
	if err := must(e.Object()).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := must(e.Array()).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got, want := buf.String(), "{}\n[]\n"; got != want {
		t.Errorf("Output: got %q, want %q", got, want)
	}
}

func TestSingleLine(t *testing.T) {
	var buf bytes.Buffer
	e := jstream.NewEncoder(&buf)
	aw := must(e.Array())
	if err := aw.SetSingleLine(); err != nil {
		t.Fatalf("SetSingleLine: %v", err)
	}
	if err := aw.WriteInt(1); err != nil {
		t.Fatalf("WriteInt: %v", err)
	}
	ow := must(aw.Object())
	if err := ow.Write("a", jstream.Int32(1)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := ow.Close(); err != nil {
		t.Fatalf("Close nested: %v", err)
	}
	if err := aw.WriteString("x"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	v := jstream.NewObject(jstream.Field("b", []any{1, []jstream.Member{jstream.Field("c", true)}}))
	if err := aw.Write(v); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	const want = `[1, {"a": 1}, "x", {"b": [1, {"c": true}]}]` + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Output (-want, +got):\n%s", diff)
	}
}

func TestWriterMatchesFormat(t *testing.T) {
	for _, input := range roundTripInputs {
		v, err := jstream.ParseString(input)
		if err != nil {
			t.Fatalf("Parse %#q: %v", input, err)
		}
		obj, ok := v.(*jstream.Object)
		if !ok {
			continue
		}
		var buf bytes.Buffer
		ow := must(jstream.NewEncoder(&buf).Object())
		for name, val := range obj.All() {
			if err := ow.Write(name, val); err != nil {
				t.Fatalf("Write %q: %v", name, err)
			}
		}
		if err := ow.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if diff := cmp.Diff(jstream.FormatToString(v), buf.String()); diff != "" {
			t.Errorf("Input %#q (-format, +writer):\n%s", input, diff)
		}
	}
}

// copyItem copies it to the writer by way of the streaming reader, without
// decoding containers.
func copyItem(t *testing.T, it jstream.Item, put func(jstream.Value) error, obj func() (*jstream.ObjectWriter, error), arr func() (*jstream.ArrayWriter, error)) {
	t.Helper()
	switch {
	case it.Object != nil:
		ow := must(obj())
		for !must(it.Object.AtEnd()) {
			name := must(it.Object.ReadPropertyName())
			copyItem(t, must(it.Object.ReadPropertyValue()),
				func(v jstream.Value) error { return ow.Write(name, v) },
				func() (*jstream.ObjectWriter, error) { return ow.Object(name) },
				func() (*jstream.ArrayWriter, error) { return ow.Array(name) })
		}
		if err := ow.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	case it.Array != nil:
		aw := must(arr())
		for !must(it.Array.AtEnd()) {
			copyItem(t, must(it.Array.ReadValue()), aw.Write, aw.Object, aw.Array)
		}
		if err := aw.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	default:
		if err := put(it.Value); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
}

func TestStreamCopy(t *testing.T) {
	for _, input := range streamInputs {
		var buf bytes.Buffer
		e := jstream.NewEncoder(&buf)
		it := must(jstream.NewReader(strings.NewReader(input)))
		copyItem(t, it, nil, e.Object, e.Array)

		want := must(jstream.ParseString(input))
		got, err := jstream.ParseString(buf.String())
		if err != nil {
			t.Fatalf("Parse output %q: %v", buf.String(), err)
		}
		if diff := cmp.Diff(want, got, cmpValues); diff != "" {
			t.Errorf("Copy %#q (-want, +got):\n%s", input, diff)
		}
	}
}

func TestWriterErrors(t *testing.T) {
	t.Run("RootActive", func(t *testing.T) {
		e := jstream.NewEncoder(new(bytes.Buffer))
		ow := must(e.Object())
		_, err := e.Array()
		checkError(t, err, jstream.UsageError, "A streaming writer is already open")
		err = e.Encode(jstream.NewArray())
		checkError(t, err, jstream.UsageError, "Cannot write a value while a streaming writer is open")

		ow.Close()
		if _, err := e.Array(); err != nil {
			t.Errorf("Array after Close: %v", err)
		}
	})
	t.Run("OpenChild", func(t *testing.T) {
		ow := must(jstream.NewEncoder(new(bytes.Buffer)).Object())
		aw := must(ow.Array("x"))
		err := ow.WriteInt("y", 1)
		checkError(t, err, jstream.UsageError, "Cannot write while a nested writer is open")
		_, err = ow.Object("z")
		checkError(t, err, jstream.UsageError, "Cannot write while a nested writer is open")
		err = ow.Close()
		checkError(t, err, jstream.UsageError, "Cannot close a writer while a nested writer is open")

		aw.Close()
		if err := ow.WriteInt("y", 1); err != nil {
			t.Errorf("WriteInt after child Close: %v", err)
		}
	})
	t.Run("Closed", func(t *testing.T) {
		aw := must(jstream.NewEncoder(new(bytes.Buffer)).Array())
		aw.Close()
		err := aw.Close()
		checkError(t, err, jstream.UsageError, "Writer is already closed")
		err = aw.WriteBool(true)
		checkError(t, err, jstream.UsageError, "Cannot write to a closed writer")
	})
	t.Run("LineMode", func(t *testing.T) {
		aw := must(jstream.NewEncoder(new(bytes.Buffer)).Array())
		aw.WriteInt(1)
		err := aw.SetSingleLine()
		checkError(t, err, jstream.UsageError, "Cannot change line mode after the first element")
	})
	t.Run("NaN", func(t *testing.T) {
		aw := must(jstream.NewEncoder(new(bytes.Buffer)).Array())
		err := aw.WriteDouble(math.NaN())
		checkError(t, err, jstream.UsageError, "Cannot encode NaN as JSON")
	})
	t.Run("TooBig", func(t *testing.T) {
		aw := must(jstream.NewEncoder(new(bytes.Buffer)).Array())
		err := aw.WriteDouble(1e19)
		checkError(t, err, jstream.UsageError, "Cannot encode 1e+19 as JSON")
	})
	t.Run("WriteFor", func(t *testing.T) {
		typ := jstream.NewObjectType("t", nil)
		p := typ.MustRegister("count", 1, jstream.Int64Kind)

		var buf bytes.Buffer
		ow := must(jstream.NewEncoder(&buf).Object())
		err := ow.WriteFor(p, jstream.String("many"))
		checkError(t, err, jstream.TypeMismatchError, `Expected long value but encountered string "many"`)

		if err := ow.WriteFor(p, jstream.Int32(3)); err != nil {
			t.Errorf("WriteFor: %v", err)
		}
		if err := ow.WriteFor(typ.Property("free"), jstream.Bool(true)); err != nil {
			t.Errorf("WriteFor untyped: %v", err)
		}
		ow.Close()
		if got, want := buf.String(), "{\n  \"count\": 3,\n  \"free\": true\n}\n"; got != want {
			t.Errorf("Output: got %q, want %q", got, want)
		}
	})
}
