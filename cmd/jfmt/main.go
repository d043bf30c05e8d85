// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Program jfmt pretty-prints JSON text.
//
// Usage:
//
//	jfmt [--stream] [--lenient] [--check] [--path a.0.b] [file ...]
//
// With no files, jfmt reads standard input. Each input must be a single JSON
// object or array. By default the input is parsed into a tree and formatted
// as a whole; with --stream it is copied one member or element at a time
// through the streaming reader and writer, and arrays are written one element
// per line.
//
// The --path flag selects a value inside each input before printing it. Path
// elements that parse as integers are array offsets, negative offsets
// counting from the end; other elements are object keys.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/creachadair/jstream"
	"github.com/creachadair/jstream/cursor"
	"github.com/creachadair/jstream/jwcc"
)

type options struct {
	Files   []string `arg:"" optional:"" type:"existingfile" help:"JSON files to format. If none are given, reads from stdin."`
	Stream  bool     `short:"s" help:"Copy through the streaming reader and writer without building a tree."`
	Lenient bool     `short:"l" help:"Accept comments and trailing commas (JWCC)."`
	Check   bool     `short:"c" help:"Validate the input without printing it."`
	Indent  int      `short:"n" default:"2" help:"Number of spaces per indentation level."`
	Path    string   `short:"p" help:"Print only the value at this dot-separated path of object keys and array offsets."`
}

var cli options

func main() {
	kong.Parse(&cli,
		kong.Name("jfmt"),
		kong.Description("Pretty-print JSON text."),
		kong.UsageOnError(),
	)
	if err := run(cli, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "jfmt: %v\n", err)
		os.Exit(1)
	}
}

// run formats each input named by opts to stdout, or stdin if there are none.
func run(opts options, stdin io.Reader, stdout io.Writer) error {
	if opts.Stream && opts.Path != "" {
		return errors.New("--path cannot be combined with --stream")
	}
	if len(opts.Files) == 0 {
		return opts.format("<stdin>", stdin, stdout)
	}
	for _, path := range opts.Files {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = opts.format(path, f, stdout)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (o options) format(name string, r io.Reader, w io.Writer) error {
	if o.Check {
		w = io.Discard
	}
	enc := jstream.NewEncoder(w)
	enc.SetIndent(strings.Repeat(" ", max(o.Indent, 0)))

	var err error
	if o.Stream {
		err = o.copyStream(r, enc)
	} else {
		err = o.formatTree(r, enc)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (o options) formatTree(r io.Reader, enc *jstream.Encoder) error {
	parse := jstream.Parse
	if o.Lenient {
		parse = jwcc.Parse
	}
	v, err := parse(r)
	if err != nil {
		return err
	}
	if o.Path != "" {
		v, err = cursor.Path[jstream.Value](v, splitPath(o.Path)...)
		if err != nil {
			return err
		}
	}
	return enc.Encode(v)
}

// splitPath converts a dot-separated path into cursor path elements.
func splitPath(path string) []any {
	var out []any
	for _, elt := range strings.Split(path, ".") {
		if n, err := strconv.Atoi(elt); err == nil {
			out = append(out, n)
		} else {
			out = append(out, elt)
		}
	}
	return out
}

func (o options) copyStream(r io.Reader, enc *jstream.Encoder) error {
	newReader := jstream.NewReader
	if o.Lenient {
		newReader = jwcc.NewReader
	}
	it, err := newReader(r)
	if err != nil {
		return err
	}
	if it.Object != nil {
		ow, err := enc.Object()
		if err != nil {
			return err
		}
		return copyObject(it.Object, ow)
	}
	aw, err := enc.Array()
	if err != nil {
		return err
	}
	return copyArray(it.Array, aw)
}

// copyObject copies the remaining members of or to ow, and closes ow.
func copyObject(or *jstream.ObjectReader, ow *jstream.ObjectWriter) error {
	for {
		end, err := or.AtEnd()
		if err != nil {
			return err
		} else if end {
			return ow.Close()
		}
		name, err := or.ReadPropertyName()
		if err != nil {
			return err
		}
		it, err := or.ReadPropertyValue()
		if err != nil {
			return err
		}
		switch {
		case it.Object != nil:
			var sub *jstream.ObjectWriter
			if sub, err = ow.Object(name); err == nil {
				err = copyObject(it.Object, sub)
			}
		case it.Array != nil:
			var sub *jstream.ArrayWriter
			if sub, err = ow.Array(name); err == nil {
				err = copyArray(it.Array, sub)
			}
		default:
			err = ow.Write(name, it.Value)
		}
		if err != nil {
			return err
		}
	}
}

// copyArray copies the remaining elements of ar to aw, and closes aw.
func copyArray(ar *jstream.ArrayReader, aw *jstream.ArrayWriter) error {
	for {
		end, err := ar.AtEnd()
		if err != nil {
			return err
		} else if end {
			return aw.Close()
		}
		it, err := ar.ReadValue()
		if err != nil {
			return err
		}
		switch {
		case it.Object != nil:
			var sub *jstream.ObjectWriter
			if sub, err = aw.Object(); err == nil {
				err = copyObject(it.Object, sub)
			}
		case it.Array != nil:
			var sub *jstream.ArrayWriter
			if sub, err = aw.Array(); err == nil {
				err = copyArray(it.Array, sub)
			}
		default:
			err = aw.Write(it.Value)
		}
		if err != nil {
			return err
		}
	}
}
