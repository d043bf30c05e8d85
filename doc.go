// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jstream implements a JSON scanner, parser, object model,
// pretty-printer, and a streaming reader and writer for processing large
// JSON objects and arrays without holding them in memory.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON. A scanner is
// positioned on the first token of its input as soon as it is constructed;
// call Next to advance. At the end of the input the current token is EOF:
//
//	s, err := jstream.NewScanner(input)
//	for err == nil && s.Token() != jstream.EOF {
//	   log.Printf("Token: %v %v", s.Token(), s.Value())
//	   err = s.Next()
//	}
//
// Numbers without a fractional part are reported as Int32 if they fit in 32
// bits and otherwise as Int64; numbers too large for 64 bits are an error.
// Numbers with a decimal point are reported as Double. Exponents are not
// supported.
//
// # Parsing
//
// Parse reads a complete JSON text, which must be an object or an array, and
// returns its value as an *Object or *Array:
//
//	v, err := jstream.Parse(input)
//
// The concrete types of Value are String, Int32, Int64, Double, Bool, Null,
// *Object, and *Array. Objects preserve the order of their members and
// permit duplicate names; lookups return the first match.
//
// # Formatting
//
// Format and Encoder.Encode render a value as indented JSON text, followed by
// a newline. Objects and arrays are written one member or element per line,
// indented by two spaces per level, except that an array whose elements are
// all primitives or empty containers is written on a single line:
//
//	{
//	  "name": "x",
//	  "tags": [1, 2, "three"]
//	}
//
// # Streaming
//
// An ObjectReader or ArrayReader reads one member or element at a time from
// the input. A value that is itself an object or array is returned as a
// nested reader:
//
//	ar, err := jstream.NewArrayReader(input)
//	for {
//	   end, err := ar.AtEnd()
//	   if err != nil {
//	      return err
//	   } else if end {
//	      break
//	   }
//	   obj, err := ar.ReadObject()
//	   // ... read members of obj until obj.AtEnd() reports true
//	}
//
// A reader that has produced a nested reader refuses to advance until the
// nested reader reaches its end. Use Skip to discard a value entirely.
//
// An ObjectWriter or ArrayWriter, obtained from an Encoder, writes one member
// or element at a time. Every writer must be closed exactly once; closing the
// outermost writer flushes the output.
//
// # Errors
//
// Errors reported by this package have concrete type *Error, whose Kind
// distinguishes lexical, grammar, type-mismatch, and usage errors. No error
// is recoverable: after an error the reader, writer, or scanner that
// reported it must be abandoned.
package jstream
