// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package jwcc accepts JSON With Commas and Comments (JWCC) as defined by
// https://nigeltao.github.io/blog/2021/json-with-commas-comments.html
//
// The input is standardized to plain JSON and then handed to the strict
// parser or streaming reader of package jstream. Standardization replaces
// comments and trailing commas with whitespace, so the locations reported in
// errors match the original input.
//
// Standardization requires the complete input in memory, so the streaming
// reader returned by NewReader bounds the size of the tree it builds but not
// the size of the buffered text.
package jwcc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/creachadair/jstream"
	"github.com/tailscale/hujson"
)

// Standardize reads all of r and returns its content converted to standard
// JSON. Comments and trailing commas are replaced by spaces.
func Standardize(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("jwcc: %w", err)
	}
	return std, nil
}

// Parse parses a JWCC text from r as jstream.Parse.
func Parse(r io.Reader) (jstream.Value, error) {
	std, err := Standardize(r)
	if err != nil {
		return nil, err
	}
	return jstream.Parse(bytes.NewReader(std))
}

// NewReader returns a streaming reader for the JWCC text in r, as
// jstream.NewReader.
func NewReader(r io.Reader) (jstream.Item, error) {
	std, err := Standardize(r)
	if err != nil {
		return jstream.Item{}, err
	}
	return jstream.NewReader(bytes.NewReader(std))
}
