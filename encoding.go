// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"strings"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	buf := escape.Quote(mem.S(src))
	return `"` + string(buf) + `"`
}

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// The input must consist of exactly one string literal, optionally
// surrounded by whitespace. Unquote reports the same errors as the Scanner
// for malformed strings.
func Unquote(src string) (string, error) {
	s, err := NewScanner(strings.NewReader(src))
	if err != nil {
		return "", err
	}
	str, ok := s.Value().(String)
	if !ok {
		return "", expectedError(LexicalError, s.Location().First, "string", s.describe())
	}
	if err := s.Next(); err != nil {
		return "", err
	} else if s.Token() != EOF {
		return "", expectedError(LexicalError, s.Location().First, endOfText, s.describe())
	}
	return string(str), nil
}
