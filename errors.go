// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"unicode"
)

// ErrorKind classifies the errors reported by this package.
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	LexicalError      ErrorKind = 1 + iota // malformed literal or illegal character
	GrammarError                           // invalid token sequence
	TypeMismatchError                      // a typed read found a value of another kind
	UsageError                             // API misuse
)

var errKindStr = [...]string{
	LexicalError:      "lexical error",
	GrammarError:      "grammar error",
	TypeMismatchError: "type mismatch",
	UsageError:        "usage error",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errKindStr) || k == 0 {
		return "unknown error"
	}
	return errKindStr[k]
}

// Error is the concrete type of errors reported by the scanner, parser,
// readers, and writers. None of these errors is recoverable: after an error
// the session that reported it must be abandoned.
//
// When the error reports a mismatch between what the input should contain
// and what it does contain, Expected and Found carry the two halves of the
// message, and Message is "Expected <Expected> but encountered <Found>".
type Error struct {
	Kind     ErrorKind
	Expected string  // what was expected, or ""
	Found    string  // what was actually found, or ""
	Message  string  // the complete message
	Location LineCol // where the error occurred, if known

	err error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.Location.IsValid() {
		return fmt.Sprintf("at %s: %s", e.Location, e.Message)
	}
	return e.Message
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same kind. This permits
//
//	errors.Is(err, &jstream.Error{Kind: jstream.GrammarError})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func expectedError(kind ErrorKind, loc LineCol, expected, found string) *Error {
	return &Error{
		Kind:     kind,
		Expected: expected,
		Found:    found,
		Message:  fmt.Sprintf("Expected %s but encountered %s", expected, found),
		Location: loc,
	}
}

func customError(kind ErrorKind, loc LineCol, msg string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(msg, args...), Location: loc}
}

func usageError(msg string, args ...any) *Error {
	return customError(UsageError, LineCol{}, msg, args...)
}

// endOfText is the description of the end of the input.
const endOfText = "end of JSON text"

// describeRune renders ch as it should appear in the "encountered" half of
// an error message.
func describeRune(ch rune) string {
	switch ch {
	case '\r':
		return "carriage return"
	case '\n':
		return "newline"
	case '\t':
		return "tab"
	}
	if isControl(ch) || !unicode.IsPrint(ch) {
		return fmt.Sprintf("U+%04X", ch)
	}
	return fmt.Sprintf("'%c'", ch)
}
