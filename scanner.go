// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// A Scanner reads lexical tokens from an input stream. A Scanner is always
// positioned on a current token; each call to Next discards that token and
// advances to the following one.
//
// A Scanner is not safe for concurrent use. Once Next has reported an error,
// the scanner reports that same error forever.
type Scanner struct {
	r   *bufio.Reader
	buf bytes.Buffer // decoded text of the current token
	tok Token
	val Value // set when tok == Literal
	err error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
	lline, lcol int // end position before the last-read rune
}

// NewScanner constructs a new lexical scanner that consumes input from r, and
// advances it to the first token of the input. If r is already a
// *bufio.Reader it is used directly.
func NewScanner(r io.Reader) (*Scanner, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &Scanner{r: br}
	if err := s.Next(); err != nil {
		return nil, err
	}
	return s, nil
}

// Next discards the current token and advances s to the next token of the
// input, or reports an error. Whitespace between tokens is skipped. At the end
// of the input the current token becomes EOF; further calls to Next leave it
// there and report no error.
func (s *Scanner) Next() error {
	if s.err != nil {
		return s.err
	} else if s.tok == EOF {
		return nil
	}
	s.buf.Reset()
	s.tok = Invalid
	s.val = nil
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, err := s.rune()
		if err == io.EOF {
			s.tok = EOF
			return nil
		} else if err != nil {
			return s.fail(fmt.Errorf("reading JSON text: %w", err))
		}

		// Discard whitespace.
		if isSpace(ch) {
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return nil
		}

		switch {
		case ch == '"':
			return s.scanString()
		case isNumStart(ch):
			return s.scanNumber(ch)
		case ch == 't':
			return s.scanName(ch, "true", Bool(true))
		case ch == 'f':
			return s.scanName(ch, "false", Bool(false))
		case ch == 'n':
			return s.scanName(ch, "null", Null{})
		}
		return s.failf("Unexpected character %s in JSON; "+
			"if that character should start a string, it must be quoted.", describeRune(ch))
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Value returns the primitive value of the current token, which is nil unless
// the current token is a Literal.
func (s *Scanner) Value() Value { return s.val }

// Err returns the error that stopped the scanner, or nil.
func (s *Scanner) Err() error { return s.err }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// describe renders the current token for the "encountered" half of an error
// message.
func (s *Scanner) describe() string {
	if s.tok == Literal {
		return describeValue(s.val)
	}
	return s.tok.String()
}

func (s *Scanner) scanString() error {
	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.expected("closing quote for string", endOfText)
		} else if err != nil {
			return s.fail(fmt.Errorf("reading JSON text: %w", err))
		}
		switch {
		case ch == '"':
			s.tok = Literal
			s.val = String(s.buf.String())
			return nil
		case ch == '\\':
			if err := s.scanEscape(); err != nil {
				return err
			}
		case ch == '\r' || ch == '\n':
			return s.expected("closing quote for string", describeRune(ch))
		case isControl(ch):
			return s.failf("Unescaped control character U+%04X in string", ch)
		default:
			s.buf.WriteRune(ch)
		}
	}
}

// scanEscape decodes one escape sequence. The leading backslash has already
// been consumed.
func (s *Scanner) scanEscape() error {
	ch, err := s.rune()
	if err == io.EOF {
		return s.expected("character escape", endOfText)
	} else if err != nil {
		return s.fail(fmt.Errorf("reading JSON text: %w", err))
	}
	if r, ok := escape.Decode(ch); ok {
		s.buf.WriteRune(r)
		return nil
	} else if ch == 'u' {
		return s.scanUnicode()
	} else if isControl(ch) {
		return s.failf("Invalid escape character code following backslash: U+%04X", ch)
	}
	return s.failf("Invalid character escape '\\%c'", ch)
}

// scanUnicode decodes the hex digits of a \u escape. A high surrogate followed
// by an escaped low surrogate is combined into a single rune; an unpaired
// surrogate decodes as U+FFFD.
func (s *Scanner) scanUnicode() error {
	r, err := s.readHex4()
	if err != nil {
		return err
	}
	if !utf16.IsSurrogate(r) {
		s.buf.WriteRune(r)
		return nil
	}
	if next, _ := s.r.Peek(2); r < 0xdc00 && string(next) == `\u` {
		s.rune()
		s.rune()
		r2, err := s.readHex4()
		if err != nil {
			return err
		}
		if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
			s.buf.WriteRune(dec)
			return nil
		}
		s.buf.WriteRune(utf8.RuneError)
		if !utf16.IsSurrogate(r2) {
			s.buf.WriteRune(r2)
		} else {
			s.buf.WriteRune(utf8.RuneError)
		}
		return nil
	}
	s.buf.WriteRune(utf8.RuneError)
	return nil
}

// readHex4 reads exactly 4 hexadecimal digits from the input.
func (s *Scanner) readHex4() (rune, error) {
	var v rune
	for range 4 {
		ch, err := s.rune()
		if err == io.EOF {
			return 0, s.expected("hexadecimal digit", endOfText)
		} else if err != nil {
			return 0, s.fail(fmt.Errorf("reading JSON text: %w", err))
		}
		d, ok := hexValue(ch)
		if !ok {
			return 0, s.expected("hexadecimal digit", describeRune(ch))
		}
		v = v<<4 | d
	}
	return v, nil
}

func (s *Scanner) scanNumber(start rune) error {
	neg := start == '-'
	if neg {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		s.buf.WriteRune(start)
		ch, err := s.rune()
		if err == io.EOF {
			return s.expected("digit following minus sign", endOfText)
		} else if err != nil {
			return s.fail(fmt.Errorf("reading JSON text: %w", err))
		} else if !isDigit(ch) {
			return s.expected("digit following minus sign", describeRune(ch))
		}
		start = ch
	}

	var acc int64
	ch := start
	for {
		s.buf.WriteRune(ch)
		next, err := s.addDigit(acc, neg, ch)
		if err != nil {
			return err
		}
		acc = next

		ch, err = s.rune()
		if err == io.EOF {
			break
		} else if err != nil {
			return s.fail(fmt.Errorf("reading JSON text: %w", err))
		} else if isDigit(ch) {
			continue
		} else if ch == '.' {
			return s.scanFraction()
		} else if isExpMark(ch) {
			return s.failScientific()
		}
		s.unrune()
		break
	}
	s.tok = Literal
	s.val = narrow(acc)
	return nil
}

// addDigit returns acc extended by the decimal digit ch, or reports an error
// if the result does not fit in 64 bits. A negative number accumulates
// downward so that the minimum int64 is representable.
func (s *Scanner) addDigit(acc int64, neg bool, ch rune) (int64, error) {
	d := int64(ch - '0')
	if neg {
		if acc < (math.MinInt64+d)/10 {
			return 0, s.failf("Negative number is too big to fit in a 64-bit integer")
		}
		return acc*10 - d, nil
	}
	if acc > (math.MaxInt64-d)/10 {
		return 0, s.failf("Number is too big to fit in a 64-bit integer")
	}
	return acc*10 + d, nil
}

// scanFraction consumes the fractional part of a number whose integer part is
// in the buffer. The decimal point has been read but not buffered. A point
// with no following digits is permitted.
func (s *Scanner) scanFraction() error {
	s.buf.WriteByte('.')
	for {
		ch, err := s.rune()
		if err == io.EOF {
			break
		} else if err != nil {
			return s.fail(fmt.Errorf("reading JSON text: %w", err))
		} else if isDigit(ch) {
			s.buf.WriteRune(ch)
			continue
		} else if isExpMark(ch) {
			return s.failScientific()
		}
		s.unrune()
		break
	}
	f, err := strconv.ParseFloat(s.buf.String(), 64)
	if err != nil {
		return s.failf("Invalid number %q: %v", s.buf.String(), err)
	}
	s.tok = Literal
	s.val = Double(f)
	return nil
}

func (s *Scanner) failScientific() error {
	return s.failf("Numbers in scientific notation aren't currently supported.")
}

// scanName scans a keyword literal whose first character has been read.
func (s *Scanner) scanName(first rune, want string, v Value) error {
	s.buf.WriteRune(first)
	wantText := strconv.Quote(want)
	for s.buf.Len() < len(want) {
		ch, err := s.rune()
		if err == io.EOF {
			return s.expected(wantText, endOfText)
		} else if err != nil {
			return s.fail(fmt.Errorf("reading JSON text: %w", err))
		}
		s.buf.WriteRune(ch)
		if !mem.HasPrefix(mem.S(want), mem.B(s.buf.Bytes())) {
			return s.expected(wantText, strconv.Quote(s.buf.String()))
		}
	}
	s.tok = Literal
	s.val = v
	return nil
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.lline, s.lcol = s.eline, s.ecol
	s.end += nb
	if ch == '\n' {
		s.eline++
		s.ecol = 0
	} else {
		s.ecol += nb
	}
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.eline, s.ecol = s.lline, s.lcol
	s.last = 0
	s.r.UnreadRune()
}

// here reports the current input position.
func (s *Scanner) here() LineCol { return LineCol{Line: s.eline + 1, Column: s.ecol} }

func (s *Scanner) expected(want, found string) error {
	return s.setErr(expectedError(LexicalError, s.here(), want, found))
}

func (s *Scanner) setErr(err error) error {
	s.err = err
	s.tok = Invalid
	s.val = nil
	return err
}

func (s *Scanner) fail(err error) error { return s.setErr(err) }

func (s *Scanner) failf(msg string, args ...any) error {
	return s.setErr(customError(LexicalError, s.here(), msg, args...))
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isControl(ch rune) bool  { return escape.IsControl(ch) }
func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpMark(ch rune) bool  { return ch == 'e' || ch == 'E' }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }

func hexValue(ch rune) (rune, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}
