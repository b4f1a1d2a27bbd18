// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package lex implements a lexical scanner and a structural parser for JSON
// text held in memory. It is the tokenizing collaborator of the flat token
// navigator: it owns string and number grammar, UTF-8 validation, and bracket
// matching.
package lex

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from a byte slice. Each call to Next
// advances the scanner to the next token, or reports an error.
//
// The text of each token is a view of the input; the scanner never copies or
// modifies the input.
type Scanner struct {
	src []byte
	tok Token
	err error

	pos, end int // start and end offsets of current token

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from src.
func NewScanner(src []byte) *Scanner { return &Scanner{src: src} }

// Next advances s to the next token of the input, and reports whether a token
// is available. When Next returns false, Err reports the reason: nil at the
// end of the input, otherwise a lexical error.
func (s *Scanner) Next() bool {
	s.err = nil
	s.tok = Invalid

	// Discard whitespace.
	for s.end < len(s.src) && isSpace(s.src[s.end]) {
		if s.src[s.end] == '\n' {
			s.eline++
			s.ecol = -1
		}
		s.advance(1)
	}
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
	if s.end >= len(s.src) {
		s.err = io.EOF
		return false
	}

	ch := s.src[s.end]
	s.advance(1)

	// Handle punctuation.
	if t, ok := selfDelim(ch); ok {
		s.tok = t
		return true
	}

	var err error
	switch {
	case isNumStart(ch):
		err = s.scanNumber(ch)
	case ch == '"':
		err = s.scanString()
	case ch == 't':
		err = s.scanName(True, "true")
	case ch == 'f':
		err = s.scanName(False, "false")
	case ch == 'n':
		err = s.scanName(Null, "null")
	default:
		err = s.failf("unexpected %q", ch)
	}
	if err != nil {
		s.tok = Invalid
		return false
	}
	return true
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next, or nil if the input was fully
// consumed without error.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// Text returns the undecoded text of the current token. The return value is
// a view of the input and must not be modified.
func (s *Scanner) Text() []byte { return s.src[s.pos:s.end] }

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

func (s *Scanner) scanString() error {
	for {
		if s.end >= len(s.src) {
			return s.fail(io.ErrUnexpectedEOF)
		}
		switch b := s.src[s.end]; {
		case b == '"':
			s.advance(1)
			s.tok = String
			return nil

		case b == '\\':
			s.advance(1)
			if s.end >= len(s.src) {
				return s.failf("incomplete escape: %w", io.ErrUnexpectedEOF)
			}
			e := s.src[s.end]
			s.advance(1)
			switch e {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				if err := s.readHex4(); err != nil {
					return s.failf("invalid Unicode escape: %w", err)
				}
			default:
				return s.failf("invalid %q after escape", e)
			}

		case b < ' ':
			return s.failf("unescaped control %q", b)

		case b < utf8.RuneSelf:
			s.advance(1)

		default:
			r, n := utf8.DecodeRune(s.src[s.end:])
			if r == utf8.RuneError && n <= 1 {
				return s.failf("invalid UTF-8 at offset %d", s.end)
			}
			s.advance(n)
		}
	}
}

func (s *Scanner) scanNumber(start byte) error {
	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		if _, err := s.require(isDigit, "digit"); err != nil {
			return err
		}
	}

	// Consume the remainder of an integer.
	s.readWhile(isDigit)

	// Check for extra leading zeroes, which are disallowed by RFC 8259.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.Text()) {
		return s.failf("extra leading zeroes")
	}
	s.tok = Integer

	// If a decimal point follows, consume a fractional part.
	if s.peek() == '.' {
		s.advance(1)
		if s.readWhile(isDigit) == 0 {
			return s.failf("no digits after decimal point")
		}
		s.tok = Number
	}

	// If an exponent follows, consume it.
	if ch := s.peek(); ch != 'E' && ch != 'e' {
		return nil
	}
	s.advance(1)
	ch, err := s.require(isExpStart, "sign or digit")
	if err != nil {
		return err
	}
	if nr := s.readWhile(isDigit); nr == 0 && (ch == '-' || ch == '+') {
		// It's OK to have no digits if the previous byte was not a sign,
		// otherwise we have to have at least one.
		return s.failf("missing exponent digits")
	}
	s.tok = Number
	return nil
}

func (s *Scanner) scanName(tok Token, want string) error {
	s.readWhile(isNameByte)
	if got := mem.B(s.Text()); !got.Equal(mem.S(want)) {
		return s.failf("unknown constant %q", got.StringCopy())
	}
	s.tok = tok
	return nil
}

func (s *Scanner) advance(n int) {
	s.end += n
	s.ecol += n
}

// peek returns the next unconsumed byte of the input, or 0 at the end.
func (s *Scanner) peek() byte {
	if s.end < len(s.src) {
		return s.src[s.end]
	}
	return 0
}

// require reads a single byte matching f from the input, or returns an error
// mentioning the desired label.
func (s *Scanner) require(f func(byte) bool, label string) (byte, error) {
	if s.end >= len(s.src) {
		return 0, s.failf("want %s, got error: %w", label, io.ErrUnexpectedEOF)
	}
	ch := s.src[s.end]
	if !f(ch) {
		return 0, s.failf("got %q, want %s", ch, label)
	}
	s.advance(1)
	return ch, nil
}

// readWhile consumes bytes matching f from the input until the end of input
// or until a byte not matching f is found. It reports the number of bytes
// consumed.
func (s *Scanner) readWhile(f func(byte) bool) int {
	var nr int
	for s.end < len(s.src) && f(s.src[s.end]) {
		s.advance(1)
		nr++
	}
	return nr
}

// readHex4 reads exactly 4 hexadecimal digits from the input.
func (s *Scanner) readHex4() error {
	for i := 0; i < 4; i++ {
		if s.end >= len(s.src) {
			return io.ErrUnexpectedEOF
		}
		ch := s.src[s.end]
		if !isHexDigit(ch) {
			return fmt.Errorf("not a hex digit: %q", ch)
		}
		s.advance(1)
	}
	return nil
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

func (s *Scanner) fail(err error) error {
	s.err = posError{s.end, err}
	return s.err
}

func (s *Scanner) failf(msg string, args ...any) error {
	return s.fail(fmt.Errorf(msg, args...))
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch byte) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by RFC 8259.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Token, bool) {
	i := strings.IndexByte("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
