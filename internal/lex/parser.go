// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package lex

import (
	"fmt"
	"slices"
	"strings"
)

// An Anchor represents a location in source text. The methods of an Anchor
// will report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // Returns the token type of the anchor
	Text() []byte       // Returns a view of the raw (undecoded) text of the anchor
	Span() Span         // Returns the byte span of the anchor
	Location() Location // Returns the full location of the anchor
}

// A Handler handles events from parsing an input.  If a method reports an
// error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc. The text of the key is
	// still quoted.
	BeginMember(loc Anchor) error

	// End the current object member giving the location and type of the token
	// that terminated the member (either Comma or RBrace).
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type of the value can be
	// recovered from the token. String tokens are quoted.
	Value(loc Anchor) error
}

// Parser is a recursive-descent parser that consumes input and delivers
// events to a Handler corresponding with the structure of the input.
type Parser struct {
	s *Scanner
}

// NewParser constructs a new Parser that consumes input from src.
func NewParser(src []byte) *Parser { return &Parser{s: NewScanner(src)} }

func (p *Parser) recoverParseError(errp *error) {
	if perr := recover(); perr != nil {
		switch err := perr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(perr)
		}
	}
}

// Parse parses the complete input and delivers events to h until either an
// error occurs or the input is exhausted. The input may contain a sequence of
// zero or more values. In case of a syntax error, the returned error has type
// [*SyntaxError].
func (p *Parser) Parse(h Handler) (err error) {
	defer p.recoverParseError(&err)

	for p.nextToken() {
		p.parseElement(h)
	}
	if err := p.s.Err(); err != nil {
		p.syntaxError(err, "%v", err)
	}
	return nil
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (p *Parser) parseElement(h Handler) {
	switch tok := p.s.Token(); tok {
	case LBrace:
		p.checkError(h.BeginObject(p.s))
		p.parseMembers(h)
		p.require(RBrace)
		p.checkError(h.EndObject(p.s))
	case LSquare:
		p.checkError(h.BeginArray(p.s))
		p.parseElements(h)
		p.require(RSquare)
		p.checkError(h.EndArray(p.s))
	case Integer, Number, String, True, False, Null:
		p.checkError(h.Value(p.s))
	case RBrace, RSquare, Comma, Colon:
		p.syntaxError(nil, "unexpected %v", tok)
	default:
		p.syntaxError(nil, "unknown token %v", tok)
	}
}

// parseMembers consumes zero of more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (p *Parser) parseMembers(h Handler) {
	tok := p.advance(RBrace, String)
	if tok == RBrace {
		return // end of object
	}
	for {
		// Parse a single member: "key": value
		p.checkError(h.BeginMember(p.s))
		p.advance(Colon)
		p.advance()
		p.parseElement(h)

		// Check whether we have more members (",") or are done ("}").
		tok := p.advance(RBrace, Comma)
		p.checkError(h.EndMember(p.s))
		if tok == RBrace {
			return // end of object
		}
		p.advance(String) // advance to next key
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (p *Parser) parseElements(h Handler) {
	if tok := p.advance(); tok == RSquare {
		return // end of array
	}
	p.parseElement(h)
	for {
		if tok := p.advance(RSquare, Comma); tok == RSquare {
			return // end of array
		}
		p.advance()
		p.parseElement(h)
	}
}

func (p *Parser) nextToken() bool { return p.s.Next() }

func (p *Parser) advance(tokens ...Token) Token {
	if !p.nextToken() {
		var got any = "end of input"
		if err := p.s.Err(); err != nil {
			got = fmt.Sprintf("error: %v", err)
		}
		p.syntaxError(p.s.Err(), "%v", tokLabel(tokens, got))
	}
	tok := p.s.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		p.syntaxError(nil, "%v", tokLabel(tokens, tok))
	}
	return tok
}

func (p *Parser) require(token Token) {
	if tok := p.s.Token(); tok != token {
		p.syntaxError(nil, "expected %v, got %v", token, tok)
	}
}

func (p *Parser) syntaxError(err error, msg string, args ...any) {
	panic(&SyntaxError{
		Location: p.s.Location().First,
		Offset:   p.s.Span().Pos,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	})
}

func (p *Parser) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprintf("expected more input, got %v", got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// SyntaxError is the concrete type of errors reported by the parser.
type SyntaxError struct {
	Location LineCol
	Offset   int // byte offset of the offending token
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
