// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import (
	"fmt"

	"github.com/creachadair/jflat/internal/lex"
)

// ErrJSON matches every sentinel error reported by this package according
// to errors.Is.
const ErrJSON = jsonError("jflat error")

// Sentinel errors reported by this package. Use errors.Is to test for them,
// since most are wrapped with additional context.
const (
	// ErrNotFound reports that a key or token is absent. This is an expected
	// outcome for optional fields.
	ErrNotFound = jsonError("jflat: not found")

	// ErrTypeMismatch reports that a token kind disagrees with the requested
	// destination type, or a precondition on a value was violated.
	ErrTypeMismatch = jsonError("jflat: type mismatch")

	// ErrArity reports that the declared size of an array disagrees with the
	// expected number of elements.
	ErrArity = jsonError("jflat: arity mismatch")

	// ErrTruncated reports malformed or incomplete input: the tokenizer passes
	// disagree, or the token array does not encode a consistent tree.
	ErrTruncated = jsonError("jflat: truncated input")

	// ErrFormat reports unparseable numeric text, an unsupported destination or
	// value shape, or misuse of a writer context.
	ErrFormat = jsonError("jflat: format error")

	// ErrBufferFull reports that a writer sink has no room for more output.
	ErrBufferFull = jsonError("jflat: buffer full")
)

type jsonError string

func (e jsonError) Error() string        { return string(e) }
func (e jsonError) Is(target error) bool { return e == target || target == ErrJSON }

// Error is the concrete type of errors that refer to a specific token of a
// Stream. It wraps one of the sentinel errors, or an error reported by a
// caller-supplied function.
type Error struct {
	Index int    // the token index at which the error occurred
	Msg   string // additional detail, may be empty
	Err   error  // the underlying error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("token %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("token %d: %v: %s", e.Index, e.Err, e.Msg)
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.Err }

func errorf(i int, err error, msg string, args ...any) *Error {
	return &Error{Index: i, Err: err, Msg: fmt.Sprintf(msg, args...)}
}

// SyntaxError is the concrete type of lexical and structural errors reported
// while tokenizing a document.
type SyntaxError = lex.SyntaxError

// LineCol describes the line number and column offset of a location in
// source text.
type LineCol = lex.LineCol
