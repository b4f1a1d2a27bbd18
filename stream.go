// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/creachadair/jflat/internal/escape"
	"go4.org/mem"
)

// A Stream is a cursor over the flat token array of a document. The
// locator, extractor, and array decoder methods of a Stream advance its
// cursor past the tokens they consume.
//
// A Stream is not safe for concurrent use; each parse should be owned by a
// single logical operation.
type Stream struct {
	src    []byte
	buf    *[]Token // pooled storage, nil after Release
	tokens []Token  // total tokens followed by a zero sentinel
	total  int
	cur    int
	log    *slog.Logger

	scratch []byte // reused for unescaping string tokens
}

func newStream(src []byte, buf *[]Token, total int, log *slog.Logger) *Stream {
	return &Stream{
		src:    src,
		buf:    buf,
		tokens: (*buf)[:total+1],
		total:  total,
		log:    log,
	}
}

// Release returns the token storage of s to the allocator. After Release, s
// behaves as an empty stream. Release is safe to call more than once; the
// storage is returned only on the first call.
func (s *Stream) Release() {
	if s.buf == nil {
		return
	}
	putTokens(s.buf)
	s.buf, s.tokens, s.total, s.cur = nil, nil, 0, 0
}

// Len reports the number of tokens in s, not counting the sentinel.
func (s *Stream) Len() int { return s.total }

// Pos reports the current cursor position of s.
func (s *Stream) Pos() int { return s.cur }

// Seek moves the cursor of s to index i, which must be in the range
// 0..s.Len() inclusive.
func (s *Stream) Seek(i int) error {
	if i < 0 || i > s.total {
		return errorf(i, ErrNotFound, "index out of range (n=%d)", s.total)
	}
	s.cur = i
	return nil
}

// Reset moves the cursor of s to the first token.
func (s *Stream) Reset() { s.cur = 0 }

// Source returns the source text of s. If the stream was tokenized with the
// Lenient option, this is the normalized copy.
func (s *Stream) Source() []byte { return s.src }

// Token returns the token at index i. If i is out of range, Token returns
// the zero Token, whose kind is Undefined.
func (s *Stream) Token(i int) Token {
	if i < 0 || i >= s.total {
		return Token{}
	}
	return s.tokens[i]
}

// Current returns the token at the cursor.
func (s *Stream) Current() Token { return s.Token(s.cur) }

// Text returns a view of the raw text of the token at index i. String
// tokens are not unescaped. The caller must not modify the result.
func (s *Stream) Text(i int) []byte {
	t := s.Token(i)
	return s.src[t.Start:t.End]
}

// Unquote returns the unescaped text of the string token at index i.
func (s *Stream) Unquote(i int) (string, error) {
	t := s.Token(i)
	if t.Kind != String {
		return "", errorf(i, ErrTypeMismatch, "want string, got %v", t.Kind)
	}
	dec, err := s.unescape(t)
	if err != nil {
		return "", errorf(i, ErrFormat, "%v", err)
	}
	return string(dec), nil
}

// unescape decodes the text of a string token into the scratch buffer of s.
// The result is valid until the next call.
func (s *Stream) unescape(t Token) ([]byte, error) {
	dec, err := escape.Unquote(s.scratch[:0], mem.B(s.src[t.Start:t.End]))
	if err != nil {
		return nil, err
	}
	s.scratch = dec
	return dec, nil
}

// Skip returns the index just past the complete subtree rooted at index i.
// If i is out of range, Skip returns s.Len().
func (s *Stream) Skip(i int) int {
	if i < 0 || i >= s.total {
		return s.total
	}
	next := i + 1
	switch t := s.tokens[i]; t.Kind {
	case Object:
		for c := 0; c < 2*t.Size; c++ {
			next = s.Skip(next)
		}
	case Array:
		for c := 0; c < t.Size; c++ {
			next = s.Skip(next)
		}
	}
	return next
}

// Dump writes an indented rendering of the token tree of s to w, one token
// per line, for debugging.
func (s *Stream) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < s.total; {
		i = s.dump(bw, i, 0, "")
	}
	return bw.Flush()
}

func (s *Stream) dump(w *bufio.Writer, i, depth int, label string) int {
	t := s.tokens[i]
	indent := strings.Repeat("  ", depth)
	switch t.Kind {
	case Object:
		fmt.Fprintf(w, "%s%s{ (%d)\n", indent, label, t.Size)
		next := i + 1
		for c := 0; c < t.Size; c++ {
			key := fmt.Sprintf("%q: ", s.Text(next))
			next = s.dump(w, next+1, depth+1, key)
		}
		fmt.Fprintf(w, "%s}\n", indent)
		return next
	case Array:
		fmt.Fprintf(w, "%s%s[ (%d)\n", indent, label, t.Size)
		next := i + 1
		for c := 0; c < t.Size; c++ {
			next = s.dump(w, next, depth+1, "")
		}
		fmt.Fprintf(w, "%s]\n", indent)
		return next
	case String:
		fmt.Fprintf(w, "%s%s%q\n", indent, label, s.Text(i))
	default:
		fmt.Fprintf(w, "%s%s%s\n", indent, label, s.Text(i))
	}
	return i + 1
}
