// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/creachadair/jflat/internal/lex"
	"github.com/tailscale/hujson"
)

// A Tokenizer converts JSON source text into a flat token array.
//
// Count reports the number of tokens required for src. Fill writes the tokens
// for src into dst in pre-order and reports how many were written; it must
// report an error matching ErrTruncated if dst is too small.
type Tokenizer interface {
	Count(src []byte) (int, error)
	Fill(src []byte, dst []Token) (int, error)
}

// Options control the tokenization of a document. A nil *Options is ready for
// use and provides default values.
type Options struct {
	// Lenient, if true, accepts JSON with comments and trailing commas
	// (JWCC). Such input is normalized on a private copy before it is
	// tokenized; byte offsets are preserved.
	Lenient bool

	// Logger, if non-nil, receives debug records for tokenization and
	// warnings for failed dispatch handlers.
	Logger *slog.Logger

	// Tokenizer, if non-nil, is used instead of the default tokenizer.
	Tokenizer Tokenizer
}

func (o *Options) lenient() bool { return o != nil && o.Lenient }

func (o *Options) logger() *slog.Logger {
	if o == nil {
		return nil
	}
	return o.Logger
}

func (o *Options) tokenizer() Tokenizer {
	if o == nil || o.Tokenizer == nil {
		return lexTokenizer{}
	}
	return o.Tokenizer
}

// Tokenize tokenizes src and returns a Stream positioned at its first token.
// The stream refers to src, which the caller must not modify while the
// stream is in use. The caller should call Release when the stream is no
// longer needed.
//
// The input may hold a sequence of top-level values separated by optional
// whitespace, such as `{"a":1} {"b":2}` or `1 2 3`. Their tokens follow one
// another in the stream, and Skip(0) reports the end of the first value.
//
// The tokenizer is run twice, once to count the tokens and once to fill an
// array of exactly that size. If the passes disagree, or the resulting array
// does not encode a consistent tree, Tokenize reports ErrTruncated. A
// lexical error is reported as a *SyntaxError.
func Tokenize(src []byte, opts *Options) (*Stream, error) {
	log := opts.logger()
	if opts.lenient() {
		std, err := hujson.Standardize(bytes.Clone(src))
		if err != nil {
			return nil, fmt.Errorf("lenient input: %w", err)
		}
		src = std
	}

	tz := opts.tokenizer()
	want, err := tz.Count(src)
	if err != nil {
		return nil, err
	} else if want < 1 {
		return nil, fmt.Errorf("%w: no tokens in input", ErrTruncated)
	}

	// The extra slot holds a zero-valued sentinel marking the end of stream.
	buf := getTokens(want + 1)
	got, err := tz.Fill(src, (*buf)[:want])
	if err == nil && got != want {
		err = fmt.Errorf("%w: counted %d tokens, filled %d", ErrTruncated, want, got)
	} else if err == nil {
		err = checkTree((*buf)[:want], len(src))
	} else if !errors.Is(err, ErrTruncated) {
		err = fmt.Errorf("%w: fill: %w", ErrTruncated, err)
	}
	if err != nil {
		putTokens(buf)
		if log != nil {
			log.Debug("tokenize failed", "bytes", len(src), "tokens", want, "err", err)
		}
		return nil, err
	}
	if log != nil {
		log.Debug("tokenized", "bytes", len(src), "tokens", want)
	}
	return newStream(src, buf, want, log), nil
}

// MustTokenize tokenizes src with default options, and panics if that fails.
// It is intended for documents fixed at compile time.
func MustTokenize(src []byte) *Stream {
	s, err := Tokenize(src, nil)
	if err != nil {
		panic(fmt.Sprintf("jflat: tokenize: %v", err))
	}
	return s
}

// NewStream constructs a Stream over tokens produced by an external
// tokenizer for src. The tokens are copied, and must encode a consistent
// pre-order tree over src or NewStream reports ErrTruncated.
func NewStream(src []byte, tokens []Token) (*Stream, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens", ErrTruncated)
	} else if err := checkTree(tokens, len(src)); err != nil {
		return nil, err
	}
	buf := getTokens(len(tokens) + 1)
	copy(*buf, tokens)
	return newStream(src, buf, len(tokens), nil), nil
}

// checkTree reports whether tokens is a sequence of complete pre-order
// subtrees whose spans lie within a source of n bytes.
func checkTree(tokens []Token, n int) error {
	for i := 0; i < len(tokens); {
		next, err := checkSubtree(tokens, i, n)
		if err != nil {
			return err
		}
		i = next
	}
	return nil
}

func checkSubtree(tokens []Token, i, n int) (int, error) {
	if i >= len(tokens) {
		return 0, fmt.Errorf("%w: subtree extends past token %d", ErrTruncated, len(tokens))
	}
	t := tokens[i]
	if t.Start < 0 || t.End < t.Start || t.End > n {
		return 0, errorf(i, ErrTruncated, "span %d..%d outside source of %d bytes", t.Start, t.End, n)
	}
	switch t.Kind {
	case Primitive, String:
		if t.Size != 0 {
			return 0, errorf(i, ErrTruncated, "leaf with %d children", t.Size)
		}
		return i + 1, nil
	case Object, Array:
		if t.Size < 0 {
			return 0, errorf(i, ErrTruncated, "negative size %d", t.Size)
		}
		per := 1
		if t.Kind == Object {
			per = 2
		}
		next := i + 1
		for c := 0; c < per*t.Size; c++ {
			if t.Kind == Object && c%2 == 0 {
				if next < len(tokens) && tokens[next].Kind != String {
					return 0, errorf(next, ErrTruncated, "object key is %v", tokens[next].Kind)
				}
			}
			var err error
			next, err = checkSubtree(tokens, next, n)
			if err != nil {
				return 0, err
			}
		}
		return next, nil
	default:
		return 0, errorf(i, ErrTruncated, "invalid kind %v", t.Kind)
	}
}

// lexTokenizer is the default Tokenizer, based on the structural parser.
type lexTokenizer struct{}

func (lexTokenizer) Count(src []byte) (int, error) {
	var c tokenCounter
	if err := lex.NewParser(src).Parse(&c); err != nil {
		return 0, err
	}
	return int(c), nil
}

func (lexTokenizer) Fill(src []byte, dst []Token) (int, error) {
	f := &tokenFiller{dst: dst, super: -1}
	err := lex.NewParser(src).Parse(f)
	return f.n, err
}

// tokenCounter is a lex.Handler that counts the tokens of its input.
type tokenCounter int

func (c *tokenCounter) BeginObject(lex.Anchor) error { *c++; return nil }
func (c *tokenCounter) EndObject(lex.Anchor) error   { return nil }
func (c *tokenCounter) BeginArray(lex.Anchor) error  { *c++; return nil }
func (c *tokenCounter) EndArray(lex.Anchor) error    { return nil }
func (c *tokenCounter) BeginMember(lex.Anchor) error { *c++; return nil }
func (c *tokenCounter) EndMember(lex.Anchor) error   { return nil }
func (c *tokenCounter) Value(lex.Anchor) error       { *c++; return nil }

// tokenFiller is a lex.Handler that writes the flat tokens of its input.
//
// While a compound token is open its End field holds -(parent+2), where
// parent is the index of the enclosing open compound (or -1). This links
// the open compounds without auxiliary storage.
type tokenFiller struct {
	dst   []Token
	n     int // number of tokens written
	super int // index of the innermost open compound, or -1
}

var errNoRoom = fmt.Errorf("%w: token capacity exceeded", ErrTruncated)

func (f *tokenFiller) add(t Token) error {
	if f.n >= len(f.dst) {
		return errNoRoom
	}
	f.dst[f.n] = t
	f.n++
	return nil
}

// countChild records a new child in the innermost open compound. Object
// members are counted by their keys, not their values.
func (f *tokenFiller) countChild(isKey bool) {
	if f.super < 0 {
		return
	}
	p := &f.dst[f.super]
	if (p.Kind == Array && !isKey) || (p.Kind == Object && isKey) {
		p.Size++
	}
}

func (f *tokenFiller) open(kind Kind, loc lex.Anchor) error {
	f.countChild(false)
	if err := f.add(Token{Kind: kind, Start: loc.Span().Pos, End: -(f.super + 2)}); err != nil {
		return err
	}
	f.super = f.n - 1
	return nil
}

func (f *tokenFiller) close(loc lex.Anchor) error {
	t := &f.dst[f.super]
	f.super = -t.End - 2
	t.End = loc.Span().End
	return nil
}

func (f *tokenFiller) BeginObject(loc lex.Anchor) error { return f.open(Object, loc) }
func (f *tokenFiller) EndObject(loc lex.Anchor) error   { return f.close(loc) }
func (f *tokenFiller) BeginArray(loc lex.Anchor) error  { return f.open(Array, loc) }
func (f *tokenFiller) EndArray(loc lex.Anchor) error    { return f.close(loc) }
func (f *tokenFiller) EndMember(lex.Anchor) error       { return nil }

func (f *tokenFiller) BeginMember(loc lex.Anchor) error {
	f.countChild(true)
	return f.add(stringToken(loc.Span()))
}

func (f *tokenFiller) Value(loc lex.Anchor) error {
	f.countChild(false)
	if loc.Token() == lex.String {
		return f.add(stringToken(loc.Span()))
	}
	sp := loc.Span()
	return f.add(Token{Kind: Primitive, Start: sp.Pos, End: sp.End})
}

// stringToken returns a string token for a quoted span, excluding the quotes.
func stringToken(sp lex.Span) Token {
	return Token{Kind: String, Start: sp.Pos + 1, End: sp.End - 1}
}
