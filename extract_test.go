// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat_test

import (
	"errors"
	"testing"
	"time"

	"github.com/creachadair/jflat"
	"github.com/google/go-cmp/cmp"
)

const extractDoc = `{
  "s": "a\tb", "n": -12, "u": 300, "f": 2.5, "t": true, "z": null,
  "e": 1e3, "ts": 1700000000.5, "d": 1.5, "big": 1e40, "neg": -0.0,
  "huge": 1e10, "tiny": -9.3e9
}`

func TestDecodeKey(t *testing.T) {
	s := mustTokenize(t, extractDoc)

	check := func(key string, dst, want any) {
		t.Helper()
		if err := s.DecodeKey(key, dst); err != nil {
			t.Errorf("DecodeKey(%q, %T): unexpected error: %v", key, dst, err)
			return
		}
		if diff := cmp.Diff(want, dst); diff != "" {
			t.Errorf("DecodeKey(%q, %T): (-want, +got)\n%s", key, dst, diff)
		}
	}
	ptr := func(v any) any {
		switch x := v.(type) {
		case string:
			return &x
		case []byte:
			return &x
		case jflat.RawText:
			return &x
		case bool:
			return &x
		case int:
			return &x
		case int8:
			return &x
		case int64:
			return &x
		case uint16:
			return &x
		case uint64:
			return &x
		case float32:
			return &x
		case float64:
			return &x
		case time.Time:
			return &x
		case time.Duration:
			return &x
		}
		panic("unsupported")
	}

	check("s", new(string), ptr("a\tb"))
	check("S", new(string), ptr("a\tb")) // keys are case-insensitive
	check("s", new([]byte), ptr([]byte("a\tb")))
	check("s", new(jflat.RawText), ptr(jflat.RawText(`a\tb`)))
	check("n", new(int), ptr(-12))
	check("n", new(int8), ptr(int8(-12)))
	check("n", new(float64), ptr(-12.0))
	check("u", new(uint16), ptr(uint16(300)))
	check("f", new(float32), ptr(float32(2.5)))
	check("t", new(bool), ptr(true))
	check("t", new(int), ptr(1))
	check("z", new(bool), ptr(false))
	check("z", new(int64), ptr(int64(0)))
	check("e", new(int), ptr(1000))
	check("e", new(uint64), ptr(uint64(1000)))
	check("big", new(float64), ptr(1e40))
	check("ts", new(time.Time), ptr(time.Unix(1700000000, 500000000).UTC()))
	check("d", new(time.Duration), ptr(1500*time.Millisecond))
	check("neg", new(int), ptr(0))
}

func TestDecodeKeyErrors(t *testing.T) {
	s := mustTokenize(t, extractDoc)
	tests := []struct {
		key  string
		dst  any
		want error
	}{
		{"missing", new(int), jflat.ErrNotFound},
		{"s", new(int), jflat.ErrTypeMismatch},
		{"n", new(string), jflat.ErrTypeMismatch},
		{"u", new(int8), jflat.ErrFormat},
		{"n", new(uint), jflat.ErrFormat},
		{"f", new(int64), jflat.ErrFormat},
		{"big", new(int64), jflat.ErrFormat},
		{"big", new(float32), jflat.ErrFormat},
		{"n", new(struct{}), jflat.ErrFormat},
		{"n", 17, jflat.ErrFormat},
		{"huge", new(time.Duration), jflat.ErrFormat},
		{"tiny", new(time.Duration), jflat.ErrFormat},
	}
	for _, test := range tests {
		s.Reset()
		err := s.DecodeKey(test.key, test.dst)
		if !errors.Is(err, test.want) {
			t.Errorf("DecodeKey(%q, %T): got %v, want %v", test.key, test.dst, err, test.want)
			continue
		}
		if !errors.Is(err, jflat.ErrJSON) {
			t.Errorf("DecodeKey(%q, %T): error %v does not match ErrJSON", test.key, test.dst, err)
		}
		t.Logf("DecodeKey(%q, %T): got expected error: %v", test.key, test.dst, err)
	}
}

func TestDecodeUnchanged(t *testing.T) {
	// An external tokenizer may label arbitrary text as a primitive.
	src := []byte(`[yes, 1e10]`)
	s, err := jflat.NewStream(src, []jflat.Token{
		{Kind: jflat.Array, Start: 0, End: 11, Size: 2},
		{Kind: jflat.Primitive, Start: 1, End: 4},
		{Kind: jflat.Primitive, Start: 6, End: 10},
	})
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	defer s.Release()

	b, n, d := true, 7, 3*time.Second
	if err := s.Decode(1, &b); !errors.Is(err, jflat.ErrFormat) {
		t.Errorf("Decode bool: got %v, want %v", err, jflat.ErrFormat)
	}
	if err := s.Decode(1, &n); !errors.Is(err, jflat.ErrFormat) {
		t.Errorf("Decode int: got %v, want %v", err, jflat.ErrFormat)
	}
	if err := s.Decode(2, &d); !errors.Is(err, jflat.ErrFormat) {
		t.Errorf("Decode duration: got %v, want %v", err, jflat.ErrFormat)
	}
	if !b || n != 7 || d != 3*time.Second {
		t.Errorf("Failed decodes changed their destinations: %v, %d, %v", b, n, d)
	}
}

func TestDecode(t *testing.T) {
	s := mustTokenize(t, `["x", 3, {"k": []}]`)

	var n int
	if err := s.Decode(2, &n); err != nil || n != 3 {
		t.Errorf("Decode(2): got %d, %v; want 3", n, err)
	}
	if s.Pos() != 0 {
		t.Errorf("Decode moved the cursor to %d", s.Pos())
	}

	err := s.Decode(5, &n)
	var jerr *jflat.Error
	if !errors.As(err, &jerr) || jerr.Index != 5 || !errors.Is(err, jflat.ErrTypeMismatch) {
		t.Errorf("Decode(5): got %v, want type mismatch at 5", err)
	}
	if err := s.Decode(99, &n); !errors.Is(err, jflat.ErrNotFound) {
		t.Errorf("Decode(99): got %v, want ErrNotFound", err)
	}

	// Byte destinations reuse their storage.
	buf := make([]byte, 0, 16)
	if err := s.Decode(1, &buf); err != nil || string(buf) != "x" {
		t.Errorf("Decode(1): got %q, %v", buf, err)
	} else if cap(buf) != 16 {
		t.Errorf("Decode(1): capacity changed to %d", cap(buf))
	}
}

func TestDecodeKeyCursor(t *testing.T) {
	s := mustTokenize(t, `{"a": [1, 2], "b": "x", "a2": 5}`)
	if err := s.DecodeKey("b", new(string)); err != nil {
		t.Fatalf("DecodeKey(b): %v", err)
	}
	if got, want := s.Pos(), 7; got != want {
		t.Errorf("Cursor after b: got %d, want %d", got, want)
	}
	if err := s.DecodeKey("a", new(int)); !errors.Is(err, jflat.ErrTypeMismatch) {
		t.Errorf("DecodeKey(a): got %v, want %v", err, jflat.ErrTypeMismatch)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", `""`},
		{"abc", `"abc"`},
		{"a\"b\\c/d", `"a\"b\\c\/d"`},
		{"\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"café", "\"café\""},
	}
	for _, test := range tests {
		got := jflat.Quote(test.input)
		if got != test.want {
			t.Errorf("Quote(%q): got %#q, want %#q", test.input, got, test.want)
		}
		dec, err := jflat.Unquote([]byte(got))
		if err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", got, err)
		} else if string(dec) != test.input {
			t.Errorf("Unquote(%#q): got %q, want %q", got, dec, test.input)
		}
	}
	if got := string(jflat.AppendQuote([]byte("k="), "v")); got != `k="v"` {
		t.Errorf("AppendQuote: got %#q", got)
	}
	for _, bad := range []string{``, `"`, `abc`, `"abc`, `"a\"`} {
		if dec, err := jflat.Unquote([]byte(bad)); err == nil {
			t.Errorf("Unquote(%#q): got %q, want error", bad, dec)
		}
	}
}
