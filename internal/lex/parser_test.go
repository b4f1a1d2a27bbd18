// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package lex_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/creachadair/jflat/internal/lex"
	"github.com/google/go-cmp/cmp"
)

func TestParser(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"   ", ""},

		{"true false null", `
Value true <true>
Value false <false>
Value null <null>`},

		{`0 5 -6.32 0.1e-2`, `
Value integer <0>
Value integer <5>
Value number <-6.32>
Value number <0.1e-2>`},

		{`"" "a b c" "a\tb"`, `
Value string <"">
Value string <"a b c">
Value string <"a\tb">`},

		{`{}`, "BeginObject\nEndObject"},

		{`{"a":15}`, `
BeginObject
BeginMember <"a">
Value integer <15>
EndMember "}"
EndObject`},

		{`{"x":null, "y":[true]}`, `
BeginObject
BeginMember <"x">
Value null <null>
EndMember ","
BeginMember <"y">
BeginArray
Value true <true>
EndArray
EndMember "}"
EndObject`},

		{`[]`, "BeginArray\nEndArray"},
	}

	for _, test := range tests {
		th := new(testHandler)
		if err := lex.NewParser([]byte(test.input)).Parse(th); err != nil {
			t.Errorf("Parse failed: %v", err)
		}
		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input string
		estr  string
	}{
		{`{`, `at 1:1: expected "}" or string, got end of input`},
		{`}`, `at 1:0: unexpected "}"`},
		{`{false:1}`, `at 1:1: expected "}" or string, got false`},
		{`{"true":}`, `at 1:8: unexpected "}"`},
		{`{"true":1,`, `at 1:10: expected string, got end of input`},
		{`{"a" 1}`, `at 1:5: expected ":", got integer`},
		{`[`, `at 1:1: expected more input, got end of input`},
		{`]`, `at 1:0: unexpected "]"`},
		{`[1 2]`, `at 1:3: expected "]" or ",", got integer`},
		{`[1,]`, `at 1:3: unexpected "]"`},
	}
	for _, test := range tests {
		err := lex.NewParser([]byte(test.input)).Parse(new(testHandler))
		var serr *lex.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Parse %#q: got error %v, want *SyntaxError", test.input, err)
			continue
		}
		if got := serr.Error(); got != test.estr {
			t.Errorf("Parse %#q: got error %q, want %q", test.input, got, test.estr)
		}
	}
}

func TestParserHandlerError(t *testing.T) {
	want := errors.New("stop here")
	th := &testHandler{fail: want}
	err := lex.NewParser([]byte(`[1, 2, 3]`)).Parse(th)
	if !errors.Is(err, want) {
		t.Errorf("Parse: got error %v, want %v", err, want)
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

type testHandler struct {
	buf  bytes.Buffer
	fail error // if set, Value reports this error
}

func (t *testHandler) pr(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(&t.buf, msg, args...)
}

func (t *testHandler) output() string { return t.buf.String() }

func (t *testHandler) BeginObject(loc lex.Anchor) error { t.pr("BeginObject"); return nil }
func (t *testHandler) EndObject(loc lex.Anchor) error   { t.pr("EndObject"); return nil }
func (t *testHandler) BeginArray(loc lex.Anchor) error  { t.pr("BeginArray"); return nil }
func (t *testHandler) EndArray(loc lex.Anchor) error    { t.pr("EndArray"); return nil }

func (t *testHandler) BeginMember(loc lex.Anchor) error {
	t.pr("BeginMember <%s>", string(loc.Text()))
	return nil
}

func (t *testHandler) EndMember(loc lex.Anchor) error {
	t.pr("EndMember %s", loc.Token())
	return nil
}

func (t *testHandler) Value(loc lex.Anchor) error {
	if t.fail != nil {
		return t.fail
	}
	t.pr(`Value %s <%s>`, loc.Token(), string(loc.Text()))
	return nil
}
