// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import "testing"

func TestSentinel(t *testing.T) {
	// Dirty a pooled array so that reuse would expose stale tokens.
	p := getTokens(8)
	for i := range *p {
		(*p)[i] = Token{Kind: Array, Start: 1, End: 2, Size: 3}
	}
	putTokens(p)

	s, err := Tokenize([]byte(`[true, null]`), nil)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	defer s.Release()
	if len(s.tokens) != s.total+1 {
		t.Fatalf("Token array has %d slots, want %d", len(s.tokens), s.total+1)
	}
	if got := s.tokens[s.total]; got != (Token{}) {
		t.Errorf("Sentinel: got %v, want zero token", got)
	}
}

func TestPoolCap(t *testing.T) {
	p := getTokens(maxPooledTokens + 1)
	putTokens(p)
	if *p != nil {
		t.Errorf("Oversized array was retained (cap %d)", cap(*p))
	}

	q := getTokens(4)
	if len(*q) != 4 {
		t.Errorf("getTokens(4): got length %d", len(*q))
	}
	for i, tok := range *q {
		if tok != (Token{}) {
			t.Errorf("Token %d not zeroed: %v", i, tok)
		}
	}
	putTokens(q)
}

func TestIsKey(t *testing.T) {
	s, err := Tokenize([]byte(`{"a" : "id", "id":5, "z":["id"]}`), nil)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	defer s.Release()
	want := []bool{false, true, false, true, false, true, false, false}
	for i, w := range want {
		if got := s.isKey(i); got != w {
			t.Errorf("isKey(%d) [%v %q]: got %v, want %v", i, s.tokens[i].Kind, s.Text(i), got, w)
		}
	}
}
