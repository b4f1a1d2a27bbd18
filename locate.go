// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import "go4.org/mem"

// FindToken scans the stream from the first token for a token whose text is
// exactly name. If requireKey is true, the token must be an object key, that
// is, a colon must separate it from the following token in the source.
//
// On success, FindToken moves the cursor to the token following the match
// (the value of a key) and returns its index. Otherwise it reports
// ErrNotFound and leaves the cursor unchanged.
func (s *Stream) FindToken(name string, requireKey bool) (int, error) {
	return s.find(0, mem.S(name), requireKey, mem.RO.Equal)
}

// FindKey scans the stream from the first token for an object key matching
// key with ASCII case folding. On success it moves the cursor to the value of
// the key and returns its index. Otherwise it reports ErrNotFound and leaves
// the cursor unchanged.
func (s *Stream) FindKey(key string) (int, error) {
	return s.find(0, mem.S(key), true, equalFoldASCII)
}

// FindNextKey is as FindKey, but scans from the cursor rather than from the
// first token. Repeated calls visit successive occurrences of key.
func (s *Stream) FindNextKey(key string) (int, error) {
	return s.find(s.cur, mem.S(key), true, equalFoldASCII)
}

// FindKeyValue scans for the object key matching key (as FindKey) whose
// value text is exactly value. On success it moves the cursor past the value
// and returns the new cursor position. Otherwise it reports ErrNotFound and
// leaves the cursor unchanged.
//
// This is useful to select a message by a discriminator field, for example
// FindKeyValue("method", "sense").
func (s *Stream) FindKeyValue(key, value string) (int, error) {
	want := mem.S(value)
	for from := 0; ; {
		save := s.cur
		i, err := s.find(from, mem.S(key), true, equalFoldASCII)
		if err != nil {
			return -1, err
		}
		if t := s.tokens[i]; t.IsLeaf() && mem.B(s.src[t.Start:t.End]).Equal(want) {
			s.cur = i + 1
			return s.cur, nil
		}
		s.cur = save
		from = i
	}
}

// find scans tokens from index from for a token whose text matches name
// according to eq.
func (s *Stream) find(from int, name mem.RO, requireKey bool, eq func(a, b mem.RO) bool) (int, error) {
	for i := max(from, 0); i < s.total; i++ {
		t := s.tokens[i]
		if t.Len() != name.Len() || !eq(mem.B(s.src[t.Start:t.End]), name) {
			continue
		}
		if requireKey && !s.isKey(i) {
			continue
		}
		s.cur = i + 1
		return s.cur, nil
	}
	return -1, ErrNotFound
}

// isKey reports whether the token at index i is an object key. Absent parent
// links, a token is a key if the source text between it and the following
// token contains a colon.
func (s *Stream) isKey(i int) bool {
	if i+1 >= s.total || s.tokens[i].Kind != String {
		return false
	}
	gap := s.src[s.tokens[i].End:s.tokens[i+1].Start]
	return mem.IndexByte(mem.B(gap), ':') >= 0
}

// equalFoldASCII reports whether a and b are equal under ASCII case folding.
func equalFoldASCII(a, b mem.RO) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if lowerASCII(a.At(i)) != lowerASCII(b.At(i)) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
