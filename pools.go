// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import "sync"

// maxPooledTokens bounds the capacity of token arrays retained by the pool,
// so that one very large document does not pin its storage indefinitely.
const maxPooledTokens = 1 << 16

var tokenPool = sync.Pool{New: func() any { return new([]Token) }}

// getTokens returns a zeroed token array of length n. The caller owns the
// array until it is returned with putTokens.
func getTokens(n int) *[]Token {
	p := tokenPool.Get().(*[]Token)
	if cap(*p) < n {
		*p = make([]Token, n)
		return p
	}
	*p = (*p)[:n]
	clear(*p)
	return p
}

// putTokens releases a token array obtained from getTokens. The caller must
// not use the array afterward.
func putTokens(p *[]Token) {
	if cap(*p) > maxPooledTokens {
		*p = nil
	}
	tokenPool.Put(p)
}
