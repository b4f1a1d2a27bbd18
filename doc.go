// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jflat extracts typed values from JSON documents and builds JSON
// documents incrementally, without constructing a generic document tree.
//
// # Tokenizing
//
// Tokenize converts a document into a flat array of tokens in pre-order, and
// returns a Stream positioned at the first token:
//
//	s, err := jflat.Tokenize(input, nil)
//	if err != nil {
//	   log.Fatalf("Tokenize failed: %v", err)
//	}
//	defer s.Release()
//
// Each Token records its Kind, the span of its text in the source, and the
// number of its immediate children. String tokens exclude their quotation
// marks. An object token is followed by its key and value tokens in order;
// an array token by its elements. No tree is built: the structure of the
// document is recovered from the sizes, and Skip finds the end of a subtree.
//
// Token storage is drawn from a pool and returned by Release.
//
// # Locating and decoding
//
// The locator methods search forward through the stream and leave the
// cursor at the token just past the match, which is normally a value:
//
//	Method       | Matches
//	------------ | ----------------------------------------------
//	FindToken    | any string token with exact text
//	FindKey      | an object key, ASCII case insensitive
//	FindNextKey  | as FindKey, starting from the cursor
//	FindKeyValue | a key followed by a string value with exact text
//
// Decode and DecodeKey convert a token into a Go value; DecodeArray and
// DecodeFields convert a whole array of leaf values at once:
//
//	var req [3]int
//	if _, err := s.FindKey("req"); err != nil {
//	   return err
//	}
//	if _, err := jflat.DecodeArray(s, 3, req[:], nil); err != nil {
//	   return err
//	}
//
// Dispatch calls a handler for every occurrence of each key in a table.
//
// # Writing
//
// A Writer builds a document into a Sink, such as a fixed-size Buffer. The
// document is a stack of open Context values, one per object, and values are added to the
// innermost one:
//
//	w := jflat.NewWriter(jflat.NewBuffer(make([]byte, 0, 256)))
//	root, _ := w.Create()
//	root.Number("a", 1)
//	root.String("b", "x")
//	root.Close() // {"a":1,"b":"x"}
//
// Every value is written to the sink completely or not at all. When the sink
// is full, the Writer reports ErrBufferFull and keeps reporting it.
//
// # Errors
//
// Lexical errors in the input are reported as *SyntaxError. Other errors
// match one of the sentinels ErrNotFound, ErrTypeMismatch, ErrArity,
// ErrTruncated, ErrFormat or ErrBufferFull under errors.Is, and all of those
// also match ErrJSON.
package jflat
