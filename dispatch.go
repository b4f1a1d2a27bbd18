// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import "go4.org/mem"

// A Handler handles one occurrence of a key found by Dispatch. When
// HandleKey is called, the cursor of s is positioned at the value of the key.
type Handler interface {
	HandleKey(s *Stream) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(s *Stream) error

// HandleKey satisfies the Handler interface by calling f.
func (f HandlerFunc) HandleKey(s *Stream) error { return f(s) }

// An Entry associates an object key with a Handler in a dispatch table.
type Entry struct {
	Key     string
	Handler Handler
}

// Dispatch calls the handler of each entry in table once for every
// occurrence of its key anywhere in s, matched with ASCII case folding, in
// table order. It returns the number of handler calls that succeeded.
//
// A failed handler does not stop the dispatch; its error is logged if s has
// a logger. If no handler succeeded, Dispatch reports the error of the last
// handler that failed (or nil if no key occurred).
func (s *Stream) Dispatch(table []Entry) (int, error) {
	var nok int
	var last error
	for _, e := range table {
		key := mem.S(e.Key)
		for from := 0; ; {
			i, err := s.find(from, key, true, equalFoldASCII)
			if err != nil {
				break
			}
			if herr := e.Handler.HandleKey(s); herr != nil {
				last = herr
				if s.log != nil {
					s.log.Warn("dispatch handler failed", "key", e.Key, "token", i,
						"value", string(s.Text(i)), "err", herr)
				}
			} else {
				nok++
			}
			from = i
		}
	}
	if nok == 0 {
		return 0, last
	}
	return nok, nil
}

// Dispatch tokenizes src and calls s.Dispatch(table) on the resulting stream,
// which is released before Dispatch returns.
func Dispatch(src []byte, table []Entry, opts *Options) (int, error) {
	s, err := Tokenize(src, opts)
	if err != nil {
		return 0, err
	}
	defer s.Release()
	return s.Dispatch(table)
}
