// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import (
	"fmt"
	"time"
)

// Scalar is the set of element types accepted by DecodeArray.
type Scalar interface {
	bool | int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | time.Time | time.Duration
}

// DecodeArray decodes the array token at the cursor of s. If arity > 0, the
// array must have exactly arity elements; otherwise its declared size is
// accepted.
//
// Primitive element i is decoded into dst[i] (see Stream.Decode). String
// element i is unescaped and passed to text, whose error stops decoding; the
// slice passed is only valid for the duration of the call. Nested objects
// and arrays are not accepted as elements.
//
// If the array does not match arity, DecodeArray reports ErrArity without
// consuming any tokens. If an element cannot be decoded, DecodeArray stops
// with the cursor at the failing element and reports the number of elements
// decoded before it. On success the cursor is left just past the array.
func DecodeArray[T Scalar](s *Stream, arity int, dst []T, text func([]byte) error) (int, error) {
	at := s.cur
	size, err := s.checkArray(at, arity)
	if err != nil {
		return 0, err
	}
	if dst != nil && len(dst) < size {
		return 0, errorf(at, ErrArity, "destination holds %d elements, array has %d", len(dst), size)
	}
	return s.decodeElements(at, size, func(n int, t Token) error {
		switch t.Kind {
		case Primitive:
			if dst == nil {
				return fmt.Errorf("%w: no destination for primitive element", ErrTypeMismatch)
			}
			return s.decodeToken(t, &dst[n], 0)
		case String:
			if text == nil {
				return fmt.Errorf("%w: no handler for string element", ErrTypeMismatch)
			}
			dec, err := s.unescape(t)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrFormat, err)
			}
			return text(dec)
		default:
			return fmt.Errorf("%w: %v element not supported", ErrTypeMismatch, t.Kind)
		}
	})
}

// A Field describes the destination of one array element for DecodeFields.
type Field struct {
	Dst any // a destination pointer, as for Stream.Decode
	Max int // if positive, the maximum length in bytes of a text value
}

// DecodeFields decodes the array token at the cursor of s into a fixed
// sequence of fields, one per element, each with its own destination type.
// The array must have exactly len(fields) elements.
//
// The cursor and error behaviour are as for DecodeArray.
func (s *Stream) DecodeFields(fields ...Field) (int, error) {
	at := s.cur
	size, err := s.checkArray(at, 0)
	if err != nil {
		return 0, err
	} else if size != len(fields) {
		return 0, errorf(at, ErrArity, "array has %d elements, want %d fields", size, len(fields))
	}
	return s.decodeElements(at, size, func(n int, t Token) error {
		if !t.IsLeaf() {
			return fmt.Errorf("%w: %v element not supported", ErrTypeMismatch, t.Kind)
		}
		return s.decodeToken(t, fields[n].Dst, fields[n].Max)
	})
}

// checkArray verifies that the token at index at is an array whose size
// matches arity (or any size if arity <= 0), and returns its size.
func (s *Stream) checkArray(at, arity int) (int, error) {
	t := s.Token(at)
	if t.Kind != Array {
		return 0, errorf(at, ErrTypeMismatch, "want array, got %v", t.Kind)
	}
	if arity > 0 && t.Size != arity {
		return 0, errorf(at, ErrArity, "array has %d elements, want %d", t.Size, arity)
	}
	return t.Size, nil
}

// decodeElements calls f for each of the size leaf elements of the array at
// index at, advancing the cursor as it goes.
func (s *Stream) decodeElements(at, size int, f func(n int, t Token) error) (int, error) {
	s.cur = at + 1
	for n := 0; n < size; n++ {
		if err := f(n, s.tokens[s.cur]); err != nil {
			return n, &Error{Index: s.cur, Err: err, Msg: fmt.Sprintf("element %d", n)}
		}
		s.cur++
	}
	return size, nil
}
