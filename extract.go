// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"go4.org/mem"
)

// RawText is a Decode destination that receives the undecoded source text
// of a string token, with escape sequences intact.
type RawText []byte

// Decode decodes the token at index i into dst, which must be a pointer to
// one of the following types:
//
//	string, []byte, RawText        from a string token
//	bool                           from a primitive; nonzero is true
//	int, int8, int16, int32, int64 from a primitive
//	uint, uint8, uint16, uint32, uint64
//	float32, float64
//	time.Time                      Unix seconds, fractions allowed
//	time.Duration                  seconds, fractions allowed
//
// The primitives null and false decode as 0, and true as 1. String tokens
// are unescaped except for RawText. A []byte or RawText destination reuses
// its existing capacity.
//
// Decode reports ErrTypeMismatch if the token kind does not suit dst, and
// ErrFormat if the text cannot be represented in dst or dst has an
// unsupported type. Decode does not move the cursor.
func (s *Stream) Decode(i int, dst any) error {
	if i < 0 || i >= s.total {
		return errorf(i, ErrNotFound, "index out of range (n=%d)", s.total)
	}
	if err := s.decodeToken(s.tokens[i], dst, 0); err != nil {
		return &Error{Index: i, Err: err}
	}
	return nil
}

// DecodeKey finds the object key matching key (as FindKey) and decodes its
// value into dst (as Decode). On success the cursor is left just past the
// value. If the key is not found, DecodeKey reports ErrNotFound.
func (s *Stream) DecodeKey(key string, dst any) error {
	i, err := s.FindKey(key)
	if err != nil {
		return err
	}
	if err := s.decodeToken(s.tokens[i], dst, 0); err != nil {
		return &Error{Index: i, Err: err, Msg: fmt.Sprintf("key %q", key)}
	}
	s.cur = s.Skip(i)
	return nil
}

// decodeToken decodes t into dst. If limit > 0, a text destination may not
// receive more than limit bytes.
func (s *Stream) decodeToken(t Token, dst any, limit int) error {
	switch d := dst.(type) {
	case *string, *[]byte, *RawText:
		if t.Kind != String {
			return fmt.Errorf("%w: want string for %T, got %v", ErrTypeMismatch, dst, t.Kind)
		}
		if raw, ok := d.(*RawText); ok {
			text := s.src[t.Start:t.End]
			if limit > 0 && len(text) > limit {
				return fmt.Errorf("%w: text length %d exceeds %d", ErrFormat, len(text), limit)
			}
			*raw = append((*raw)[:0], text...)
			return nil
		}
		text, err := s.unescape(t)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFormat, err)
		} else if limit > 0 && len(text) > limit {
			return fmt.Errorf("%w: text length %d exceeds %d", ErrFormat, len(text), limit)
		}
		if p, ok := d.(*string); ok {
			*p = string(text)
		} else {
			p := d.(*[]byte)
			*p = append((*p)[:0], text...)
		}
		return nil
	}

	if t.Kind != Primitive {
		return fmt.Errorf("%w: want primitive for %T, got %v", ErrTypeMismatch, dst, t.Kind)
	}
	return decodePrimitive(normalize(mem.B(s.src[t.Start:t.End])), dst)
}

var (
	litNull  = mem.S("null")
	litFalse = mem.S("false")
	litTrue  = mem.S("true")
	litZero  = mem.S("0")
	litOne   = mem.S("1")
)

// normalize maps the literals null and false to 0, and true to 1.
func normalize(text mem.RO) mem.RO {
	switch {
	case text.Equal(litNull), text.Equal(litFalse):
		return litZero
	case text.Equal(litTrue):
		return litOne
	}
	return text
}

func decodePrimitive(text mem.RO, dst any) error {
	switch d := dst.(type) {
	case *bool:
		v, err := parseFloat(text, 64)
		if err == nil {
			*d = v != 0
		}
		return err
	case *int:
		return decodeInt(text, strconv.IntSize, d)
	case *int8:
		return decodeInt(text, 8, d)
	case *int16:
		return decodeInt(text, 16, d)
	case *int32:
		return decodeInt(text, 32, d)
	case *int64:
		return decodeInt(text, 64, d)
	case *uint:
		return decodeUint(text, strconv.IntSize, d)
	case *uint8:
		return decodeUint(text, 8, d)
	case *uint16:
		return decodeUint(text, 16, d)
	case *uint32:
		return decodeUint(text, 32, d)
	case *uint64:
		return decodeUint(text, 64, d)
	case *float32:
		v, err := parseFloat(text, 32)
		if err == nil {
			*d = float32(v)
		}
		return err
	case *float64:
		v, err := parseFloat(text, 64)
		if err == nil {
			*d = v
		}
		return err
	case *time.Time:
		v, err := parseFloat(text, 64)
		if err == nil {
			sec, frac := math.Modf(v)
			*d = time.Unix(int64(sec), int64(frac*1e9)).UTC()
		}
		return err
	case *time.Duration:
		v, err := parseFloat(text, 64)
		if err != nil {
			return err
		}
		ns := v * float64(time.Second)
		if ns < math.MinInt64 || ns >= math.MaxInt64 {
			return fmt.Errorf("%w: %q seconds is out of range for a duration", ErrFormat, text.StringCopy())
		}
		*d = time.Duration(ns)
		return nil
	default:
		return fmt.Errorf("%w: unsupported destination type %T", ErrFormat, dst)
	}
}

func parseFloat(text mem.RO, bits int) (float64, error) {
	v, err := mem.ParseFloat(text, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q", ErrFormat, text.StringCopy())
	}
	return v, nil
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// decodeInt parses text as a signed integer of the given width. An integral
// value written with a fraction or exponent (such as 3.0 or 1e3) is accepted
// if it is exactly representable.
func decodeInt[T signed](text mem.RO, bits int, dst *T) error {
	v, err := mem.ParseInt(text, 10, bits)
	if err != nil {
		f, ferr := mem.ParseFloat(text, 64)
		lim := math.Ldexp(1, bits-1)
		if ferr != nil || f != math.Trunc(f) || f < -lim || f >= lim {
			return fmt.Errorf("%w: %q is not a %d-bit integer", ErrFormat, text.StringCopy(), bits)
		}
		v = int64(f)
	}
	*dst = T(v)
	return nil
}

// decodeUint parses text as an unsigned integer of the given width, with the
// same allowance for integral values as decodeInt.
func decodeUint[T unsigned](text mem.RO, bits int, dst *T) error {
	v, err := mem.ParseUint(text, 10, bits)
	if err != nil {
		f, ferr := mem.ParseFloat(text, 64)
		lim := math.Ldexp(1, bits)
		if ferr != nil || f != math.Trunc(f) || f < 0 || f >= lim {
			return fmt.Errorf("%w: %q is not a %d-bit unsigned integer", ErrFormat, text.StringCopy(), bits)
		}
		v = uint64(f)
	}
	*dst = T(v)
	return nil
}
