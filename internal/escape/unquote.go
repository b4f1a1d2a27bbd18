// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the JSON encoding of a string and
// appends the result to dst. The input must have the enclosing double
// quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents, and a
// surrogate pair of \u escapes is combined into a single rune. Invalid escapes
// are replaced by the Unicode replacement rune. Unquote reports an error for
// an incomplete escape sequence.
func Unquote(dst []byte, src mem.RO) ([]byte, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dst, src), nil
	}

	putByte := func(bs ...byte) { dst = append(dst, bs...) }
	for src.Len() != 0 {
		dst = mem.Append(dst, src.SliceTo(i))

		// Decode the next rune after the escape to figure out what to
		// substitute. There should not be errors here, but if there are, insert
		// replacement runes (utf8.RuneError == '\ufffd').
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}

		src = src.SliceFrom(n)
		switch r {
		case '"', '\\', '/':
			putByte(byte(r))
		case 'b':
			putByte('\b')
		case 'f':
			putByte('\f')
		case 'n':
			putByte('\n')
		case 'r':
			putByte('\r')
		case 't':
			putByte('\t')
		case 'u':
			if src.Len() < 4 {
				return nil, errors.New("incomplete Unicode escape")
			}
			v, err := parseHex(src.SliceTo(4))
			src = src.SliceFrom(4)
			if err != nil {
				dst = utf8.AppendRune(dst, utf8.RuneError)
				break
			}
			rv := rune(v)
			if utf16.IsSurrogate(rv) && src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
				if lo, err := parseHex(src.Slice(2, 6)); err == nil {
					if dec := utf16.DecodeRune(rv, rune(lo)); dec != utf8.RuneError {
						rv = dec
						src = src.SliceFrom(6)
					}
				}
			}
			dst = utf8.AppendRune(dst, rv)
		default:
			dst = utf8.AppendRune(dst, utf8.RuneError)
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dst = mem.Append(dst, src)
			break
		}
	}
	return dst, nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
