// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package escape

import "go4.org/mem"

// pairEsc maps each byte written with a two-character escape to the byte that
// follows the backslash.
var pairEsc = [256]byte{
	'\\': '\\',
	'"':  '"',
	'/':  '/',
	'\b': 'b',
	'\f': 'f',
	'\t': 't',
	'\n': 'n',
	'\r': 'r',
}

// AppendQuote appends the JSON string encoding of src to dst, including the
// enclosing double quotation marks, and returns the extended slice.
//
// Only the backslash, double quote, solidus, backspace, form feed, tab,
// newline, carriage return and NUL are escaped. NUL has no two-character
// escape in JSON and is written as \u0000. All other bytes, including other
// control characters and non-ASCII text, are copied unchanged.
func AppendQuote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	for i := 0; i < src.Len(); i++ {
		c := src.At(i)
		if e := pairEsc[c]; e != 0 {
			dst = append(dst, '\\', e)
		} else if c == 0 {
			dst = append(dst, `\u0000`...)
		} else {
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}

// QuotedLen reports the number of bytes AppendQuote would add for src.
func QuotedLen(src mem.RO) int {
	n := 2
	for i := 0; i < src.Len(); i++ {
		c := src.At(i)
		if pairEsc[c] != 0 {
			n += 2
		} else if c == 0 {
			n += 6
		} else {
			n++
		}
	}
	return n
}
