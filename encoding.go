// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import (
	"errors"

	"github.com/creachadair/jflat/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	return string(escape.AppendQuote(make([]byte, 0, escape.QuotedLen(mem.S(src))), mem.S(src)))
}

// AppendQuote appends the quoted JSON encoding of src to dst and returns the
// extended slice.
func AppendQuote(dst []byte, src string) []byte { return escape.AppendQuote(dst, mem.S(src)) }

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for an incomplete escape sequence.
func Unquote(src []byte) ([]byte, error) {
	if len(src) < 2 || src[0] != '"' || src[len(src)-1] != '"' {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(nil, mem.B(src[1:len(src)-1]))
}
