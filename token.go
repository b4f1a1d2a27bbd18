// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import "fmt"

// Kind is the kind of a Token.
type Kind byte

// Constants defining the valid Kind values.
const (
	Undefined Kind = iota // zero value; marks the end-of-stream sentinel
	Primitive             // number, true, false, or null
	String                // string, without its quotation marks
	Object                // object; Size counts key/value pairs
	Array                 // array; Size counts elements
)

var kindStr = [...]string{
	Undefined: "undefined",
	Primitive: "primitive",
	String:    "string",
	Object:    "object",
	Array:     "array",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// A Token describes a span of source text and the number of its immediate
// children. A token array is a pre-order flattening of the document tree: a
// compound token at index i is followed by the complete flattened subtrees
// of its children, in document order.
type Token struct {
	Kind  Kind
	Start int // offset of the first byte of the token text
	End   int // offset after the last byte of the token text

	// Size is the number of immediate children: key/value pairs for an
	// object, elements for an array, and 0 for leaves.
	Size int
}

// Len reports the length in bytes of the token text.
func (t Token) Len() int { return t.End - t.Start }

// IsLeaf reports whether t is a primitive or string token.
func (t Token) IsLeaf() bool { return t.Kind == Primitive || t.Kind == String }

func (t Token) String() string {
	if t.IsLeaf() {
		return fmt.Sprintf("%v[%d:%d]", t.Kind, t.Start, t.End)
	}
	return fmt.Sprintf("%v[%d:%d](%d)", t.Kind, t.Start, t.End, t.Size)
}
