// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jflat

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/creachadair/jflat/internal/escape"
	"go4.org/mem"
)

// Limits on the number of decimal places used to format floating-point
// values.
const (
	DefaultDecimals = 3
	MaxDecimals     = 15
)

// A Writer constructs a JSON document incrementally into a Sink. The
// document is built from a stack of open contexts: Create opens the root,
// Object and ArrayObject open a child above the current top, and Close closes
// a context together with any of its open descendants.
//
// Each value is added to the sink in a single Append, so a value is either
// written completely or not at all. The first error reported by the sink is
// sticky: once the sink is full, every later operation on the Writer or its
// contexts reports that error.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	sink     Sink
	stk      []*Context // open contexts, innermost last
	scratch  []byte     // reused to assemble one value
	decimals int
	err      error
}

// NewWriter constructs a Writer that writes to sink.
func NewWriter(sink Sink) *Writer {
	return &Writer{sink: sink, decimals: DefaultDecimals}
}

// SetDecimals sets the number of decimal places used to format
// floating-point values. If n is outside the range 0..MaxDecimals, the
// setting is reset to DefaultDecimals and SetDecimals reports ErrFormat.
func (w *Writer) SetDecimals(n int) error {
	if n < 0 || n > MaxDecimals {
		w.decimals = DefaultDecimals
		return fmt.Errorf("%w: %d decimals not in 0..%d", ErrFormat, n, MaxDecimals)
	}
	w.decimals = n
	return nil
}

// Decimals reports the number of decimal places used for floating-point
// values.
func (w *Writer) Decimals() int { return w.decimals }

// Err reports the sticky error of w, if any.
func (w *Writer) Err() error { return w.err }

// Depth reports the number of currently open contexts.
func (w *Writer) Depth() int { return len(w.stk) }

// Create writes the opening brace of a new document and returns its root
// context. There must be no open context.
func (w *Writer) Create() (*Context, error) {
	if w.err != nil {
		return nil, w.err
	} else if len(w.stk) != 0 {
		return nil, fmt.Errorf("%w: create with %d open contexts", ErrFormat, len(w.stk))
	}
	if err := w.flush(append(w.scratch[:0], '{')); err != nil {
		return nil, err
	}
	return w.push(false), nil
}

func (w *Writer) push(array bool) *Context {
	o := &Context{w: w, depth: len(w.stk), array: array}
	w.stk = append(w.stk, o)
	return o
}

func (w *Writer) top() *Context {
	if len(w.stk) == 0 {
		return nil
	}
	return w.stk[len(w.stk)-1]
}

// flush appends b to the sink as a single unit.
func (w *Writer) flush(b []byte) error {
	w.scratch = b[:0]
	if len(b) > w.sink.Space() {
		w.err = ErrBufferFull
		return w.err
	}
	if err := w.sink.Append(b); err != nil {
		w.err = err
		return err
	}
	return nil
}

// A Context is one open object of a Writer. Values are added to the object
// with the methods of its context, each of which writes a key and its value.
// A context accepts values only while it is the innermost open context.
type Context struct {
	w      *Writer
	depth  int  // position in the context stack
	count  int  // values written at this level
	array  bool // opened as an array of objects
	closed bool
}

// Len reports the number of values written to o.
func (o *Context) Len() int { return o.count }

// Depth reports the nesting depth of o; the root is at depth 0.
func (o *Context) Depth() int { return o.depth }

// OpenChildren reports the number of contexts open beneath o.
func (o *Context) OpenChildren() int {
	if o.closed {
		return 0
	}
	return len(o.w.stk) - 1 - o.depth
}

// check reports whether o may accept a value.
func (o *Context) check() error {
	switch {
	case o.w.err != nil:
		return o.w.err
	case o.closed:
		return fmt.Errorf("%w: context is closed", ErrFormat)
	case o.w.top() != o:
		return fmt.Errorf("%w: context has %d open children", ErrFormat, o.OpenChildren())
	}
	return nil
}

// begin starts a new value with the given key and returns the scratch
// buffer holding the separator and key.
func (o *Context) begin(key string) ([]byte, error) {
	if err := o.check(); err != nil {
		return nil, err
	}
	b := o.w.scratch[:0]
	if o.count > 0 {
		b = append(b, ',')
	}
	b = escape.AppendQuote(b, mem.S(key))
	return append(b, ':'), nil
}

// finish writes a value assembled in b, and counts it if successful.
func (o *Context) finish(b []byte) error {
	if err := o.w.flush(b); err != nil {
		return err
	}
	o.count++
	return nil
}

func (o *Context) literal(key, lit string) error {
	b, err := o.begin(key)
	if err != nil {
		return err
	}
	return o.finish(append(b, lit...))
}

// Null adds a null value for key.
func (o *Context) Null(key string) error { return o.literal(key, "null") }

// Bool adds a Boolean value for key.
func (o *Context) Bool(key string, v bool) error {
	if v {
		return o.literal(key, "true")
	}
	return o.literal(key, "false")
}

// Number adds a numeric value for key. The value must have a built-in
// integer or floating-point type. Integers are written in decimal, and
// floating-point values with the decimal places set for the Writer.
// Infinities and NaN cannot be written and report ErrFormat.
func (o *Context) Number(key string, v any) error {
	b, err := o.begin(key)
	if err != nil {
		return err
	}
	b, err = o.w.appendNumber(b, v)
	if err != nil {
		return err
	}
	return o.finish(b)
}

// String adds a string value for key.
func (o *Context) String(key, v string) error {
	b, err := o.begin(key)
	if err != nil {
		return err
	}
	return o.finish(escape.AppendQuote(b, mem.S(v)))
}

// Time adds a timestamp value for key, written as a string in RFC 3339
// format in UTC.
func (o *Context) Time(key string, t time.Time) error {
	b, err := o.begin(key)
	if err != nil {
		return err
	}
	b = append(b, '"')
	b = t.UTC().AppendFormat(b, time.RFC3339Nano)
	return o.finish(append(b, '"'))
}

// Numbers adds an array of numbers for key. The value must be a slice of a
// built-in integer or floating-point type, formatted as for Number.
func (o *Context) Numbers(key string, v any) error {
	b, err := o.begin(key)
	if err != nil {
		return err
	}
	prec := o.w.decimals
	switch t := v.(type) {
	case []int:
		b = appendInts(b, t)
	case []int8:
		b = appendInts(b, t)
	case []int16:
		b = appendInts(b, t)
	case []int32:
		b = appendInts(b, t)
	case []int64:
		b = appendInts(b, t)
	case []uint:
		b = appendUints(b, t)
	case []uint8:
		b = appendUints(b, t)
	case []uint16:
		b = appendUints(b, t)
	case []uint32:
		b = appendUints(b, t)
	case []uint64:
		b = appendUints(b, t)
	case []float32:
		b, err = appendFloats(b, t, prec, 32)
	case []float64:
		b, err = appendFloats(b, t, prec, 64)
	default:
		err = fmt.Errorf("%w: unsupported array type %T", ErrFormat, v)
	}
	if err != nil {
		return err
	}
	return o.finish(b)
}

// Strings adds an array of strings for key.
func (o *Context) Strings(key string, vs []string) error {
	b, err := o.begin(key)
	if err != nil {
		return err
	}
	b = append(b, '[')
	for i, v := range vs {
		if i > 0 {
			b = append(b, ',')
		}
		b = escape.AppendQuote(b, mem.S(v))
	}
	return o.finish(append(b, ']'))
}

// Add adds v for key, choosing the encoding from the dynamic type of v:
//
//	nil                    null
//	bool                   true or false (see Bool)
//	string                 string (see String)
//	time.Time              timestamp (see Time)
//	[]string               array of strings (see Strings)
//	integer, float         number (see Number)
//	slice of integer/float array of numbers (see Numbers)
//
// Other types report ErrFormat. Use Object or ArrayObject to add a nested
// object.
func (o *Context) Add(key string, v any) error {
	switch t := v.(type) {
	case nil:
		return o.Null(key)
	case bool:
		return o.Bool(key, t)
	case string:
		return o.String(key, t)
	case time.Time:
		return o.Time(key, t)
	case []string:
		return o.Strings(key, t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return o.Number(key, t)
	case []int, []int8, []int16, []int32, []int64, []uint, []uint8, []uint16, []uint32, []uint64,
		[]float32, []float64:
		return o.Numbers(key, t)
	default:
		if err := o.check(); err != nil {
			return err
		}
		return fmt.Errorf("%w: unsupported value shape %T", ErrFormat, v)
	}
}

// Object adds a nested object for key and returns its context, which
// becomes the innermost open context. Further values for the nested object
// are added to the returned context; o accepts values again once the child
// is closed.
func (o *Context) Object(key string) (*Context, error) { return o.child(key, false) }

// ArrayObject adds an array for key whose first element is a nested object,
// and returns the context of that object. Use Next on the returned context
// to begin each further element. Closing the context closes both the object
// and the array.
func (o *Context) ArrayObject(key string) (*Context, error) { return o.child(key, true) }

func (o *Context) child(key string, array bool) (*Context, error) {
	b, err := o.begin(key)
	if err != nil {
		return nil, err
	}
	if array {
		b = append(b, '[')
	}
	if err := o.finish(append(b, '{')); err != nil {
		return nil, err
	}
	return o.w.push(array), nil
}

// Next closes the current element of an array-of-objects context o, and
// begins a new element object in the same array. Any open children of o are
// closed first.
func (o *Context) Next() error {
	if !o.array {
		return fmt.Errorf("%w: context is not an array element", ErrFormat)
	} else if o.closed {
		return fmt.Errorf("%w: context is closed", ErrFormat)
	} else if o.w.err != nil {
		return o.w.err
	}
	if err := o.closeChildren(); err != nil {
		return err
	}
	if err := o.w.flush(append(o.w.scratch[:0], '}', ',', '{')); err != nil {
		return err
	}
	o.count = 0
	return nil
}

// Close closes o, after first closing any of its open children, innermost
// first. It writes the closing brace of o (and the closing bracket, for an
// array-of-objects context). Closing a context that is already closed
// reports ErrFormat. A closed context must not be reused.
func (o *Context) Close() error {
	if o.closed {
		return fmt.Errorf("%w: context is already closed", ErrFormat)
	}
	if err := o.closeChildren(); err != nil {
		return err
	}
	return o.w.pop()
}

func (o *Context) closeChildren() error {
	for len(o.w.stk) > o.depth+1 {
		if err := o.w.pop(); err != nil {
			return err
		}
	}
	return nil
}

// pop closes the innermost open context.
func (w *Writer) pop() error {
	if w.err != nil {
		return w.err
	}
	top := w.top()
	b := append(w.scratch[:0], '}')
	if top.array {
		b = append(b, ']')
	}
	if err := w.flush(b); err != nil {
		return err
	}
	top.closed = true
	w.stk[len(w.stk)-1] = nil
	w.stk = w.stk[:len(w.stk)-1]
	return nil
}

func (w *Writer) appendNumber(b []byte, v any) ([]byte, error) {
	switch t := v.(type) {
	case int:
		return strconv.AppendInt(b, int64(t), 10), nil
	case int8:
		return strconv.AppendInt(b, int64(t), 10), nil
	case int16:
		return strconv.AppendInt(b, int64(t), 10), nil
	case int32:
		return strconv.AppendInt(b, int64(t), 10), nil
	case int64:
		return strconv.AppendInt(b, t, 10), nil
	case uint:
		return strconv.AppendUint(b, uint64(t), 10), nil
	case uint8:
		return strconv.AppendUint(b, uint64(t), 10), nil
	case uint16:
		return strconv.AppendUint(b, uint64(t), 10), nil
	case uint32:
		return strconv.AppendUint(b, uint64(t), 10), nil
	case uint64:
		return strconv.AppendUint(b, t, 10), nil
	case float32:
		return appendFloat(b, float64(t), w.decimals, 32)
	case float64:
		return appendFloat(b, t, w.decimals, 64)
	default:
		return nil, fmt.Errorf("%w: unsupported number type %T", ErrFormat, v)
	}
}

func appendFloat(b []byte, v float64, prec, bits int) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %v is not representable", ErrFormat, v)
	}
	return strconv.AppendFloat(b, v, 'f', prec, bits), nil
}

func appendInts[T signed](b []byte, vs []T) []byte {
	b = append(b, '[')
	for i, v := range vs {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return append(b, ']')
}

func appendUints[T unsigned](b []byte, vs []T) []byte {
	b = append(b, '[')
	for i, v := range vs {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendUint(b, uint64(v), 10)
	}
	return append(b, ']')
}

func appendFloats[T float32 | float64](b []byte, vs []T, prec, bits int) ([]byte, error) {
	b = append(b, '[')
	for i, v := range vs {
		if i > 0 {
			b = append(b, ',')
		}
		var err error
		if b, err = appendFloat(b, float64(v), prec, bits); err != nil {
			return nil, err
		}
	}
	return append(b, ']'), nil
}
