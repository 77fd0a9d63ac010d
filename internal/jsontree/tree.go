// Package jsontree exposes a parsed JSON document as a small read-only value
// tree and builds JSON text from ordered, optionally-present members.
//
// The tree keeps object members and array elements in document order, which
// the generic map[string]any decoding does not. Duplicate object keys are all
// kept in Members; lookups by key see the last one, as encoding/json does.
package jsontree

import (
	"bytes"
	"io"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// Kind identifies the type of a tree value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// ErrEmpty is returned by Parse for input without any JSON value.
var ErrEmpty = errors.New("jsontree: empty document")

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a node of the parsed tree. The zero Value is KindInvalid and
// answers every accessor with its "absent" result, so lookups can be chained
// without checking each step.
type Value struct {
	kind    Kind
	b       bool
	num     json.Number
	str     string
	elems   []Value
	members []Member
}

// Parse builds a tree from JSON text. Trailing non-whitespace after the
// top-level value is an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return Value{}, ErrEmpty
	}
	if err != nil {
		return Value{}, err
	}
	root, err := build(dec, tok)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return Value{}, errors.New("jsontree: unexpected data after top-level value")
		}
		return Value{}, err
	}
	return root, nil
}

func build(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return buildObject(dec)
		case '[':
			return buildArray(dec)
		default:
			return Value{}, errors.Newf("jsontree: unexpected delimiter %q", rune(t))
		}
	case nil:
		return Value{kind: KindNull}, nil
	case bool:
		return Value{kind: KindBool, b: t}, nil
	case json.Number:
		return Value{kind: KindNumber, num: t}, nil
	case float64:
		return Value{kind: KindNumber, num: json.Number(formatFloat64(t))}, nil
	case string:
		return Value{kind: KindString, str: t}, nil
	default:
		return Value{}, errors.Newf("jsontree: unexpected token %T", tok)
	}
}

func buildObject(dec *json.Decoder) (Value, error) {
	v := Value{kind: KindObject}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, unexpectedEOF(err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return v, nil
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, errors.Newf("jsontree: object key must be a string, got %T", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return Value{}, unexpectedEOF(err)
		}
		child, err := build(dec, tok)
		if err != nil {
			return Value{}, err
		}
		v.members = append(v.members, Member{Key: key, Value: child})
	}
}

func buildArray(dec *json.Decoder) (Value, error) {
	v := Value{kind: KindArray}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, unexpectedEOF(err)
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return v, nil
		}
		child, err := build(dec, tok)
		if err != nil {
			return Value{}, err
		}
		v.elems = append(v.elems, child)
	}
}

func formatFloat64(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Kind reports the value's type.
func (v Value) Kind() Kind { return v.kind }

// IsObject reports whether v is a JSON object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsArray reports whether v is a JSON array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// Member returns the last member named key. It reports false when v is not
// an object or has no such member.
func (v Value) Member(key string) (Value, bool) {
	for i := len(v.members) - 1; i >= 0; i-- {
		if v.members[i].Key == key {
			return v.members[i].Value, true
		}
	}
	return Value{}, false
}

// Get is Member without the presence flag.
func (v Value) Get(key string) Value {
	m, _ := v.Member(key)
	return m
}

// Members returns the object's members in document order.
func (v Value) Members() []Member { return v.members }

// Elements returns the array's elements in document order, or nil if v is not
// an array.
func (v Value) Elements() []Value { return v.elems }

// Len is the number of array elements or object members.
func (v Value) Len() int {
	if v.kind == KindObject {
		return len(v.members)
	}
	return len(v.elems)
}

// Float returns a numeric value as float64.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int returns a numeric value as int. Fractional numbers are truncated
// toward zero; values outside the int range are rejected.
func (v Value) Int() (int, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if i, err := v.num.Int64(); err == nil {
		if int64(int(i)) != i {
			return 0, false
		}
		return int(i), true
	}
	f, err := v.num.Float64()
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int(f), true
}

// Str returns a string value.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Bool returns a boolean value.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}
