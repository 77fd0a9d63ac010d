package jsontree

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Node is a value that can be written as JSON text.
type Node interface {
	appendJSON(dst []byte) []byte
}

// Int is a JSON integer.
type Int int64

// Float is a JSON number carried at float32 precision, written in its
// shortest round-tripping form.
type Float float32

// String is a JSON string.
type String string

// Bool is a JSON boolean.
type Bool bool

// Array is an ordered list of nodes.
type Array []Node

// Field is one candidate member of an Object. Only present fields are
// written.
type Field struct {
	Present bool
	Key     string
	Value   Node
}

// Object is an ordered list of candidate members. Commas are placed between
// the present members only.
type Object []Field

// Required returns a field that is always written.
func Required(key string, v Node) Field {
	return Field{Present: true, Key: key, Value: v}
}

// Optional returns a field that is written only when present is true.
func Optional(present bool, key string, v Node) Field {
	return Field{Present: present, Key: key, Value: v}
}

// Marshal renders n as compact JSON text.
func Marshal(n Node) []byte {
	return n.appendJSON(make([]byte, 0, 1024))
}

func (i Int) appendJSON(dst []byte) []byte {
	return strconv.AppendInt(dst, int64(i), 10)
}

func (f Float) appendJSON(dst []byte) []byte {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(dst, "null"...)
	}
	return strconv.AppendFloat(dst, v, 'g', -1, 32)
}

func (s String) appendJSON(dst []byte) []byte {
	return appendQuoted(dst, string(s))
}

func (b Bool) appendJSON(dst []byte) []byte {
	return strconv.AppendBool(dst, bool(b))
}

func (a Array) appendJSON(dst []byte) []byte {
	dst = append(dst, '[')
	for i, n := range a {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = n.appendJSON(dst)
	}
	return append(dst, ']')
}

func (o Object) appendJSON(dst []byte) []byte {
	dst = append(dst, '{')
	first := true
	for _, f := range o {
		if !f.Present {
			continue
		}
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = appendQuoted(dst, f.Key)
		dst = append(dst, ':')
		dst = f.Value.appendJSON(dst)
	}
	return append(dst, '}')
}

func appendQuoted(dst []byte, s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshalling a Go string cannot fail.
		return append(dst, strconv.Quote(s)...)
	}
	return append(dst, b...)
}

// Floats converts a float32 slice into an Array.
func Floats(vs []float32) Array {
	out := make(Array, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

// Ints converts an int slice into an Array.
func Ints(vs []int) Array {
	out := make(Array, len(vs))
	for i, v := range vs {
		out[i] = Int(v)
	}
	return out
}
