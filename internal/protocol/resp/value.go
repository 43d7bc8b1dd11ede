package resp

import (
	"strconv"
	"strings"
)

// Kind identifies the protocol type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindSimpleString
	KindError
	KindBulkString
	KindInteger
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindSimpleString:
		return "simple-string"
	case KindError:
		return "error"
	case KindBulkString:
		return "bulk-string"
	case KindInteger:
		return "integer"
	case KindArray:
		return "array"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a decoded protocol value.
//
// Str carries the payload of simple strings, errors and bulk strings,
// Int the payload of integers and Array the elements of arrays.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Array []Value
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// SimpleString returns a simple string value.
func SimpleString(s string) Value {
	return Value{Kind: KindSimpleString, Str: s}
}

// Error returns an error value.
func Error(s string) Value {
	return Value{Kind: KindError, Str: s}
}

// BulkString returns a bulk string value.
func BulkString(s string) Value {
	return Value{Kind: KindBulkString, Str: s}
}

// Integer returns an integer value.
func Integer(n int64) Value {
	return Value{Kind: KindInteger, Int: n}
}

// Array returns an array holding vs. A nil vs yields an empty array.
func Array(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{Kind: KindArray, Array: vs}
}

// Command builds the request form clients send: an array of bulk strings.
func Command(args ...string) Value {
	vs := make([]Value, len(args))
	for i, a := range args {
		vs[i] = BulkString(a)
	}
	return Array(vs...)
}

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Equal reports whether v and o hold the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInteger:
		return v.Int == o.Int
	case KindArray:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	default:
		return v.Str == o.Str
	}
}

// String renders v for logs and test failures, not for the wire.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "(nil)"
	case KindSimpleString:
		return "+" + v.Str
	case KindError:
		return "-" + v.Str
	case KindBulkString:
		return strconv.Quote(v.Str)
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return v.Kind.String()
	}
}
