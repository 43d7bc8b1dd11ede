package resp

import (
	"io"
	"strconv"
)

// Encode returns the wire form of v.
func Encode(v Value) []byte {
	return AppendValue(nil, v)
}

// AppendValue appends the wire form of v to dst.
//
// KindNull is written as the null bulk string, the null reply used by GET.
func AppendValue(dst []byte, v Value) []byte {
	switch v.Kind {
	case KindSimpleString:
		dst = append(dst, '+')
		dst = append(dst, v.Str...)
	case KindError:
		dst = append(dst, '-')
		dst = append(dst, v.Str...)
	case KindBulkString:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.Str)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, v.Str...)
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.Int, 10)
	case KindArray:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.Array)), 10)
		dst = append(dst, crlf...)
		for _, e := range v.Array {
			dst = AppendValue(dst, e)
		}
		return dst
	default:
		dst = append(dst, "$-1"...)
	}
	return append(dst, crlf...)
}

// WriteValue writes the wire form of v to w. A buffered w is not flushed.
func WriteValue(w io.Writer, v Value) error {
	_, err := w.Write(Encode(v))
	return err
}
