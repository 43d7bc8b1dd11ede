package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Protocol limits to keep adversarial frames from exhausting the server.
const (
	// MaxDepth limits array nesting. Each nested array costs a stack frame.
	MaxDepth = 64

	// MaxArrayLen limits the declared element count of a single array.
	MaxArrayLen = 1024 * 1024

	// MaxBulkLen limits the declared size of a single bulk string (512MB).
	MaxBulkLen = 512 * 1024 * 1024
)

var (
	// ErrIncompleteInput means the frame is a valid prefix; wait for more bytes.
	ErrIncompleteInput = errors.New("resp: incomplete input")
	// ErrCRLFNotFound means no line terminator has arrived yet; callers treat it
	// exactly like ErrIncompleteInput.
	ErrCRLFNotFound = errors.New("resp: CRLF not found")
	// ErrUnrecognisedSymbol means the type tag is not one of + - $ : *.
	ErrUnrecognisedSymbol = errors.New("resp: unrecognised symbol")
	// ErrInvalidInput means the frame can never become valid.
	ErrInvalidInput = errors.New("resp: invalid input")

	ErrDepthExceeded = fmt.Errorf("%w: nesting exceeds depth %d", ErrInvalidInput, MaxDepth)
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrInvalidInput)
)

// IsIncomplete reports whether err only signals that more bytes are needed.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncompleteInput) || errors.Is(err, ErrCRLFNotFound)
}

var crlf = []byte("\r\n")

// Parse decodes one value from the front of b and returns it together with
// the bytes that follow it. b is never modified.
func Parse(b []byte) (Value, []byte, error) {
	return parse(b, 0)
}

func parse(b []byte, depth int) (Value, []byte, error) {
	if len(b) == 0 {
		return Value{}, b, ErrCRLFNotFound
	}

	tag, body := b[0], b[1:]
	switch tag {
	case '+':
		line, rest, err := readLine(body)
		if err != nil {
			return Value{}, b, err
		}
		return SimpleString(string(line)), rest, nil
	case '-':
		line, rest, err := readLine(body)
		if err != nil {
			return Value{}, b, err
		}
		return Error(string(line)), rest, nil
	case ':':
		return parseInteger(b, body)
	case '$':
		return parseBulkString(b, body)
	case '*':
		return parseArray(b, body, depth)
	default:
		return Value{}, b, fmt.Errorf("%w: %q", ErrUnrecognisedSymbol, tag)
	}
}

func parseInteger(b, body []byte) (Value, []byte, error) {
	line, rest, err := readLine(body)
	if err != nil {
		return Value{}, b, err
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return Value{}, b, fmt.Errorf("%w: integer %q", ErrInvalidInput, line)
	}
	return Integer(n), rest, nil
}

func parseBulkString(b, body []byte) (Value, []byte, error) {
	line, rest, err := readLine(body)
	if err != nil {
		return Value{}, b, err
	}
	if string(line) == "-1" {
		return Null(), rest, nil
	}
	n, err := strconv.Atoi(string(line))
	if err != nil || n < 0 {
		return Value{}, b, fmt.Errorf("%w: bulk length %q", ErrInvalidInput, line)
	}
	if n > MaxBulkLen {
		return Value{}, b, fmt.Errorf("%w: bulk length %d exceeds %d", ErrLimitExceeded, n, MaxBulkLen)
	}

	// The payload is binary safe, so it is located by its declared length
	// and only the terminator position is checked.
	if len(rest) < n+2 {
		return Value{}, b, ErrIncompleteInput
	}
	if !bytes.Equal(rest[n:n+2], crlf) {
		return Value{}, b, fmt.Errorf("%w: bulk payload longer than declared length %d", ErrInvalidInput, n)
	}
	return BulkString(string(rest[:n])), rest[n+2:], nil
}

func parseArray(b, body []byte, depth int) (Value, []byte, error) {
	if depth >= MaxDepth {
		return Value{}, b, ErrDepthExceeded
	}
	line, rest, err := readLine(body)
	if err != nil {
		return Value{}, b, err
	}
	if string(line) == "-1" {
		return Null(), rest, nil
	}
	n, err := strconv.Atoi(string(line))
	if err != nil || n < 0 {
		return Value{}, b, fmt.Errorf("%w: array length %q", ErrInvalidInput, line)
	}
	if n > MaxArrayLen {
		return Value{}, b, fmt.Errorf("%w: array length %d exceeds %d", ErrLimitExceeded, n, MaxArrayLen)
	}

	// Cap the preallocation: the count is client controlled.
	elems := make([]Value, 0, min(n, 64))
	for i := 0; i < n; i++ {
		var v Value
		v, rest, err = parse(rest, depth+1)
		if err != nil {
			return Value{}, b, err
		}
		elems = append(elems, v)
	}
	return Array(elems...), rest, nil
}

// readLine splits b at the first CRLF.
func readLine(b []byte) (line, rest []byte, err error) {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return b[:i], b[i+2:], nil
		}
	}
	return nil, b, ErrCRLFNotFound
}
