package respserver

import (
	"errors"
	"fmt"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

var (
	// ErrParse marks input that can never become a valid frame. It is
	// terminal for the connection.
	ErrParse = errors.New("protocol error")

	// ErrBufferFull is returned when a client sends more bytes than the
	// session may hold without completing a frame.
	ErrBufferFull = fmt.Errorf("%w: request exceeds buffer limit", ErrParse)
)

// Session accumulates the bytes received on one connection.
//
// A Session is owned by a single connection goroutine and is not safe for
// concurrent use.
type Session struct {
	buf      []byte
	consumed int
	maxBytes int
}

// NewSession creates an empty session. maxBytes caps the held input;
// zero or less means unlimited.
func NewSession(maxBytes int) *Session {
	return &Session{maxBytes: maxBytes}
}

// Append adds a received chunk verbatim.
func (s *Session) Append(chunk []byte) error {
	if s.maxBytes > 0 && len(s.buf)+len(chunk) > s.maxBytes {
		return ErrBufferFull
	}
	s.buf = append(s.buf, chunk...)
	return nil
}

// Next decodes the frame at the front of the held input.
//
// It returns false with a nil error while the input is only a prefix of a
// frame; the held bytes are left untouched. Malformed input yields an
// error wrapping ErrParse.
func (s *Session) Next() (Command, bool, error) {
	v, rest, err := resp.Parse(s.buf)
	if err != nil {
		if resp.IsIncomplete(err) {
			return Command{}, false, nil
		}
		return Command{}, false, fmt.Errorf("%w: %w", ErrParse, err)
	}

	s.consumed = len(s.buf) - len(rest)
	return CommandFromValue(v), true, nil
}

// Reset discards the frame returned by the last Next. Bytes received after
// that frame are kept for the next call; with no decoded frame the buffer
// is emptied. Reset on an empty session is a no-op.
func (s *Session) Reset() {
	if s.consumed == 0 || s.consumed >= len(s.buf) {
		s.buf = s.buf[:0]
		s.consumed = 0
		return
	}
	n := copy(s.buf, s.buf[s.consumed:])
	s.buf = s.buf[:n]
	s.consumed = 0
}

// Len returns the number of held bytes.
func (s *Session) Len() int {
	return len(s.buf)
}

// Bytes returns the held bytes. The slice is only valid until the next
// Append or Reset.
func (s *Session) Bytes() []byte {
	return s.buf
}
