package respserver

import (
	"errors"
	"testing"

	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

func TestSession_CompleteFrame(t *testing.T) {
	s := NewSession(0)
	if err := s.Append([]byte("*1\r\n$4\r\nPING\r\n")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	cmd, ok, err := s.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = (%v, %v)", ok, err)
	}
	if cmd.Kind != CmdPing {
		t.Errorf("Kind = %v, want ping", cmd.Kind)
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", s.Len())
	}

	// Reset on an empty session is a no-op.
	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() after second Reset = %d, want 0", s.Len())
	}
}

func TestSession_IncompleteFrameIsRetained(t *testing.T) {
	s := NewSession(0)
	partial := "*3\r\n$4\r\nECHO\r\n$5\r\nhello\r\n"
	s.Append([]byte(partial))

	_, ok, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v, want nil", err)
	}
	if ok {
		t.Fatal("Next() reported a command for a truncated frame")
	}
	if string(s.Bytes()) != partial {
		t.Errorf("Bytes() = %q, want %q", s.Bytes(), partial)
	}

	s.Append([]byte("$5\r\nworld\r\n"))
	cmd, ok, err := s.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = (%v, %v)", ok, err)
	}
	if cmd.Kind != CmdEcho || len(cmd.Args) != 2 || cmd.Args[0] != "hello" || cmd.Args[1] != "world" {
		t.Errorf("Next() = %+v", cmd)
	}
}

func TestSession_ByteAtATime(t *testing.T) {
	frame := "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n"
	s := NewSession(0)

	for i := 0; i < len(frame)-1; i++ {
		s.Append([]byte{frame[i]})
		if _, ok, err := s.Next(); ok || err != nil {
			t.Fatalf("after %d bytes Next() = (%v, %v), want incomplete", i+1, ok, err)
		}
	}

	s.Append([]byte{frame[len(frame)-1]})
	cmd, ok, err := s.Next()
	if err != nil || !ok || cmd.Kind != CmdSet {
		t.Fatalf("Next() = (%+v, %v, %v)", cmd, ok, err)
	}
}

func TestSession_NULBytesAcrossChunks(t *testing.T) {
	s := NewSession(0)
	if err := s.Append([]byte("*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$2\r\n\x00")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, ok, err := s.Next(); ok || err != nil {
		t.Fatalf("Next() on partial frame = (%v, %v), want incomplete", ok, err)
	}
	if err := s.Append([]byte("\x00\r\n")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	cmd, ok, err := s.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = (%v, %v), want a complete frame", ok, err)
	}
	if cmd.Kind != CmdSet || len(cmd.Args) != 2 || cmd.Args[1] != "\x00\x00" {
		t.Errorf("command = %+v, want SET k \"\\x00\\x00\"", cmd)
	}
}

func TestSession_PipelinedFramesSurviveReset(t *testing.T) {
	s := NewSession(0)
	s.Append([]byte("*1\r\n$4\r\nPING\r\n*2\r\n$3\r\nGET\r\n$1\r\nk\r\n*1\r\n$4\r\nPI"))

	var kinds []CommandKind
	for {
		cmd, ok, err := s.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		kinds = append(kinds, cmd.Kind)
		s.Reset()
	}

	if len(kinds) != 2 || kinds[0] != CmdPing || kinds[1] != CmdGet {
		t.Errorf("decoded %v, want [ping get]", kinds)
	}
	if string(s.Bytes()) != "*1\r\n$4\r\nPI" {
		t.Errorf("remaining = %q", s.Bytes())
	}
}

func TestSession_MalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cause error
	}{
		{"unknown tag", "!oops\r\n", resp.ErrUnrecognisedSymbol},
		{"bad integer", ":abc\r\n", resp.ErrInvalidInput},
		{"bulk too long", "$2\r\nabc\r\n", resp.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(0)
			s.Append([]byte(tt.input))

			_, ok, err := s.Next()
			if ok {
				t.Fatal("Next() reported a command for malformed input")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error = %v, want ErrParse", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want %v", err, tt.cause)
			}
		})
	}
}

func TestSession_BufferLimit(t *testing.T) {
	s := NewSession(8)

	if err := s.Append([]byte("$100\r\n")); err != nil {
		t.Fatalf("Append within limit: %v", err)
	}
	err := s.Append([]byte("abc"))
	if !errors.Is(err, ErrBufferFull) || !errors.Is(err, ErrParse) {
		t.Errorf("Append over limit error = %v, want ErrBufferFull", err)
	}
	if s.Len() != 6 {
		t.Errorf("Len() = %d, want 6", s.Len())
	}
}
