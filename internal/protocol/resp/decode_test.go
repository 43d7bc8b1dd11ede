package resp

import (
	"errors"
	"strings"
	"testing"
)

// ============================================================
// Parse - valid frames
// ============================================================

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
		rest  string
	}{
		{
			name:  "simple string",
			input: "+OK\r\n",
			want:  SimpleString("OK"),
		},
		{
			name:  "empty simple string",
			input: "+\r\n",
			want:  SimpleString(""),
		},
		{
			name:  "error",
			input: "-ERR unknown command\r\n",
			want:  Error("ERR unknown command"),
		},
		{
			name:  "integer",
			input: ":1000\r\n",
			want:  Integer(1000),
		},
		{
			name:  "negative integer",
			input: ":-42\r\n",
			want:  Integer(-42),
		},
		{
			name:  "bulk string",
			input: "$5\r\nhello\r\n",
			want:  BulkString("hello"),
		},
		{
			name:  "empty bulk string",
			input: "$0\r\n\r\n",
			want:  BulkString(""),
		},
		{
			name:  "bulk string with embedded CRLF",
			input: "$7\r\nab\r\ncde\r\n",
			want:  BulkString("ab\r\ncde"),
		},
		{
			name:  "null bulk string",
			input: "$-1\r\n",
			want:  Null(),
		},
		{
			name:  "null array",
			input: "*-1\r\n",
			want:  Null(),
		},
		{
			name:  "empty array",
			input: "*0\r\n",
			want:  Array(),
		},
		{
			name:  "array of bulk strings",
			input: "*2\r\n$3\r\nhey\r\n$5\r\nthere\r\n",
			want:  Command("hey", "there"),
		},
		{
			name:  "array of integers",
			input: "*3\r\n:1\r\n:2\r\n:3\r\n",
			want:  Array(Integer(1), Integer(2), Integer(3)),
		},
		{
			name:  "nested array",
			input: "*2\r\n*3\r\n:1\r\n:2\r\n:3\r\n*2\r\n+Hello\r\n-World\r\n",
			want: Array(
				Array(Integer(1), Integer(2), Integer(3)),
				Array(SimpleString("Hello"), Error("World")),
			),
		},
		{
			name:  "trailing bytes are returned",
			input: "+PONG\r\n*1\r\n",
			want:  SimpleString("PONG"),
			rest:  "*1\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if string(rest) != tt.rest {
				t.Errorf("rest = %q, want %q", rest, tt.rest)
			}
		})
	}
}

// ============================================================
// Parse - malformed frames
// ============================================================

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"unknown tag", "?foo\r\n", ErrUnrecognisedSymbol},
		{"inline command", "PING\r\n", ErrUnrecognisedSymbol},
		{"non numeric integer", ":abc\r\n", ErrInvalidInput},
		{"non numeric bulk length", "$x\r\nhello\r\n", ErrInvalidInput},
		{"negative bulk length", "$-2\r\n", ErrInvalidInput},
		{"bulk longer than declared", "$3\r\nhello\r\n", ErrInvalidInput},
		{"bulk terminator not at declared length", "$3\r\nab\r\nXYZ", ErrInvalidInput},
		{"non numeric array length", "*x\r\n", ErrInvalidInput},
		{"negative array length", "*-5\r\n", ErrInvalidInput},
		{"bad element short-circuits", "*2\r\n:1\r\n?\r\n", ErrUnrecognisedSymbol},
		{"bulk over limit", "$999999999999\r\n", ErrLimitExceeded},
		{"array over limit", "*99999999\r\n", ErrLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if IsIncomplete(err) {
				t.Errorf("Parse(%q) error classified as incomplete", tt.input)
			}
		})
	}
}

func TestParse_DepthLimit(t *testing.T) {
	nested := func(depth int) string {
		return strings.Repeat("*1\r\n", depth) + ":1\r\n"
	}

	if _, _, err := Parse([]byte(nested(MaxDepth))); err != nil {
		t.Fatalf("Parse(depth %d) error = %v", MaxDepth, err)
	}

	_, _, err := Parse([]byte(nested(MaxDepth + 1)))
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("Parse(depth %d) error = %v, want %v", MaxDepth+1, err, ErrDepthExceeded)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ErrDepthExceeded should match ErrInvalidInput")
	}
}

// ============================================================
// Parse - streaming prefixes
// ============================================================

func TestParse_Incomplete(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"tag only", "+"},
		{"missing LF", "+OK\r"},
		{"bulk header only", "$5\r\n"},
		{"bulk payload short", "$5\r\nhel"},
		{"bulk payload without CRLF", "$5\r\nhello"},
		{"array missing elements", "*2\r\n$3\r\nhey\r\n"},
		{"truncated echo", "*3\r\n$4\r\nECHO\r\n$5\r\nhello\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rest, err := Parse([]byte(tt.input))
			if !IsIncomplete(err) {
				t.Fatalf("Parse(%q) error = %v, want incomplete", tt.input, err)
			}
			if string(rest) != tt.input {
				t.Errorf("rest = %q, want input returned untouched", rest)
			}
		})
	}
}

func TestParse_EveryPrefixIsIncomplete(t *testing.T) {
	frames := []string{
		"+OK\r\n",
		"-ERR bad\r\n",
		":12345\r\n",
		"$5\r\nhello\r\n",
		"$0\r\n\r\n",
		"$-1\r\n",
		"*0\r\n",
		"*-1\r\n",
		"*3\r\n$3\r\nSET\r\n$5\r\nhello\r\n$5\r\nworld\r\n",
		"*2\r\n*3\r\n:1\r\n:2\r\n:3\r\n*2\r\n+Hello\r\n-World\r\n",
	}

	for _, frame := range frames {
		for i := 0; i < len(frame); i++ {
			prefix := frame[:i]
			_, _, err := Parse([]byte(prefix))
			if !IsIncomplete(err) {
				t.Errorf("Parse(%q) error = %v, want incomplete", prefix, err)
			}
		}
	}
}

func TestIsIncomplete(t *testing.T) {
	if !IsIncomplete(ErrIncompleteInput) {
		t.Error("ErrIncompleteInput should be incomplete")
	}
	if !IsIncomplete(ErrCRLFNotFound) {
		t.Error("ErrCRLFNotFound should be incomplete")
	}
	if IsIncomplete(ErrInvalidInput) {
		t.Error("ErrInvalidInput should not be incomplete")
	}
	if IsIncomplete(nil) {
		t.Error("nil should not be incomplete")
	}
}

func TestParse_BulkLocatedByLength(t *testing.T) {
	v, rest, err := Parse([]byte("$4\r\na\r\nb\r\n+OK\r\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !v.Equal(BulkString("a\r\nb")) {
		t.Errorf("value = %v, want bulk with embedded CRLF", v)
	}
	if string(rest) != "+OK\r\n" {
		t.Errorf("rest = %q, want %q", rest, "+OK\r\n")
	}
}
