package repl

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/yndnr/respkv-go/internal/cli/output"
	"github.com/yndnr/respkv-go/internal/protocol/resp"
)

// fakeClient records commands and answers from a fixed table.
type fakeClient struct {
	sent    [][]string
	replies map[string]resp.Value
}

func (f *fakeClient) Do(_ context.Context, args ...string) (resp.Value, error) {
	f.sent = append(f.sent, args)
	if v, ok := f.replies[strings.ToUpper(args[0])]; ok {
		return v, nil
	}
	return resp.Value{}, errors.New("connection refused")
}

func newTestREPL(in string, client Doer) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	r := New(client, "test", output.TextFormatter{},
		WithIO(strings.NewReader(in), out),
		WithHistory(NewHistory("-")),
	)
	return r, out
}

func TestREPL_Run_Exit(t *testing.T) {
	for _, in := range []string{"exit\n", "quit\n", ""} {
		r, _ := newTestREPL(in, &fakeClient{})
		if err := r.Run(context.Background()); err != nil {
			t.Errorf("Run(%q) error = %v", in, err)
		}
	}
}

func TestREPL_Run_Commands(t *testing.T) {
	client := &fakeClient{replies: map[string]resp.Value{
		"PING": resp.SimpleString("PONG"),
		"GET":  resp.BulkString("hello world"),
	}}
	r, out := newTestREPL("ping\n\nGET \"my key\"\nDEL k\nexit\n", client)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{{"ping"}, {"GET", "my key"}, {"DEL", "k"}}
	if !reflect.DeepEqual(client.sent, want) {
		t.Errorf("sent = %v, want %v", client.sent, want)
	}

	got := out.String()
	for _, s := range []string{"test> ", "PONG\n", "\"hello world\"\n", "(error) connection refused\n"} {
		if !strings.Contains(got, s) {
			t.Errorf("output %q missing %q", got, s)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"get key", []string{"get", "key"}, false},
		{"  set   k   v  ", []string{"set", "k", "v"}, false},
		{`set k "hello world"`, []string{"set", "k", "hello world"}, false},
		{`set k 'it"s'`, []string{"set", "k", `it"s`}, false},
		{`echo "a\r\nb"`, []string{"echo", "a\r\nb"}, false},
		{`echo ""`, []string{"echo", ""}, false},
		{`echo "open`, nil, true},
	}

	for _, tt := range tests {
		got, err := SplitArgs(tt.line)
		if (err != nil) != tt.wantErr {
			t.Errorf("SplitArgs(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitArgs(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestHistory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sub", "history")
	h := NewHistory(file)

	h.Add("ping")
	h.Add("ping")
	h.Add("get k")

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (consecutive duplicates collapsed)", h.Len())
	}
	if h.Get(0) != "get k" || h.Get(1) != "ping" {
		t.Errorf("Get(0), Get(1) = %q, %q", h.Get(0), h.Get(1))
	}
	if h.Get(5) != "" {
		t.Error("Get out of range should return empty")
	}

	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewHistory(file)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 2 || loaded.Get(0) != "get k" {
		t.Errorf("loaded history = %d entries, most recent %q", loaded.Len(), loaded.Get(0))
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory("-")
	h.maxSize = 3
	for _, cmd := range []string{"a", "b", "c", "d"} {
		h.Add(cmd)
	}
	if h.Len() != 3 || h.Get(2) != "b" {
		t.Errorf("history after overflow: len %d, oldest %q", h.Len(), h.Get(2))
	}
}
