package chat

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

type recordingView struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (v *recordingView) Render(e Entry) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = append(v.entries, e)
	return v.err
}

func TestTranscriptAppendRendersInOrder(t *testing.T) {
	t.Parallel()

	view := &recordingView{}
	tr := NewTranscript(view, testLogger())

	tr.Append("greeting", SenderAI)
	tr.Append("hello", SenderUser)
	tr.Append("hi", SenderAI)

	entries := tr.Entries()
	if len(entries) != 3 || len(view.entries) != 3 {
		t.Fatalf("expected 3 entries stored and rendered, got %d/%d", len(entries), len(view.entries))
	}
	for i, e := range entries {
		if view.entries[i] != e {
			t.Errorf("entry %d rendered as %+v, stored as %+v", i, view.entries[i], e)
		}
		if e.At.IsZero() {
			t.Errorf("entry %d has no timestamp", i)
		}
	}
	if entries[1].Sender != SenderUser || entries[1].Text != "hello" {
		t.Errorf("unexpected entry: %+v", entries[1])
	}
}

func TestTranscriptEntriesIsACopy(t *testing.T) {
	t.Parallel()

	tr := NewTranscript(nil, nil)
	tr.Append("one", SenderUser)

	entries := tr.Entries()
	entries[0].Text = "mutated"

	if got := tr.Entries()[0].Text; got != "one" {
		t.Fatalf("transcript entry changed through copy: %q", got)
	}
}

func TestTranscriptKeepsEntryOnRenderError(t *testing.T) {
	t.Parallel()

	tr := NewTranscript(&recordingView{err: errors.New("broken pipe")}, testLogger())
	tr.Append("still stored", SenderAI)

	if tr.Len() != 1 {
		t.Fatalf("entry should be kept when rendering fails, len = %d", tr.Len())
	}
}

func TestTerminalViewRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := NewTranscript(NewTerminalView(&buf), testLogger())

	tr.Append("Welcome", SenderAI)
	tr.Append("line one\nline two", SenderUser)

	want := "ai> Welcome\nyou> line one\n     line two\n"
	if got := buf.String(); got != want {
		t.Fatalf("rendered output:\n%q\nwant:\n%q", got, want)
	}
}

func TestPlainTextStripsTerminalControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello world", want: "hello world"},
		{name: "markup kept literally", in: "<b>hi</b> & bye", want: "<b>hi</b> & bye"},
		{name: "sgr color", in: "\x1b[31merror\x1b[0m plain", want: "error plain"},
		{name: "osc title", in: "\x1b]0;pwned\x07text", want: "text"},
		{name: "clear screen", in: "\x1b[2Jafter", want: "after"},
		{name: "carriage return", in: "a\r\nb\rc", want: "a\nbc"},
		{name: "bell and nul", in: "x\x07y\x00z", want: "xyz"},
		{name: "tabs kept", in: "a\tb", want: "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Fatalf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTerminalViewConcurrentWrites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	view := NewTerminalView(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = view.Render(Entry{Text: "msg", Sender: SenderAI})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if l != "ai> msg" {
			t.Fatalf("interleaved output: %q", l)
		}
	}
}
