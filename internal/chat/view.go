package chat

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// ansiSequence matches CSI and OSC escape sequences.
var ansiSequence = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// TerminalView writes one line per entry to an io.Writer.
type TerminalView struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminalView creates a view writing to w.
func NewTerminalView(w io.Writer) *TerminalView {
	return &TerminalView{w: w}
}

// Render writes the entry prefixed by its sender role. Continuation lines are
// indented under the prefix.
func (v *TerminalView) Render(e Entry) error {
	prefix := "ai> "
	if e.Sender == SenderUser {
		prefix = "you> "
	}
	indent := strings.Repeat(" ", len(prefix))

	lines := strings.Split(PlainText(e.Text), "\n")

	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(prefix)
		} else {
			b.WriteString(indent)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, err := io.WriteString(v.w, b.String()); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// PlainText returns s with terminal escape sequences and control characters
// removed, keeping newlines and tabs.
func PlainText(s string) string {
	s = ansiSequence.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
