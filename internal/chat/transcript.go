// Package chat implements the receptionist chat client: a single WebSocket
// connection with automatic reconnects, and the transcript it renders.
package chat

import (
	"log/slog"
	"sync"
	"time"
)

// Sender identifies who produced a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Entry is one rendered chat message. Entries are never mutated after creation.
type Entry struct {
	Text   string
	Sender Sender
	At     time.Time
}

// View receives entries in transcript order and shows the newest one.
type View interface {
	Render(Entry) error
}

// Transcript is the ordered, append-only list of chat entries.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
	view    View
	logger  *slog.Logger
	now     func() time.Time
}

// NewTranscript creates an empty transcript rendering to view. A nil view
// keeps entries in memory only.
func NewTranscript(view View, logger *slog.Logger) *Transcript {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcript{
		view:   view,
		logger: logger,
		now:    time.Now,
	}
}

// Append adds an entry and renders it. Rendering happens under the
// transcript lock so the view sees entries in the same order they are stored.
func (t *Transcript) Append(text string, sender Sender) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := Entry{Text: text, Sender: sender, At: t.now()}
	t.entries = append(t.entries, e)

	if t.view != nil {
		if err := t.view.Render(e); err != nil {
			t.logger.Warn("Failed to render transcript entry", "sender", sender, "error", err)
		}
	}
	return e
}

// Entries returns a copy of the transcript.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
