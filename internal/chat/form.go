package chat

import "sync"

// Submitter accepts composed text. *Client implements it.
type Submitter interface {
	Submit(text string) bool
}

// Form holds the compose input and hands its value to a Submitter.
type Form struct {
	mu        sync.Mutex
	value     string
	submitter Submitter
}

// NewForm creates a form submitting to s.
func NewForm(s Submitter) *Form {
	return &Form{submitter: s}
}

// SetValue replaces the input value.
func (f *Form) SetValue(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

// Value returns the input value.
func (f *Form) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Submit delegates the current value and clears the input once the text was
// accepted. Delivery is not awaited. Blank input is left untouched.
func (f *Form) Submit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.submitter.Submit(f.value) {
		return false
	}
	f.value = ""
	return true
}
