package mockserver

import (
	"strings"
	"testing"
)

func TestReceptionistEmergencyFlow(t *testing.T) {
	t.Parallel()

	r := &Receptionist{eta: func() int { return 12 }}

	steps := []struct {
		in   string
		want string
	}{
		{in: "It's an EMERGENCY", want: "describe the emergency"},
		{in: "my son is not breathing", want: "which area you are located"},
		{in: "Baker street", want: "estimated time of arrival is 12 minutes"},
		{in: "thanks", want: "Dr. Adrin will be with you shortly"},
	}
	for i, step := range steps {
		got := r.Reply(step.in)
		if !strings.Contains(got, step.want) {
			t.Fatalf("step %d: Reply(%q) = %q, want it to contain %q", i, step.in, got, step.want)
		}
	}
}

func TestReceptionistMessageFlow(t *testing.T) {
	t.Parallel()

	r := NewReceptionist()

	if got := r.Reply("I'd like to leave a message"); !strings.Contains(got, "What message") {
		t.Fatalf("unexpected reply: %q", got)
	}
	if got := r.Reply("Please call me back"); got != "Thanks for the message. We will forward it to Dr. Adrin." {
		t.Fatalf("unexpected reply: %q", got)
	}
	if got := r.Reply("bye"); got != "Is there anything else I can help you with?" {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestReceptionistAsksAgainWhenUnclear(t *testing.T) {
	t.Parallel()

	r := NewReceptionist()
	for i := 0; i < 2; i++ {
		if got := r.Reply("hello?"); !strings.Contains(got, "I don't understand") {
			t.Fatalf("Reply = %q", got)
		}
	}
	if r.stage != stageInitial {
		t.Fatalf("stage advanced on unclear input: %v", r.stage)
	}
}

func TestReceptionistETARange(t *testing.T) {
	t.Parallel()

	r := NewReceptionist()
	for i := 0; i < 200; i++ {
		if eta := r.eta(); eta < 5 || eta > 30 {
			t.Fatalf("eta %d out of range", eta)
		}
	}
}
