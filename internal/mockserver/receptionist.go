package mockserver

import (
	"fmt"
	"math/rand"
	"strings"
)

// Responder produces exactly one reply per inbound chat message.
type Responder interface {
	Reply(text string) string
}

type stage int

const (
	stageInitial stage = iota
	stageEmergency
	stageMessage
	stageLocation
	stageFinal
)

// Receptionist is a scripted, per-connection stand-in for the AI
// receptionist. It walks a caller through either the emergency flow
// (details, location, ETA) or the leave-a-message flow.
type Receptionist struct {
	stage     stage
	emergency string
	eta       func() int
}

// NewReceptionist creates a receptionist with a random ETA between 5 and 30 minutes.
func NewReceptionist() *Receptionist {
	return &Receptionist{eta: func() int { return 5 + rand.Intn(26) }}
}

// Reply implements Responder.
func (r *Receptionist) Reply(text string) string {
	in := strings.ToLower(strings.TrimSpace(text))

	switch r.stage {
	case stageInitial:
		switch {
		case strings.Contains(in, "emergency"):
			r.stage = stageEmergency
			return "I'm sorry to hear that. Please describe the emergency."
		case strings.Contains(in, "message"):
			r.stage = stageMessage
			return "Of course. What message would you like to leave for Dr. Adrin?"
		default:
			return "I'm sorry, I don't understand. Are you having an emergency or would you like to leave a message?"
		}
	case stageEmergency:
		r.emergency = in
		r.stage = stageLocation
		return "I am checking what you should do immediately. Meanwhile, can you tell me which area you are located right now?"
	case stageLocation:
		r.stage = stageFinal
		return fmt.Sprintf("Dr. Adrin will be coming to your location immediately. The estimated time of arrival is %d minutes.", r.eta())
	case stageMessage:
		r.stage = stageFinal
		return "Thanks for the message. We will forward it to Dr. Adrin."
	default:
		if r.emergency != "" {
			return "Don't worry, please follow these steps. Dr. Adrin will be with you shortly."
		}
		return "Is there anything else I can help you with?"
	}
}
