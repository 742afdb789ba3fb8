package entity

import (
	"strings"
	"time"
)

// RSVP statuses for a registration: not_sent -> pending -> yes/no/maybe.
// Guests may change an answer, the status just moves again.
const (
	RSVPNotSent = "not_sent"
	RSVPPending = "pending"
	RSVPYes     = "yes"
	RSVPNo      = "no"
	RSVPMaybe   = "maybe"
)

type Registration struct {
	ID          string     `json:"id" bson:"_id"`
	EventID     string     `json:"event_id" bson:"event_id"`
	GuestName   string     `json:"guest_name" bson:"guest_name"`
	GuestPhone  string     `json:"guest_phone" bson:"guest_phone"`
	RSVPStatus  string     `json:"rsvp_status" bson:"rsvp_status"`
	RespondedOn *time.Time `json:"responded_on" bson:"responded_on"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}

func NewRegistration(id, eventID, guestName, guestPhone string) *Registration {
	return &Registration{
		ID:         id,
		EventID:    eventID,
		GuestName:  guestName,
		GuestPhone: NormalizePhone(guestPhone),
		RSVPStatus: RSVPNotSent,
		CreatedAt:  time.Now(),
	}
}

func (r *Registration) RSVPAnswered() bool {
	switch r.RSVPStatus {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return true
	}
	return false
}

// NormalizePhone strips everything except digits so numbers coming from
// WhatsApp ("918812345678"), imports ("+91 88123-45678") and manual entry
// compare equal.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}
