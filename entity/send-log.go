package entity

import (
	"time"

	"github.com/google/uuid"
)

// Outbound message kinds recorded in the send log.
const (
	SendKindText    = "text"
	SendKindButtons = "buttons"
	SendKindResume  = "resume_template"
	SendKindRSVP    = "rsvp_template"
)

// SendLog records one outbound WhatsApp message. The most recent entry per
// phone is how inbound replies without an explicit registration reference get
// correlated back to a registration.
type SendLog struct {
	ID             string    `json:"id" bson:"_id"`
	RegistrationID string    `json:"registration_id" bson:"registration_id"`
	Phone          string    `json:"phone" bson:"phone"`
	Kind           string    `json:"kind" bson:"kind"`
	MessageID      string    `json:"message_id" bson:"message_id"`
	SentAt         time.Time `json:"sent_at" bson:"sent_at"`
}

func NewSendLog(registrationID, phone, kind, messageID string) *SendLog {
	return &SendLog{
		ID:             uuid.NewString(),
		RegistrationID: registrationID,
		Phone:          NormalizePhone(phone),
		Kind:           kind,
		MessageID:      messageID,
		SentAt:         time.Now(),
	}
}
