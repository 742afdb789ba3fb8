package entity

// Inbound event kinds delivered by the webhook layer.
const (
	EventResume = "resume"
	EventWake   = "wake"
	EventButton = "button"
	EventText   = "text"
)

// InboundEvent is one normalized webhook delivery. Payload is only set for
// resume events ("resume|<registration-id>"), ButtonID only for button events
// ("<ns>|<step>|<value>"), Text only for text events.
type InboundEvent struct {
	Kind     string `json:"kind" validate:"required,oneof=resume wake button text"`
	WaID     string `json:"wa_id" validate:"required"`
	Payload  string `json:"payload,omitempty"`
	ButtonID string `json:"button_id,omitempty"`
	Text     string `json:"text,omitempty"`
}
