package capture

import "time"

// State keys used for branch memory.
const (
	// KeyReturnAsked marks that the guest already answered the return-travel
	// question. A plain false on the record can't carry that by itself: "no"
	// and "not yet asked" look identical there.
	KeyReturnAsked = "return_travel"
)

// Session is the per-registration memory of the travel-capture dialogue.
// Created lazily on first interaction, never deleted; a restart resets it in
// place.
type Session struct {
	RegistrationID string         `json:"registration_id" bson:"registration_id"`
	Step           StepID         `json:"step" bson:"step"`
	LastPromptStep StepID         `json:"last_prompt_step" bson:"last_prompt_step"`
	State          map[string]any `json:"state" bson:"state"`
	IsComplete     bool           `json:"is_complete" bson:"is_complete"`
	LastMessageAt  time.Time      `json:"last_message_at" bson:"last_message_at"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
}

func NewSession(registrationID string) *Session {
	return &Session{
		RegistrationID: registrationID,
		Step:           FirstStep,
		State:          make(map[string]any),
		CreatedAt:      time.Now(),
	}
}

// Reset puts the session back to the first step and clears branch memory.
// The row itself stays, it doubles as an audit trail.
func (s *Session) Reset() {
	s.Step = FirstStep
	s.LastPromptStep = ""
	s.State = make(map[string]any)
	s.IsComplete = false
}

func (s *Session) GetBool(key string) bool {
	if v, ok := s.State[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func (s *Session) Set(key string, value any) {
	if s.State == nil {
		s.State = make(map[string]any)
	}
	s.State[key] = value
}
