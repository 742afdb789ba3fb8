package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"GuestFlow/entity"
)

// WebhookPayload is the incoming webhook payload from the WhatsApp Graph API.
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Value struct {
				MessagingProduct string `json:"messaging_product"`
				Metadata         struct {
					DisplayPhoneNumber string `json:"display_phone_number"`
					PhoneNumberID      string `json:"phone_number_id"`
				} `json:"metadata"`
				Contacts []struct {
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
					WaID string `json:"wa_id"`
				} `json:"contacts"`
				Messages []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      *struct {
						Body string `json:"body"`
					} `json:"text,omitempty"`
					Interactive *struct {
						Type        string `json:"type"`
						ButtonReply *struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"button_reply,omitempty"`
					} `json:"interactive,omitempty"`
					Button *struct {
						Payload string `json:"payload"`
						Text    string `json:"text"`
					} `json:"button,omitempty"`
				} `json:"messages"`
			} `json:"value"`
			Field string `json:"field"`
		} `json:"changes"`
	} `json:"entry"`
}

// Normalize flattens a Graph webhook payload into the events the capture and
// RSVP flows consume. Statuses, reactions and media are dropped here.
func Normalize(payload WebhookPayload) []entity.InboundEvent {
	if payload.Object != "whatsapp_business_account" {
		return nil
	}

	var events []entity.InboundEvent
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				phone := entity.NormalizePhone(msg.From)
				if phone == "" {
					continue
				}

				switch msg.Type {
				case "text":
					if msg.Text == nil || msg.Text.Body == "" {
						continue
					}
					events = append(events, entity.InboundEvent{
						Kind: entity.EventText,
						WaID: phone,
						Text: msg.Text.Body,
					})

				case "interactive":
					if msg.Interactive == nil || msg.Interactive.ButtonReply == nil {
						continue
					}
					events = append(events, classifyButton(phone, msg.Interactive.ButtonReply.ID))

				case "button":
					// Template quick replies arrive as "button" messages.
					if msg.Button == nil {
						continue
					}
					events = append(events, classifyButton(phone, msg.Button.Payload))
				}
			}
		}
	}
	return events
}

// classifyButton separates resume-template taps from in-flow answer buttons.
// Anything without a recognized payload is a wake: the guest pressed
// something to re-engage.
func classifyButton(phone, id string) entity.InboundEvent {
	if strings.HasPrefix(id, "resume|") {
		return entity.InboundEvent{
			Kind:    entity.EventResume,
			WaID:    phone,
			Payload: id,
		}
	}
	if strings.Contains(id, "|") {
		return entity.InboundEvent{
			Kind:     entity.EventButton,
			WaID:     phone,
			ButtonID: id,
		}
	}
	return entity.InboundEvent{
		Kind: entity.EventWake,
		WaID: phone,
	}
}

// VerifySignature checks the X-Hub-Signature-256 header against the raw body.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if !strings.HasPrefix(signature, "sha256=") {
		return false
	}
	expected := strings.TrimPrefix(signature, "sha256=")
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	actual := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(actual))
}
