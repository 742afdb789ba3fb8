package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"GuestFlow/bot/capture"
	"GuestFlow/entity"
	"GuestFlow/internal/config"
	"GuestFlow/internal/lib/sl"
)

const graphAPIURL = "https://graph.facebook.com/v21.0"

// SendRecorder persists the send log entry for an outbound message. The
// latest entry per phone is how inbound replies get correlated back to a
// registration.
type SendRecorder interface {
	RecordSend(ctx context.Context, phone, kind, messageID string) error
}

// Client talks to the WhatsApp Graph API. It implements capture.Gateway and
// owns the 24-hour messaging-window policy.
type Client struct {
	log            *slog.Logger
	accessToken    string
	phoneNumberID  string
	resumeTemplate string
	rsvpTemplate   string
	window         time.Duration
	recorder       SendRecorder
	httpClient     *http.Client
}

func NewClient(conf *config.Config, log *slog.Logger) *Client {
	return &Client{
		log:            log.With(sl.Module("whatsapp")),
		accessToken:    conf.WhatsApp.AccessToken,
		phoneNumberID:  conf.WhatsApp.PhoneNumberID,
		resumeTemplate: conf.WhatsApp.ResumeTemplate,
		rsvpTemplate:   conf.WhatsApp.RSVPTemplate,
		window:         time.Duration(conf.WhatsApp.WindowHours) * time.Hour,
		httpClient:     http.DefaultClient,
	}
}

// SetRecorder attaches the send log store.
func (c *Client) SetRecorder(r SendRecorder) {
	c.recorder = r
}

// WithinWindow reports whether a free-form message may still be sent, or an
// approved template is required to re-open the conversation.
func (c *Client) WithinWindow(lastRespondedAt time.Time) bool {
	if lastRespondedAt.IsZero() {
		return false
	}
	return time.Since(lastRespondedAt) < c.window
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type interactiveMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Interactive      struct {
		Type string `json:"type"`
		Body struct {
			Text string `json:"text"`
		} `json:"body"`
		Action struct {
			Buttons []interactiveButton `json:"buttons"`
		} `json:"action"`
	} `json:"interactive"`
}

type interactiveButton struct {
	Type  string `json:"type"`
	Reply struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"reply"`
}

type templateMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Template         struct {
		Name     string `json:"name"`
		Language struct {
			Code string `json:"code"`
		} `json:"language"`
		Components []templateComponent `json:"components,omitempty"`
	} `json:"template"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	SubType    string              `json:"sub_type,omitempty"`
	Index      string              `json:"index,omitempty"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Payload string `json:"payload,omitempty"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendText sends a free-form text message.
func (c *Client) SendText(ctx context.Context, phone, body string) (string, error) {
	msg := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phone,
		Type:             "text",
	}
	msg.Text.Body = body

	id, err := c.post(ctx, msg)
	if err != nil {
		return "", err
	}
	c.record(ctx, phone, entity.SendKindText, id)
	return id, nil
}

// SendButtons sends an interactive reply-button message. WhatsApp allows at
// most three buttons per message.
func (c *Client) SendButtons(ctx context.Context, phone, body string, buttons []capture.Button) (string, error) {
	if len(buttons) > 3 {
		return "", fmt.Errorf("whatsapp allows at most 3 reply buttons, got %d", len(buttons))
	}

	msg := interactiveMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phone,
		Type:             "interactive",
	}
	msg.Interactive.Type = "button"
	msg.Interactive.Body.Text = body
	for _, b := range buttons {
		var ib interactiveButton
		ib.Type = "reply"
		ib.Reply.ID = b.ID
		ib.Reply.Title = b.Title
		msg.Interactive.Action.Buttons = append(msg.Interactive.Action.Buttons, ib)
	}

	id, err := c.post(ctx, msg)
	if err != nil {
		return "", err
	}
	c.record(ctx, phone, entity.SendKindButtons, id)
	return id, nil
}

// SendResumeOpener sends the approved re-engagement template. Its quick-reply
// button carries "resume|<registration-id>" so the tap can be correlated back
// to the paused session.
func (c *Client) SendResumeOpener(ctx context.Context, phone, registrationID, nameParam string) (string, error) {
	msg := c.template(phone, c.resumeTemplate)
	if nameParam != "" {
		msg.Template.Components = append(msg.Template.Components, templateComponent{
			Type:       "body",
			Parameters: []templateParameter{{Type: "text", Text: nameParam}},
		})
	}
	msg.Template.Components = append(msg.Template.Components, templateComponent{
		Type:       "button",
		SubType:    "quick_reply",
		Index:      "0",
		Parameters: []templateParameter{{Type: "payload", Payload: "resume|" + registrationID}},
	})

	id, err := c.post(ctx, msg)
	if err != nil {
		return "", err
	}
	c.record(ctx, phone, entity.SendKindResume, id)
	return id, nil
}

// SendRSVPInvite sends the approved RSVP template with yes/no/maybe quick
// replies.
func (c *Client) SendRSVPInvite(ctx context.Context, phone, nameParam string) (string, error) {
	msg := c.template(phone, c.rsvpTemplate)
	if nameParam != "" {
		msg.Template.Components = append(msg.Template.Components, templateComponent{
			Type:       "body",
			Parameters: []templateParameter{{Type: "text", Text: nameParam}},
		})
	}
	for i, v := range []string{"yes", "no", "maybe"} {
		msg.Template.Components = append(msg.Template.Components, templateComponent{
			Type:       "button",
			SubType:    "quick_reply",
			Index:      fmt.Sprintf("%d", i),
			Parameters: []templateParameter{{Type: "payload", Payload: "rsvp|response|" + v}},
		})
	}

	id, err := c.post(ctx, msg)
	if err != nil {
		return "", err
	}
	c.record(ctx, phone, entity.SendKindRSVP, id)
	return id, nil
}

func (c *Client) template(phone, name string) templateMessage {
	msg := templateMessage{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "template",
	}
	msg.Template.Name = name
	msg.Template.Language.Code = "en"
	return msg
}

func (c *Client) post(ctx context.Context, payload any) (string, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", graphAPIURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("graph api error (status %d): %s", resp.StatusCode, string(body))
	}

	var sr sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(sr.Messages) == 0 {
		return "", fmt.Errorf("graph api returned no message id")
	}
	return sr.Messages[0].ID, nil
}

func (c *Client) record(ctx context.Context, phone, kind, messageID string) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordSend(ctx, phone, kind, messageID); err != nil {
		c.log.Error("recording send", slog.String("phone", phone), sl.Err(err))
	}
}
