package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"GuestFlow/bot/whatsapp"
	"GuestFlow/entity"
	"GuestFlow/internal/config"
	"GuestFlow/internal/lib/api/response"
	"GuestFlow/internal/lib/sl"
)

type Core interface {
	HandleInbound(ctx context.Context, ev entity.InboundEvent) error
}

// Verify handles the Graph API webhook verification handshake.
func Verify(conf *config.Config, log *slog.Logger) http.HandlerFunc {
	log = log.With(sl.Module("handlers.whatsapp"))

	return func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("hub.mode")
		token := r.URL.Query().Get("hub.verify_token")
		challenge := r.URL.Query().Get("hub.challenge")

		if mode == "subscribe" && token == conf.WhatsApp.VerifyToken {
			log.Info("webhook verified")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(challenge))
			return
		}

		log.Warn("webhook verification failed", slog.String("mode", mode))
		http.Error(w, "Forbidden", http.StatusForbidden)
	}
}

// Webhook handles raw Graph API webhook deliveries: verify the signature,
// normalize the payload and run each event through the core. Events are
// processed before the ack so per-guest ordering follows delivery order.
func Webhook(conf *config.Config, log *slog.Logger, handler Core) http.HandlerFunc {
	log = log.With(sl.Module("handlers.whatsapp"))

	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("reading webhook body", sl.Err(err))
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if conf.WhatsApp.AppSecret != "" {
			signature := r.Header.Get("X-Hub-Signature-256")
			if !whatsapp.VerifySignature(conf.WhatsApp.AppSecret, body, signature) {
				log.Warn("invalid webhook signature")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
		}

		var payload whatsapp.WebhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			log.Warn("dropping malformed webhook payload", sl.Err(err))
			render.Status(r, http.StatusOK)
			render.JSON(w, r, response.Acknowledged())
			return
		}

		for _, ev := range whatsapp.Normalize(payload) {
			if err := handler.HandleInbound(r.Context(), ev); err != nil {
				log.Error("handling inbound event",
					slog.String("kind", ev.Kind),
					slog.String("wa_id", ev.WaID),
					sl.Err(err),
				)
			}
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.Acknowledged())
	}
}
