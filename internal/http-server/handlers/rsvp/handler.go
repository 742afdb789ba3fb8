package rsvp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"GuestFlow/entity"
	"GuestFlow/internal/lib/api/response"
	"GuestFlow/internal/lib/sl"
)

type Core interface {
	HandleRSVPEvent(ctx context.Context, ev entity.InboundEvent) error
}

// Webhook handles normalized RSVP events with the same idempotent-ack
// contract as the travel webhook.
func Webhook(log *slog.Logger, handler Core) http.HandlerFunc {
	validate := validator.New()
	log = log.With(sl.Module("handlers.rsvp"))

	return func(w http.ResponseWriter, r *http.Request) {
		ack := func() {
			render.Status(r, http.StatusOK)
			render.JSON(w, r, response.Acknowledged())
		}

		var ev entity.InboundEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			log.Warn("dropping malformed rsvp webhook body", sl.Err(err))
			ack()
			return
		}
		if err := validate.Struct(ev); err != nil {
			log.Warn("dropping invalid rsvp event", sl.Err(err))
			ack()
			return
		}

		if err := handler.HandleRSVPEvent(r.Context(), ev); err != nil {
			log.Error("handling rsvp event",
				slog.String("kind", ev.Kind),
				slog.String("wa_id", ev.WaID),
				sl.Err(err),
			)
		}
		ack()
	}
}
