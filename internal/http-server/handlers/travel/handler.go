package travel

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
	HandleTravelEvent(ctx context.Context, ev entity.InboundEvent) error
}

// Webhook handles normalized travel events. The upstream gateway has no
// retry contract, so the response is an unconditional 200 ack: malformed or
// unresolvable events are logged and swallowed.
func Webhook(log *slog.Logger, handler Core) http.HandlerFunc {
	validate := validator.New()
	log = log.With(sl.Module("handlers.travel"))

	return func(w http.ResponseWriter, r *http.Request) {
		ack := func() {
			render.Status(r, http.StatusOK)
			render.JSON(w, r, response.Acknowledged())
		}

		var ev entity.InboundEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			log.Warn("dropping malformed travel webhook body", sl.Err(err))
			ack()
			return
		}
		if err := validate.Struct(ev); err != nil {
			log.Warn("dropping invalid travel event", sl.Err(err))
			ack()
			return
		}

		if err := handler.HandleTravelEvent(r.Context(), ev); err != nil {
			log.Error("handling travel event",
				slog.String("kind", ev.Kind),
				slog.String("wa_id", ev.WaID),
				sl.Err(err),
			)
		}
		ack()
	}
}
