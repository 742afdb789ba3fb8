package capture

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"GuestFlow/impl/core"
	"GuestFlow/internal/lib/api/response"
	"GuestFlow/internal/lib/sl"
)

type InviteRequest struct {
	RegistrationID string `json:"registration_id" validate:"required"`
}

// Invite sends the RSVP template to a registration's guest.
func Invite(log *slog.Logger, handler Core) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		var req InviteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		if err := handler.SendRSVPInvite(r.Context(), req.RegistrationID); err != nil {
			if errors.Is(err, core.ErrRegistrationNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("Registration not found"))
				return
			}
			log.Error("sending rsvp invite",
				slog.String("registration_id", req.RegistrationID),
				sl.Err(err),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to send invite"))
			return
		}

		render.JSON(w, r, response.OK())
	}
}
