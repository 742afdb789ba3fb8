package capture

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"GuestFlow/impl/core"
	"GuestFlow/internal/lib/api/response"
	"GuestFlow/internal/lib/sl"
)

// Status reports a registration's capture and RSVP progress.
func Status(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registrationID := r.URL.Query().Get("registration_id")
		if registrationID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("registration_id is required"))
			return
		}

		status, err := handler.GetCaptureStatus(r.Context(), registrationID)
		if err != nil {
			if errors.Is(err, core.ErrRegistrationNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("Registration not found"))
				return
			}
			log.Error("loading capture status",
				slog.String("registration_id", registrationID),
				sl.Err(err),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to load status"))
			return
		}

		render.JSON(w, r, status)
	}
}
