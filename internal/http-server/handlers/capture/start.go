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

type StartRequest struct {
	RegistrationID string `json:"registration_id" validate:"required"`
	Restart        bool   `json:"restart"`
}

// Start kicks off or restarts travel capture for a registration.
func Start(log *slog.Logger, handler Core) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
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

		if err := handler.StartCapture(r.Context(), req.RegistrationID, req.Restart); err != nil {
			if errors.Is(err, core.ErrRegistrationNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("Registration not found"))
				return
			}
			log.Error("starting capture",
				slog.String("registration_id", req.RegistrationID),
				sl.Err(err),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to start capture"))
			return
		}

		render.JSON(w, r, response.OK())
	}
}
