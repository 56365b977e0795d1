package unlock

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"hebron-schedule/pkg/response"
	"hebron-schedule/pkg/sl"
)

type SlotUnlocker interface {
	UnlockBooking(ctx context.Context, id string) error
}

type Response struct {
	Message string `json:"message"`
}

// New cancels a booking so its slot opens up again without losing the
// record.
func New(log *slog.Logger, unlocker SlotUnlocker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.bookings.unlock.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		err := unlocker.UnlockBooking(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Info("Booking not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "booking not found"))
			return
		}

		if err != nil {
			log.Error("Failed to unlock slot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to unlock slot"))
			return
		}

		log.Info("Slot unlocked", slog.String("id", id))
		render.JSON(w, r, Response{Message: "Slot unlocked successfully"})
	}
}
