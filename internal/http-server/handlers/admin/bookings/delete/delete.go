package delete

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

type BookingDeleter interface {
	DeleteBooking(ctx context.Context, id string) error
}

type Response struct {
	Message string `json:"message"`
}

func New(log *slog.Logger, deleter BookingDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.bookings.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		err := deleter.DeleteBooking(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Info("Booking not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "booking not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete booking"))
			return
		}

		log.Info("Booking deleted", slog.String("id", id))
		render.JSON(w, r, Response{Message: "Booking deleted successfully"})
	}
}
