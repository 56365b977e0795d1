package public

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"hebron-schedule/api"
	"hebron-schedule/pkg/response"
	"hebron-schedule/pkg/sl"
)

type PublicLister interface {
	ListPublicBookings(ctx context.Context) ([]*api.BookingResponse, error)
}

// New serves the public calendar: active bookings with privacy-formatted
// names, no emails or notes.
func New(log *slog.Logger, lister PublicLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.public.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		bookings, err := lister.ListPublicBookings(r.Context())
		if err != nil {
			log.Error("Failed to list public bookings", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list bookings"))
			return
		}

		log.Info("Public bookings listed", slog.Int("count", len(bookings)))
		render.JSON(w, r, bookings)
	}
}
