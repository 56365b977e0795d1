package availability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"hebron-schedule/api"
	"hebron-schedule/pkg/response"
	"hebron-schedule/pkg/sl"
)

type AvailabilityGetter interface {
	GetAvailability(ctx context.Context, startDate, endDate string) ([]*api.AvailabilityDay, error)
}

func New(log *slog.Logger, getter AvailabilityGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.availability.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		startDate := r.URL.Query().Get("start_date")
		endDate := r.URL.Query().Get("end_date")

		if startDate == "" || endDate == "" {
			log.Info("Missing date range")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "start_date and end_date are required"))
			return
		}

		days, err := getter.GetAvailability(r.Context(), startDate, endDate)

		if errors.Is(err, response.ErrValidation) {
			log.Info("Invalid date range")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "invalid date format"))
			return
		}

		if err != nil {
			log.Error("Failed to get availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get availability"))
			return
		}

		log.Info("Availability computed", slog.Int("days", len(days)))
		render.JSON(w, r, days)
	}
}
