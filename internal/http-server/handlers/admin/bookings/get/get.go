package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"hebron-schedule/api"
	"hebron-schedule/internal/models"
	"hebron-schedule/pkg/response"
	"hebron-schedule/pkg/sl"
)

type BookingLister interface {
	ListBookings(ctx context.Context, filters models.BookingFilters) ([]*api.BookingResponse, error)
}

func New(log *slog.Logger, lister BookingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.bookings.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var filters models.BookingFilters

		if v := r.URL.Query().Get("date_filter"); v != "" {
			filters.Date = &v
		}
		if v := r.URL.Query().Get("role_filter"); v != "" {
			role := models.Role(v)
			if !role.Valid() {
				log.Info("Invalid role filter", slog.String("role", v))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "invalid role filter"))
				return
			}
			filters.Role = &role
		}
		if v := r.URL.Query().Get("name_filter"); v != "" {
			filters.Name = &v
		}
		if v := r.URL.Query().Get("status_filter"); v != "" {
			status := models.BookingStatus(v)
			if !status.Valid() {
				log.Info("Invalid status filter", slog.String("status", v))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		bookings, err := lister.ListBookings(r.Context(), filters)
		if err != nil {
			log.Error("Failed to list bookings", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list bookings"))
			return
		}

		log.Info("Bookings listed", slog.Int("count", len(bookings)))
		render.JSON(w, r, bookings)
	}
}
