package analytics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"hebron-schedule/api"
	"hebron-schedule/pkg/response"
	"hebron-schedule/pkg/sl"
)

type AnalyticsGetter interface {
	GetAnalytics(ctx context.Context, month, year int) (*api.AnalyticsResponse, error)
}

// parseIntParam returns 0 when the parameter is absent; the service
// falls back to the current month/year.
func parseIntParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}

	return strconv.Atoi(v)
}

func New(log *slog.Logger, getter AnalyticsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.analytics.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		month, err := parseIntParam(r, "month")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "invalid month"))
			return
		}

		year, err := parseIntParam(r, "year")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "invalid year"))
			return
		}

		stats, err := getter.GetAnalytics(r.Context(), month, year)

		if errors.Is(err, response.ErrValidation) {
			log.Info("Invalid analytics range")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "invalid month/year"))
			return
		}

		if err != nil {
			log.Error("Failed to compute analytics", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to compute analytics"))
			return
		}

		log.Info("Analytics computed",
			slog.Int("month", stats.Month),
			slog.Int("year", stats.Year),
			slog.Int("total", stats.TotalBookings),
		)
		render.JSON(w, r, stats)
	}
}
