package monthly

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

type ReportGetter interface {
	GetMonthlyReport(ctx context.Context, month, year int) (*api.MonthlyReport, error)
}

func New(log *slog.Logger, getter ReportGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.reports.monthly.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		month, errM := strconv.Atoi(r.URL.Query().Get("month"))
		year, errY := strconv.Atoi(r.URL.Query().Get("year"))
		if errM != nil || errY != nil {
			log.Info("Missing or invalid month/year")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "month and year are required"))
			return
		}

		report, err := getter.GetMonthlyReport(r.Context(), month, year)

		if errors.Is(err, response.ErrValidation) {
			log.Info("Invalid report range")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "invalid month/year"))
			return
		}

		if err != nil {
			log.Error("Failed to build monthly report", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build report"))
			return
		}

		log.Info("Monthly report built",
			slog.Int("month", month),
			slog.Int("year", year),
			slog.Int("total", report.TotalBookings),
		)
		render.JSON(w, r, report)
	}
}
