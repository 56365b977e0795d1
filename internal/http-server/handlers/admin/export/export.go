package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	exp "hebron-schedule/internal/export"
	"hebron-schedule/internal/models"
	"hebron-schedule/pkg/response"
	"hebron-schedule/pkg/sl"
)

type BookingExporter interface {
	ExportBookings(ctx context.Context, month, year int) ([]models.Booking, error)
}

func monthYear(r *http.Request) (int, int) {
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	return month, year
}

func fetch(log *slog.Logger, exporter BookingExporter, w http.ResponseWriter, r *http.Request) ([]models.Booking, bool) {
	month, year := monthYear(r)

	bookings, err := exporter.ExportBookings(r.Context(), month, year)

	if errors.Is(err, response.ErrValidation) {
		log.Info("Invalid export range")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "invalid month/year"))
		return nil, false
	}

	if err != nil {
		log.Error("Failed to load bookings for export", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to export bookings"))
		return nil, false
	}

	return bookings, true
}

func NewCSV(log *slog.Logger, exporter BookingExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.export.NewCSV"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		bookings, ok := fetch(log, exporter, w, r)
		if !ok {
			return
		}

		filename := fmt.Sprintf("bookings_%s.csv", time.Now().Format("20060102"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)

		if err := exp.CSV(w, bookings); err != nil {
			log.Error("Failed to write CSV", sl.Err(err))
			return
		}

		log.Info("CSV export written", slog.Int("rows", len(bookings)))
	}
}

func NewExcel(log *slog.Logger, exporter BookingExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.export.NewExcel"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		bookings, ok := fetch(log, exporter, w, r)
		if !ok {
			return
		}

		filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("20060102"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)

		if err := exp.Excel(w, bookings); err != nil {
			log.Error("Failed to write Excel", sl.Err(err))
			return
		}

		log.Info("Excel export written", slog.Int("rows", len(bookings)))
	}
}
