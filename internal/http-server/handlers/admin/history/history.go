package history

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

type HistoryGetter interface {
	GetParticipantHistory(ctx context.Context, name string) (*api.ParticipantHistory, error)
}

func New(log *slog.Logger, getter HistoryGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.history.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		name := r.URL.Query().Get("name")

		hist, err := getter.GetParticipantHistory(r.Context(), name)

		if errors.Is(err, response.ErrValidation) {
			log.Info("Missing participant name")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "name is required"))
			return
		}

		if err != nil {
			log.Error("Failed to get participant history", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get history"))
			return
		}

		log.Info("Participant history retrieved",
			slog.String("name", name),
			slog.Int("services", hist.TotalServices),
		)
		render.JSON(w, r, hist)
	}
}
