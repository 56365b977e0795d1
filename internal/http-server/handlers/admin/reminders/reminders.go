package reminders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"hebron-schedule/pkg/response"
	"hebron-schedule/pkg/sl"
)

type ReminderSender interface {
	SendDailyReminders(ctx context.Context) (int, error)
}

type Response struct {
	Message string `json:"message"`
	Sent    int    `json:"sent"`
}

// New triggers today's reminder emails on demand, bypassing the
// scheduler.
func New(log *slog.Logger, sender ReminderSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.reminders.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sent, err := sender.SendDailyReminders(r.Context())
		if err != nil {
			log.Error("Failed to send reminders", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to send reminders"))
			return
		}

		log.Info("Reminders sent", slog.Int("sent", sent))
		render.JSON(w, r, Response{
			Message: "Reminder emails sent for today's bookings",
			Sent:    sent,
		})
	}
}
