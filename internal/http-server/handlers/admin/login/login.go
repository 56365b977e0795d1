package login

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"

	"hebron-schedule/api"
	"hebron-schedule/internal/auth"
	"hebron-schedule/internal/config"
	"hebron-schedule/pkg/response"
	"hebron-schedule/pkg/sl"
)

func New(log *slog.Logger, admin config.Admin, tokens *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.login.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req api.AdminLoginRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if req.Username != admin.Username ||
			bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
			log.Info("Invalid credentials", slog.String("username", req.Username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.UNAUTHORIZED), "invalid credentials"))
			return
		}

		token, err := tokens.IssueAdminToken(req.Username)
		if err != nil {
			log.Error("Failed to issue token", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to issue token"))
			return
		}

		log.Info("Admin logged in", slog.String("username", req.Username))

		render.JSON(w, r, api.AdminLoginResponse{
			Token:    token,
			Username: req.Username,
		})
	}
}
