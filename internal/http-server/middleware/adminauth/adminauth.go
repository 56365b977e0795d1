package adminauth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"hebron-schedule/internal/auth"
	"hebron-schedule/pkg/response"
)

// New guards admin routes behind a bearer token issued by /admin/login.
func New(log *slog.Logger, tokens *auth.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.adminauth.New"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				log.Info("Missing bearer token")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error(string(response.UNAUTHORIZED), "authentication required"))
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					log.Info("Token expired")
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error(string(response.TOKEN_EXPIRED), "token expired"))
					return
				}

				log.Info("Invalid token")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error(string(response.UNAUTHORIZED), "invalid token"))
				return
			}

			if claims.Role != auth.RoleAdmin {
				log.Info("Non-admin token rejected", slog.String("role", claims.Role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error(string(response.FORBIDDEN), "admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
