package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"hebron-schedule/internal/auth"
	"hebron-schedule/internal/config"
	adminAnalytics "hebron-schedule/internal/http-server/handlers/admin/analytics"
	adminBookingDelete "hebron-schedule/internal/http-server/handlers/admin/bookings/delete"
	adminBookingGet "hebron-schedule/internal/http-server/handlers/admin/bookings/get"
	adminBookingUnlock "hebron-schedule/internal/http-server/handlers/admin/bookings/unlock"
	adminBookingUpdate "hebron-schedule/internal/http-server/handlers/admin/bookings/update"
	adminExport "hebron-schedule/internal/http-server/handlers/admin/export"
	adminHistory "hebron-schedule/internal/http-server/handlers/admin/history"
	adminLogin "hebron-schedule/internal/http-server/handlers/admin/login"
	adminReminders "hebron-schedule/internal/http-server/handlers/admin/reminders"
	adminReportMonthly "hebron-schedule/internal/http-server/handlers/admin/reports/monthly"
	bookingAvailability "hebron-schedule/internal/http-server/handlers/bookings/availability"
	bookingCreate "hebron-schedule/internal/http-server/handlers/bookings/create"
	bookingPublic "hebron-schedule/internal/http-server/handlers/bookings/public"
	"hebron-schedule/internal/http-server/middleware/adminauth"
	"hebron-schedule/internal/lock"
	"hebron-schedule/internal/mailer"
	"hebron-schedule/internal/reminder"
	svc "hebron-schedule/internal/service"
	"hebron-schedule/internal/storage/postgres"
	slogpretty "hebron-schedule/pkg/handlers/slogPretty"
	"hebron-schedule/pkg/middleware/mwLogger"
	"hebron-schedule/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Error("Failed to load timezone", sl.Err(err))
		os.Exit(1)
	}

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	if err := storage.Init(initCtx); err != nil {
		cancelInit()
		log.Error("Failed to init schema", sl.Err(err))
		os.Exit(1)
	}
	cancelInit()

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	var mail mailer.Sender
	if cfg.Mail.ResendAPIKey != "" {
		mail = mailer.NewResendSender(log, cfg.Mail.ResendAPIKey, cfg.Mail.From)
	} else {
		log.Warn("No Resend API key configured, emails disabled")
		mail = mailer.NewNoopSender(log)
	}

	tokens := auth.NewManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)

	service := svc.NewService(storage, mail, loc, cfg.Mail.ZoomURL)

	reminderJob := reminder.New(log, service, locker, loc)
	if cfg.Reminder.Enabled {
		if err := reminderJob.Start(cfg.Reminder.Cron); err != nil {
			log.Error("Failed to start reminder scheduler", sl.Err(err))
			os.Exit(1)
		}
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	router.Route("/api", func(r chi.Router) {
		r.Get("/", root)
		r.Get("/health", health)

		// Public booking surface
		r.Post("/bookings", bookingCreate.New(log, service))
		r.Get("/bookings/availability", bookingAvailability.New(log, service))
		r.Get("/bookings/public", bookingPublic.New(log, service))

		r.Post("/admin/login", adminLogin.New(log, cfg.Admin, tokens))

		// Admin surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminauth.New(log, tokens))

			r.Get("/bookings", adminBookingGet.New(log, service))
			r.Put("/bookings/{id}", adminBookingUpdate.New(log, service))
			r.Delete("/bookings/{id}", adminBookingDelete.New(log, service))
			r.Post("/bookings/{id}/unlock", adminBookingUnlock.New(log, service))

			r.Get("/analytics", adminAnalytics.New(log, service))
			r.Get("/reports/monthly", adminReportMonthly.New(log, service))
			r.Get("/participant-history", adminHistory.New(log, service))

			r.Get("/export/csv", adminExport.NewCSV(log, service))
			r.Get("/export/excel", adminExport.NewExcel(log, service))

			r.Post("/send-reminders", adminReminders.New(log, service))
		})
	})

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if cfg.Reminder.Enabled {
		reminderJob.Stop()
		log.Info("Reminder scheduler stopped")
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func root(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"message": "Hebron Pentecostal Assembly - Scheduling API"})
}

func health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
