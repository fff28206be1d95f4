package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/planpals/app/internal/availability"
	"github.com/planpals/app/internal/checklist"
	"github.com/planpals/app/internal/config"
	"github.com/planpals/app/internal/handler"
	"github.com/planpals/app/internal/rsvp"
	"github.com/planpals/app/internal/session"
	"github.com/planpals/app/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		return err
	}

	sm := session.New(db, cfg.IsDevelopment())
	queries := store.New(db)

	renderer, err := handler.NewRenderer(sm, log)
	if err != nil {
		return err
	}

	resolver := availability.NewResolver(queries)
	rsvps := rsvp.NewManager(db)
	bringList := checklist.NewManager(db)

	authH := handler.NewAuthHandler(queries, sm, renderer, log)
	eventsH := handler.NewEventHandler(queries, sm, renderer, resolver, rsvps, bringList, log)
	scheduleH := handler.NewScheduleHandler(queries, sm, renderer, log)
	profileH := handler.NewProfileHandler(queries, renderer, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))
	r.Use(sm.LoadAndSave)
	r.Use(session.LoadUser(sm, queries))

	r.Get("/", eventsH.List)
	r.Get("/health", handler.Health)

	r.Get("/register", authH.RegisterForm)
	r.Post("/register", authH.Register)
	r.Get("/login", authH.LoginForm)
	r.Post("/login", authH.Login)
	r.Post("/logout", authH.Logout)

	r.Get("/e/{token}", eventsH.ShareDetail)
	r.Get("/events/{id}", eventsH.Detail)

	r.Group(func(r chi.Router) {
		r.Use(session.RequireUser)

		r.Get("/events/new", eventsH.NewForm)
		r.Post("/events/new", eventsH.Create)
		r.Get("/events/{id}/edit", eventsH.EditForm)
		r.Post("/events/{id}/edit", eventsH.Update)
		r.Post("/events/{id}/delete", eventsH.Delete)
		r.Post("/events/{id}/rsvp", eventsH.SubmitRSVP)
		r.Post("/items/{id}/toggle", eventsH.ToggleItem)

		r.Get("/schedule", scheduleH.Show)
		r.Post("/schedule", scheduleH.Create)
		r.Post("/schedule/windows/{id}/delete", scheduleH.DeleteWindow)

		r.Get("/profile", profileH.Show)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each request through slog.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
