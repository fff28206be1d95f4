package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/planpals/app/internal/model"
	"github.com/planpals/app/internal/session"
	"github.com/planpals/app/internal/store"
)

// ScheduleHandler serves the current user's unavailability windows.
type ScheduleHandler struct {
	q      *store.Queries
	sm     *scs.SessionManager
	render *Renderer
	log    *slog.Logger
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(q *store.Queries, sm *scs.SessionManager, render *Renderer, log *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{q: q, sm: sm, render: render, log: log}
}

// Show renders the schedule page with the user's windows.
func (h *ScheduleHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := session.CurrentUser(r.Context())

	windows, err := h.q.ListWindowsForUser(r.Context(), user.ID)
	if err != nil {
		h.log.Error("listing windows", "user_id", user.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load your schedule.")
		return
	}

	h.render.Render(w, r, http.StatusOK, "schedule.html", map[string]any{
		"Title":   "My schedule",
		"Windows": windows,
	})
}

// Create adds an unavailability window for the current user.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := session.CurrentUser(r.Context())

	date := strings.TrimSpace(r.FormValue("date"))
	start := strings.TrimSpace(r.FormValue("start"))
	end := strings.TrimSpace(r.FormValue("end"))

	if !validDate(date) || !validClock(start) || !validClock(end) {
		session.PutFlash(r.Context(), h.sm, "error", "Please provide date, start, and end times.")
		http.Redirect(w, r, "/schedule", http.StatusSeeOther)
		return
	}

	_, err := h.q.CreateWindow(r.Context(), store.CreateWindowParams{
		UserID:    user.ID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		h.log.Error("creating window", "user_id", user.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not save your unavailability.")
		return
	}

	session.PutFlash(r.Context(), h.sm, "success", "Unavailability added.")
	http.Redirect(w, r, "/schedule", http.StatusSeeOther)
}

// DeleteWindow removes one of the current user's windows.
func (h *ScheduleHandler) DeleteWindow(w http.ResponseWriter, r *http.Request) {
	user := session.CurrentUser(r.Context())

	id, ok := idParam(r, "id")
	if !ok {
		h.render.Error(w, r, http.StatusBadRequest, "Invalid window id.")
		return
	}

	window, err := h.q.GetWindowByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.render.Error(w, r, http.StatusNotFound, "That window doesn't exist.")
			return
		}
		h.log.Error("loading window", "window_id", id, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not delete the window.")
		return
	}
	if window.UserID != user.ID {
		h.render.Error(w, r, http.StatusForbidden, "That window isn't yours.")
		return
	}

	if err := h.q.DeleteWindow(r.Context(), id); err != nil {
		h.log.Error("deleting window", "window_id", id, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not delete the window.")
		return
	}

	http.Redirect(w, r, "/schedule", http.StatusSeeOther)
}

func validClock(s string) bool {
	_, err := time.Parse(model.TimeLayout, s)
	return err == nil
}
