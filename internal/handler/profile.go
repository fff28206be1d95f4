package handler

import (
	"log/slog"
	"net/http"

	"github.com/planpals/app/internal/session"
	"github.com/planpals/app/internal/store"
)

// ProfileHandler serves the current user's profile page.
type ProfileHandler struct {
	q      *store.Queries
	render *Renderer
	log    *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(q *store.Queries, render *Renderer, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{q: q, render: render, log: log}
}

// Show renders the profile: events the user created and their RSVPs.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := session.CurrentUser(r.Context())

	events, err := h.q.ListEventsByCreator(r.Context(), user.ID)
	if err != nil {
		h.log.Error("listing own events", "user_id", user.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load your profile.")
		return
	}
	rsvps, err := h.q.ListRSVPsForUser(r.Context(), user.ID)
	if err != nil {
		h.log.Error("listing own rsvps", "user_id", user.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load your profile.")
		return
	}

	h.render.Render(w, r, http.StatusOK, "profile.html", map[string]any{
		"Title":    "Profile",
		"MyEvents": events,
		"MyRSVPs":  rsvps,
	})
}
