package handler

import (
	"errors"
	"net/http"

	"github.com/planpals/app/internal/rsvp"
	"github.com/planpals/app/internal/session"
	"github.com/planpals/app/internal/store"
)

// SubmitRSVP records the current user's answer for an event.
func (h *EventHandler) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	user := session.CurrentUser(r.Context())

	id, ok := idParam(r, "id")
	if !ok {
		h.render.Error(w, r, http.StatusBadRequest, "Invalid event id.")
		return
	}
	event, err := h.q.GetEventByID(r.Context(), id)
	if err != nil {
		h.eventLookupError(w, r, err)
		return
	}

	status := r.FormValue("status")
	if _, err := h.rsvps.SetStatus(r.Context(), event, user.ID, status); err != nil {
		switch {
		case errors.Is(err, rsvp.ErrInvalidStatus):
			h.render.Error(w, r, http.StatusBadRequest, "That's not a valid RSVP answer.")
		case errors.Is(err, rsvp.ErrEventFull):
			session.PutFlash(r.Context(), h.sm, "error", "Sorry, this event is already full.")
			http.Redirect(w, r, eventPath(event.ID), http.StatusSeeOther)
		case errors.Is(err, store.ErrNotFound):
			h.render.Error(w, r, http.StatusNotFound, "That event doesn't exist.")
		default:
			h.log.Error("setting rsvp", "event_id", event.ID, "user_id", user.ID, "error", err)
			h.render.Error(w, r, http.StatusInternalServerError, "Could not save your RSVP.")
		}
		return
	}

	session.PutFlash(r.Context(), h.sm, "success", "RSVP saved.")
	http.Redirect(w, r, eventPath(event.ID), http.StatusSeeOther)
}
