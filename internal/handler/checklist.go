package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/planpals/app/internal/checklist"
	"github.com/planpals/app/internal/session"
	"github.com/planpals/app/internal/store"
)

// ToggleItem flips a checklist item's checked flag, creator only.
// With a ?redirect= query it answers a plain form post; otherwise it
// returns JSON for script callers.
func (h *EventHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	user := session.CurrentUser(r.Context())

	id, ok := idParam(r, "id")
	if !ok {
		h.render.Error(w, r, http.StatusBadRequest, "Invalid item id.")
		return
	}

	item, err := h.checklist.Toggle(r.Context(), id, user)
	if err != nil {
		switch {
		case errors.Is(err, checklist.ErrForbidden):
			h.render.Error(w, r, http.StatusForbidden, "Only the event's creator can check items off.")
		case errors.Is(err, store.ErrNotFound):
			h.render.Error(w, r, http.StatusNotFound, "That item doesn't exist.")
		default:
			h.log.Error("toggling item", "item_id", id, "error", err)
			h.render.Error(w, r, http.StatusInternalServerError, "Could not update the item.")
		}
		return
	}

	if redirect := r.URL.Query().Get("redirect"); redirect != "" && redirect[0] == '/' {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":         true,
		"is_checked": item.IsChecked,
	})
}
