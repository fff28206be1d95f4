package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/planpals/app/internal/availability"
	"github.com/planpals/app/internal/checklist"
	"github.com/planpals/app/internal/model"
	"github.com/planpals/app/internal/rsvp"
	"github.com/planpals/app/internal/session"
	"github.com/planpals/app/internal/store"
)

// EventHandler serves the event pages: list, create, detail, edit,
// delete, plus the RSVP and checklist actions hanging off an event.
type EventHandler struct {
	q         *store.Queries
	sm        *scs.SessionManager
	render    *Renderer
	resolver  *availability.Resolver
	rsvps     *rsvp.Manager
	checklist *checklist.Manager
	log       *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(q *store.Queries, sm *scs.SessionManager, render *Renderer,
	resolver *availability.Resolver, rsvps *rsvp.Manager, cl *checklist.Manager,
	log *slog.Logger) *EventHandler {
	return &EventHandler{
		q: q, sm: sm, render: render,
		resolver: resolver, rsvps: rsvps, checklist: cl, log: log,
	}
}

// eventSummary is the per-event block on the index page.
type eventSummary struct {
	Event     model.Event
	Counts    rsvp.Counts
	Going     []string
	BusyNames []string
}

// List renders the event index with RSVP and busy summaries.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.q.ListEvents(ctx)
	if err != nil {
		h.log.Error("listing events", "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load events.")
		return
	}
	users, err := h.q.ListUsers(ctx)
	if err != nil {
		h.log.Error("listing users", "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load events.")
		return
	}

	summaries := make([]eventSummary, 0, len(events))
	for i := range events {
		ev := events[i]

		res, err := h.resolver.Resolve(ctx, &ev, users)
		if err != nil {
			h.log.Error("resolving availability", "event_id", ev.ID, "error", err)
			h.render.Error(w, r, http.StatusInternalServerError, "Could not load events.")
			return
		}
		counts, err := h.rsvps.CountsForEvent(ctx, ev.ID)
		if err != nil {
			h.log.Error("counting rsvps", "event_id", ev.ID, "error", err)
			h.render.Error(w, r, http.StatusInternalServerError, "Could not load events.")
			return
		}
		responses, err := h.q.ListRSVPsForEvent(ctx, ev.ID)
		if err != nil {
			h.log.Error("listing rsvps", "event_id", ev.ID, "error", err)
			h.render.Error(w, r, http.StatusInternalServerError, "Could not load events.")
			return
		}

		s := eventSummary{Event: ev, Counts: counts}
		for _, resp := range responses {
			if resp.Status == model.StatusGoing {
				s.Going = append(s.Going, resp.UserName)
			}
		}
		for _, u := range res.Busy {
			s.BusyNames = append(s.BusyNames, u.Name)
		}
		summaries = append(summaries, s)
	}

	h.render.Render(w, r, http.StatusOK, "index.html", map[string]any{
		"Events": summaries,
	})
}

// NewForm renders the event creation page.
func (h *EventHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "event_new.html", map[string]any{
		"Title":   "New event",
		"Catalog": checklist.FormCatalog(),
	})
}

// Create creates an event and seeds its checklist.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := session.CurrentUser(r.Context())
	form, ok := h.parseEventForm(w, r, "/events/new")
	if !ok {
		return
	}

	event, err := h.q.CreateEvent(r.Context(), store.CreateEventParams{
		Title:          form.Title,
		Date:           form.Date,
		DoorsOpenTime:  form.DoorsOpen,
		LeaveByTime:    form.LeaveBy,
		NoEndSpecified: form.NoEnd,
		Description:    form.Description,
		Capacity:       form.Capacity,
		Dry:            form.Dry,
		ShareToken:     uuid.NewString(),
		CreatorID:      user.ID,
	})
	if err != nil {
		h.log.Error("creating event", "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not create the event.")
		return
	}

	if _, err := h.checklist.Seed(r.Context(), event, form.Preset, form.Custom, user.ID); err != nil {
		h.log.Error("seeding checklist", "event_id", event.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not create the bring list.")
		return
	}

	session.PutFlash(r.Context(), h.sm, "success", "Event created!")
	http.Redirect(w, r, eventPath(event.ID), http.StatusSeeOther)
}

// Detail renders an event page by id.
func (h *EventHandler) Detail(w http.ResponseWriter, r *http.Request) {
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
	h.renderDetail(w, r, event)
}

// ShareDetail renders an event page addressed by its share token, so
// a link works without an account.
func (h *EventHandler) ShareDetail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	event, err := h.q.GetEventByShareToken(r.Context(), token)
	if err != nil {
		h.eventLookupError(w, r, err)
		return
	}
	h.renderDetail(w, r, event)
}

func (h *EventHandler) renderDetail(w http.ResponseWriter, r *http.Request, event *model.Event) {
	ctx := r.Context()
	user := session.CurrentUser(ctx)

	res, err := h.resolver.ResolveAll(ctx, event)
	if err != nil {
		h.log.Error("resolving availability", "event_id", event.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load the event.")
		return
	}
	counts, err := h.rsvps.CountsForEvent(ctx, event.ID)
	if err != nil {
		h.log.Error("counting rsvps", "event_id", event.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load the event.")
		return
	}
	responses, err := h.q.ListRSVPsForEvent(ctx, event.ID)
	if err != nil {
		h.log.Error("listing rsvps", "event_id", event.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load the event.")
		return
	}
	items, err := h.q.ListItemsForEvent(ctx, event.ID)
	if err != nil {
		h.log.Error("listing checklist", "event_id", event.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load the event.")
		return
	}

	var myRSVP *model.RSVP
	if user != nil {
		myRSVP, err = h.q.GetRSVP(ctx, user.ID, event.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			h.log.Error("loading rsvp", "event_id", event.ID, "error", err)
		}
	}

	h.render.Render(w, r, http.StatusOK, "event_detail.html", map[string]any{
		"Title":     event.Title,
		"Event":     event,
		"IsCreator": user != nil && user.ID == event.CreatorID,
		"Counts":    counts,
		"RSVPs":     responses,
		"MyRSVP":    myRSVP,
		"Available": res.Available,
		"Busy":      res.Busy,
		"Checklist": items,
	})
}

// EditForm renders the edit page, creator only.
func (h *EventHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadOwnEvent(w, r)
	if !ok {
		return
	}

	items, err := h.q.ListItemsForEvent(r.Context(), event.ID)
	if err != nil {
		h.log.Error("listing checklist", "event_id", event.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not load the event.")
		return
	}

	catalog := checklist.FormCatalog()
	inCatalog := make(map[string]bool, len(catalog))
	for _, label := range catalog {
		inCatalog[label] = true
	}

	existing := make(map[string]bool, len(items))
	var other []string
	for _, item := range items {
		existing[item.Label] = true
		if !inCatalog[item.Label] {
			other = append(other, item.Label)
		}
	}

	h.render.Render(w, r, http.StatusOK, "event_edit.html", map[string]any{
		"Title":    "Edit " + event.Title,
		"Event":    event,
		"Catalog":  catalog,
		"Existing": existing,
		"Other":    strings.Join(other, ", "),
	})
}

// Update applies edits and, when bring-list fields were submitted,
// replaces the checklist under the (possibly changed) dry flag.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := session.CurrentUser(r.Context())
	event, ok := h.loadOwnEvent(w, r)
	if !ok {
		return
	}
	form, ok := h.parseEventForm(w, r, eventPath(event.ID)+"/edit")
	if !ok {
		return
	}

	updated, err := h.q.UpdateEvent(r.Context(), store.UpdateEventParams{
		ID:             event.ID,
		Title:          form.Title,
		Date:           form.Date,
		DoorsOpenTime:  form.DoorsOpen,
		LeaveByTime:    form.LeaveBy,
		NoEndSpecified: form.NoEnd,
		Description:    form.Description,
		Capacity:       form.Capacity,
		Dry:            form.Dry,
	})
	if err != nil {
		h.log.Error("updating event", "event_id", event.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not update the event.")
		return
	}

	if form.BringSubmitted {
		if _, err := h.checklist.Reseed(r.Context(), updated, form.Preset, form.Custom, user.ID); err != nil {
			h.log.Error("reseeding checklist", "event_id", event.ID, "error", err)
			h.render.Error(w, r, http.StatusInternalServerError, "Could not update the bring list.")
			return
		}
	}

	session.PutFlash(r.Context(), h.sm, "success", "Event updated.")
	http.Redirect(w, r, eventPath(event.ID), http.StatusSeeOther)
}

// Delete removes an event and everything attached to it, creator only.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadOwnEvent(w, r)
	if !ok {
		return
	}

	if err := h.q.DeleteEvent(r.Context(), event.ID); err != nil {
		h.log.Error("deleting event", "event_id", event.ID, "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not delete the event.")
		return
	}

	session.PutFlash(r.Context(), h.sm, "success", "Event deleted.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// loadOwnEvent fetches the event in the id parameter and verifies the
// current user created it.
func (h *EventHandler) loadOwnEvent(w http.ResponseWriter, r *http.Request) (*model.Event, bool) {
	id, ok := idParam(r, "id")
	if !ok {
		h.render.Error(w, r, http.StatusBadRequest, "Invalid event id.")
		return nil, false
	}
	event, err := h.q.GetEventByID(r.Context(), id)
	if err != nil {
		h.eventLookupError(w, r, err)
		return nil, false
	}
	user := session.CurrentUser(r.Context())
	if user == nil || user.ID != event.CreatorID {
		h.render.Error(w, r, http.StatusForbidden, "Only the event's creator can do that.")
		return nil, false
	}
	return event, true
}

func (h *EventHandler) eventLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.render.Error(w, r, http.StatusNotFound, "That event doesn't exist.")
		return
	}
	h.log.Error("loading event", "error", err)
	h.render.Error(w, r, http.StatusInternalServerError, "Could not load the event.")
}

// eventForm is the parsed create/edit form.
type eventForm struct {
	Title          string
	Date           string
	DoorsOpen      sql.NullString
	LeaveBy        sql.NullString
	NoEnd          bool
	Description    string
	Capacity       int
	Dry            bool
	Preset         []string
	Custom         string
	BringSubmitted bool
}

// parseEventForm validates the shared create/edit form, flashing and
// redirecting back to returnTo on bad input.
func (h *EventHandler) parseEventForm(w http.ResponseWriter, r *http.Request, returnTo string) (eventForm, bool) {
	if err := r.ParseForm(); err != nil {
		h.render.Error(w, r, http.StatusBadRequest, "Could not read the form.")
		return eventForm{}, false
	}

	form := eventForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		DoorsOpen:   clockField(r, "doors_open_time"),
		NoEnd:       boolField(r, "no_end"),
		Description: strings.TrimSpace(r.FormValue("description")),
		Capacity:    intField(r, "capacity"),
		Dry:         boolField(r, "dry"),
		Preset:      r.PostForm["bring"],
		Custom:      strings.TrimSpace(r.FormValue("bring_other")),
	}
	// The no-end flag wins over a leave-by value, as on the form.
	if !form.NoEnd {
		form.LeaveBy = clockField(r, "leave_by_time")
	}
	_, hasBring := r.PostForm["bring"]
	_, hasOther := r.PostForm["bring_other"]
	form.BringSubmitted = hasBring || hasOther

	if form.Title == "" || !validDate(form.Date) {
		session.PutFlash(r.Context(), h.sm, "error", "Title and date are required.")
		http.Redirect(w, r, returnTo, http.StatusSeeOther)
		return eventForm{}, false
	}
	return form, true
}

func eventPath(id int64) string {
	return "/events/" + strconv.FormatInt(id, 10)
}
