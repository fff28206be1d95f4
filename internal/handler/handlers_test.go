package handler_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/planpals/app/internal/availability"
	"github.com/planpals/app/internal/checklist"
	"github.com/planpals/app/internal/handler"
	"github.com/planpals/app/internal/model"
	"github.com/planpals/app/internal/rsvp"
	"github.com/planpals/app/internal/session"
	"github.com/planpals/app/internal/store"
)

// newTestApp wires the full router the way cmd/server does and serves
// it from an httptest server backed by a temp database.
func newTestApp(t *testing.T) (*httptest.Server, *store.Queries) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sm := session.New(db, true)
	queries := store.New(db)

	renderer, err := handler.NewRenderer(sm, log)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	resolver := availability.NewResolver(queries)
	rsvps := rsvp.NewManager(db)
	bringList := checklist.NewManager(db)

	authH := handler.NewAuthHandler(queries, sm, renderer, log)
	eventsH := handler.NewEventHandler(queries, sm, renderer, resolver, rsvps, bringList, log)
	scheduleH := handler.NewScheduleHandler(queries, sm, renderer, log)
	profileH := handler.NewProfileHandler(queries, renderer, log)

	r := chi.NewRouter()
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

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, queries
}

// newClient returns a cookie-carrying client for one browser session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func register(t *testing.T, client *http.Client, base, name, email string) {
	t.Helper()
	resp, err := client.PostForm(base+"/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {"secret123"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestApp(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("got %d %q, want 200 ok", resp.StatusCode, body)
	}
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	srv, _ := newTestApp(t)

	client := newClient(t)
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Get(srv.URL + "/events/new")
	if err != nil {
		t.Fatalf("GET /events/new: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRegisterAndCreateEvent(t *testing.T) {
	srv, q := newTestApp(t)
	client := newClient(t)

	register(t, client, srv.URL, "Ada", "ada@example.com")

	resp, err := client.PostForm(srv.URL+"/events/new", url.Values{
		"title":       {"Picnic"},
		"date":        {"2026-09-12"},
		"capacity":    {"4"},
		"dry":         {"1"},
		"bring":       {"Chairs", "Alcohol"},
		"bring_other": {"Frisbee"},
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	events, err := q.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	event := events[0]
	if event.Title != "Picnic" || event.Capacity != 4 || !event.Dry {
		t.Errorf("event = %+v", event)
	}
	if event.ShareToken == "" {
		t.Error("event should get a share token")
	}

	items, err := q.ListItemsForEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("ListItemsForEvent: %v", err)
	}
	got := make([]string, 0, len(items))
	for _, item := range items {
		got = append(got, item.Label)
	}
	// Dry event: Alcohol is filtered out at seed time.
	want := []string{"Chairs", "Frisbee"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("labels = %v, want %v", got, want)
	}

	t.Run("share link works logged out", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/e/" + event.ShareToken)
		if err != nil {
			t.Fatalf("GET share link: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Picnic") {
			t.Errorf("share page status %d, want the event page", resp.StatusCode)
		}
	})
}

func TestToggleForbiddenForNonCreator(t *testing.T) {
	srv, q := newTestApp(t)

	creator := newClient(t)
	register(t, creator, srv.URL, "Ada", "ada@example.com")
	resp, err := creator.PostForm(srv.URL+"/events/new", url.Values{
		"title": {"Picnic"},
		"date":  {"2026-09-12"},
		"bring": {"Chairs"},
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	resp.Body.Close()

	events, err := q.ListEvents(context.Background())
	if err != nil || len(events) != 1 {
		t.Fatalf("ListEvents: %v (%d events)", err, len(events))
	}
	items, err := q.ListItemsForEvent(context.Background(), events[0].ID)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListItemsForEvent: %v (%d items)", err, len(items))
	}
	item := items[0]

	stranger := newClient(t)
	register(t, stranger, srv.URL, "Sam", "sam@example.com")

	resp, err = stranger.Post(fmt.Sprintf("%s/items/%d/toggle", srv.URL, item.ID), "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}

	stored, err := q.GetItemByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetItemByID: %v", err)
	}
	if stored.IsChecked {
		t.Error("a forbidden toggle must not change state")
	}
}

func TestSubmitRSVP(t *testing.T) {
	srv, q := newTestApp(t)

	client := newClient(t)
	register(t, client, srv.URL, "Ada", "ada@example.com")
	resp, err := client.PostForm(srv.URL+"/events/new", url.Values{
		"title": {"Picnic"},
		"date":  {"2026-09-12"},
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	resp.Body.Close()

	events, err := q.ListEvents(context.Background())
	if err != nil || len(events) != 1 {
		t.Fatalf("ListEvents: %v (%d events)", err, len(events))
	}
	event := events[0]

	resp, err = client.PostForm(fmt.Sprintf("%s/events/%d/rsvp", srv.URL, event.ID), url.Values{
		"status": {model.StatusGoing},
	})
	if err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	resp.Body.Close()

	rsvps, err := q.ListRSVPsForEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("ListRSVPsForEvent: %v", err)
	}
	if len(rsvps) != 1 || rsvps[0].Status != model.StatusGoing {
		t.Errorf("rsvps = %+v, want one going record", rsvps)
	}

	t.Run("invalid status is a 400", func(t *testing.T) {
		resp, err := client.PostForm(fmt.Sprintf("%s/events/%d/rsvp", srv.URL, event.ID), url.Values{
			"status": {"attending"},
		})
		if err != nil {
			t.Fatalf("rsvp: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}
