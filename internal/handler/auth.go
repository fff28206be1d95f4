package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/planpals/app/internal/auth"
	"github.com/planpals/app/internal/session"
	"github.com/planpals/app/internal/store"
)

// AuthHandler serves registration, login, and logout.
type AuthHandler struct {
	q      *store.Queries
	sm     *scs.SessionManager
	render *Renderer
	log    *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(q *store.Queries, sm *scs.SessionManager, render *Renderer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{q: q, sm: sm, render: render, log: log}
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "register.html", map[string]any{"Title": "Register"})
}

// Register creates an account and logs the new user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		session.PutFlash(r.Context(), h.sm, "error", "All fields are required.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if _, err := h.q.GetUserByEmail(r.Context(), email); err == nil {
		session.PutFlash(r.Context(), h.sm, "error", "Email already registered.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error("looking up email", "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not create your account.")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		h.log.Error("hashing password", "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not create your account.")
		return
	}

	user, err := h.q.CreateUser(r.Context(), store.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		h.log.Error("creating user", "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not create your account.")
		return
	}

	h.logIn(w, r, user.ID)
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "login.html", map[string]any{"Title": "Log in"})
}

// Login checks credentials and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	user, err := h.q.GetUserByEmail(r.Context(), email)
	if err != nil || auth.CheckPassword(user.PasswordHash, password) != nil {
		session.PutFlash(r.Context(), h.sm, "error", "Invalid credentials.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.logIn(w, r, user.ID)
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sm.Destroy(r.Context()); err != nil {
		h.log.Error("destroying session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) logIn(w http.ResponseWriter, r *http.Request, userID int64) {
	// New token on privilege change, against session fixation.
	if err := h.sm.RenewToken(r.Context()); err != nil {
		h.log.Error("renewing session token", "error", err)
		h.render.Error(w, r, http.StatusInternalServerError, "Could not log you in.")
		return
	}
	h.sm.Put(r.Context(), session.KeyUserID, userID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
