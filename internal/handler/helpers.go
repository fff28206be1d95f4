package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/planpals/app/internal/model"
)

// idParam parses the named chi URL parameter as an int64 id.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// validDate reports whether s is a YYYY-MM-DD date.
func validDate(s string) bool {
	_, err := time.Parse(model.DateLayout, s)
	return err == nil
}

// clockField reads an optional HH:MM form value into a NullString,
// treating blanks and malformed values as absent.
func clockField(r *http.Request, name string) sql.NullString {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return sql.NullString{}
	}
	if _, err := time.Parse(model.TimeLayout, v); err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// intField reads an optional non-negative integer form value,
// defaulting to 0.
func intField(r *http.Request, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// boolField reads a checkbox form value.
func boolField(r *http.Request, name string) bool {
	return r.FormValue(name) != ""
}
