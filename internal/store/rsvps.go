package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/planpals/app/internal/model"
)

// UpsertRSVPParams identifies the (user, event) slot and the status to record.
type UpsertRSVPParams struct {
	EventID int64
	UserID  int64
	Status  string
}

// UpsertRSVP inserts a new RSVP or updates an existing one in place.
// The UNIQUE(user_id, event_id) constraint is the authoritative guard:
// a conflicting insert becomes an update of the existing row.
func (q *Queries) UpsertRSVP(ctx context.Context, arg UpsertRSVPParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO rsvps (event_id, user_id, status, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, event_id) DO UPDATE SET
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP`,
		arg.EventID, arg.UserID, arg.Status)
	return err
}

// GetRSVP retrieves a user's RSVP for an event.
func (q *Queries) GetRSVP(ctx context.Context, userID, eventID int64) (*model.RSVP, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT r.id, r.event_id, r.user_id, r.status, r.created_at, r.updated_at, u.name
		FROM rsvps r
		JOIN users u ON r.user_id = u.id
		WHERE r.user_id = ? AND r.event_id = ?`, userID, eventID)

	rsvp := &model.RSVP{}
	err := row.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Status,
		&rsvp.CreatedAt, &rsvp.UpdatedAt, &rsvp.UserName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rsvp, nil
}

// ListRSVPsForEvent retrieves all RSVPs for an event with the
// responders' names, most recently updated first.
func (q *Queries) ListRSVPsForEvent(ctx context.Context, eventID int64) ([]model.RSVP, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT r.id, r.event_id, r.user_id, r.status, r.created_at, r.updated_at, u.name
		FROM rsvps r
		JOIN users u ON r.user_id = u.id
		WHERE r.event_id = ?
		ORDER BY r.updated_at DESC, r.id DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []model.RSVP
	for rows.Next() {
		var r model.RSVP
		if err := rows.Scan(&r.ID, &r.EventID, &r.UserID, &r.Status,
			&r.CreatedAt, &r.UpdatedAt, &r.UserName); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, r)
	}
	return rsvps, rows.Err()
}

// ListRSVPsForUser retrieves a user's RSVPs with event title and date
// joined in, for the profile page.
func (q *Queries) ListRSVPsForUser(ctx context.Context, userID int64) ([]model.RSVP, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT r.id, r.event_id, r.user_id, r.status, r.created_at, r.updated_at,
			e.title, e.date
		FROM rsvps r
		JOIN events e ON r.event_id = e.id
		WHERE r.user_id = ?
		ORDER BY e.date DESC, r.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []model.RSVP
	for rows.Next() {
		var r model.RSVP
		if err := rows.Scan(&r.ID, &r.EventID, &r.UserID, &r.Status,
			&r.CreatedAt, &r.UpdatedAt, &r.EventTitle, &r.EventDate); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, r)
	}
	return rsvps, rows.Err()
}

// CountGoing returns the number of "going" RSVPs for an event.
func (q *Queries) CountGoing(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rsvps WHERE event_id = ? AND status = ?",
		eventID, model.StatusGoing).Scan(&n)
	return n, err
}

// CountRSVPsByStatus returns per-status counts for an event.
func (q *Queries) CountRSVPsByStatus(ctx context.Context, eventID int64) (map[string]int, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM rsvps WHERE event_id = ? GROUP BY status", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
