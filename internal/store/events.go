package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/planpals/app/internal/model"
)

const eventColumns = `e.id, e.title, e.date, e.doors_open_time, e.leave_by_time,
	e.no_end_specified, e.description, e.capacity, e.dry, e.share_token,
	e.creator_id, e.created_at, u.name`

const eventSelect = "SELECT " + eventColumns + " FROM events e JOIN users u ON e.creator_id = u.id"

// CreateEventParams holds the fields for a new event row.
type CreateEventParams struct {
	Title          string
	Date           string
	DoorsOpenTime  sql.NullString
	LeaveByTime    sql.NullString
	NoEndSpecified bool
	Description    string
	Capacity       int
	Dry            bool
	ShareToken     string
	CreatorID      int64
}

// CreateEvent inserts a new event and returns the stored row.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (*model.Event, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO events (title, date, doors_open_time, leave_by_time, no_end_specified,
			description, capacity, dry, share_token, creator_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Date, arg.DoorsOpenTime, arg.LeaveByTime, arg.NoEndSpecified,
		arg.Description, arg.Capacity, arg.Dry, arg.ShareToken, arg.CreatorID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return q.GetEventByID(ctx, id)
}

// UpdateEventParams holds the editable fields of an event.
type UpdateEventParams struct {
	ID             int64
	Title          string
	Date           string
	DoorsOpenTime  sql.NullString
	LeaveByTime    sql.NullString
	NoEndSpecified bool
	Description    string
	Capacity       int
	Dry            bool
}

// UpdateEvent updates the editable fields of an event in place.
func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (*model.Event, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE events SET title = ?, date = ?, doors_open_time = ?, leave_by_time = ?,
			no_end_specified = ?, description = ?, capacity = ?, dry = ?
		WHERE id = ?`,
		arg.Title, arg.Date, arg.DoorsOpenTime, arg.LeaveByTime,
		arg.NoEndSpecified, arg.Description, arg.Capacity, arg.Dry, arg.ID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return q.GetEventByID(ctx, arg.ID)
}

// GetEventByID retrieves an event by id, with the creator's name joined in.
func (q *Queries) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, eventSelect+" WHERE e.id = ?", id))
}

// GetEventByShareToken retrieves an event by its opaque share token.
func (q *Queries) GetEventByShareToken(ctx context.Context, token string) (*model.Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, eventSelect+" WHERE e.share_token = ?", token))
}

// ListEvents returns all events in calendar order: by date, then by
// doors-open time with all-day (NULL) events first.
func (q *Queries) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		eventSelect+" ORDER BY e.date ASC, e.doors_open_time ASC NULLS FIRST, e.id ASC")
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// ListEventsByCreator returns a user's own events, newest date first.
func (q *Queries) ListEventsByCreator(ctx context.Context, creatorID int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		eventSelect+" WHERE e.creator_id = ? ORDER BY e.date DESC, e.id DESC", creatorID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// DeleteEvent removes an event; its RSVPs and checklist items cascade.
func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEvent(row *sql.Row) (*model.Event, error) {
	e := &model.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Date, &e.DoorsOpenTime, &e.LeaveByTime,
		&e.NoEndSpecified, &e.Description, &e.Capacity, &e.Dry, &e.ShareToken,
		&e.CreatorID, &e.CreatedAt, &e.CreatorName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.DoorsOpenTime, &e.LeaveByTime,
			&e.NoEndSpecified, &e.Description, &e.Capacity, &e.Dry, &e.ShareToken,
			&e.CreatorID, &e.CreatedAt, &e.CreatorName); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
