package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/planpals/app/internal/model"
)

const windowColumns = "id, user_id, date, start_time, end_time, is_unavailable"

// CreateWindowParams holds the fields for a new unavailability window.
type CreateWindowParams struct {
	UserID    int64
	Date      string
	StartTime string
	EndTime   string
}

// CreateWindow inserts an unavailability window for a user.
func (q *Queries) CreateWindow(ctx context.Context, arg CreateWindowParams) (*model.AvailabilityWindow, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO availability_windows (user_id, date, start_time, end_time, is_unavailable)
		VALUES (?, ?, ?, ?, 1)`,
		arg.UserID, arg.Date, arg.StartTime, arg.EndTime)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return q.GetWindowByID(ctx, id)
}

// GetWindowByID retrieves a window by id.
func (q *Queries) GetWindowByID(ctx context.Context, id int64) (*model.AvailabilityWindow, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+windowColumns+" FROM availability_windows WHERE id = ?", id)

	w := &model.AvailabilityWindow{}
	err := row.Scan(&w.ID, &w.UserID, &w.Date, &w.StartTime, &w.EndTime, &w.IsUnavailable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWindowsForUser returns a user's windows ordered by date then start time.
func (q *Queries) ListWindowsForUser(ctx context.Context, userID int64) ([]model.AvailabilityWindow, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+windowColumns+` FROM availability_windows
		WHERE user_id = ? ORDER BY date ASC, start_time ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	return collectWindows(rows)
}

// ListWindowsForDate returns every user's windows on a given date, so
// the availability resolver can group them without a query per user.
func (q *Queries) ListWindowsForDate(ctx context.Context, date string) ([]model.AvailabilityWindow, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+windowColumns+` FROM availability_windows
		WHERE date = ? ORDER BY user_id ASC, start_time ASC`, date)
	if err != nil {
		return nil, err
	}
	return collectWindows(rows)
}

// DeleteWindow removes an unavailability window.
func (q *Queries) DeleteWindow(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM availability_windows WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectWindows(rows *sql.Rows) ([]model.AvailabilityWindow, error) {
	defer rows.Close()

	var windows []model.AvailabilityWindow
	for rows.Next() {
		var w model.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.StartTime, &w.EndTime, &w.IsUnavailable); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}
