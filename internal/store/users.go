package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/planpals/app/internal/model"
)

const userColumns = "id, name, email, password_hash, created_at"

// CreateUserParams holds the fields for a new user row.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
}

// CreateUser inserts a new user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*model.User, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO users(name, email, password_hash) VALUES(?, ?, ?)",
		arg.Name, arg.Email, arg.PasswordHash)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	// Re-select so DB defaults like created_at come back populated.
	return q.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email address.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// ListUsers returns all users ordered by display name.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
