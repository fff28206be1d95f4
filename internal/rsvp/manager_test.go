package rsvp

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planpals/app/internal/model"
	"github.com/planpals/app/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db))
	return db
}

func newUser(t *testing.T, q *store.Queries, email string) *model.User {
	t.Helper()
	u, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Name: email, Email: email, PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func newEvent(t *testing.T, q *store.Queries, creatorID int64, capacity int) *model.Event {
	t.Helper()
	e, err := q.CreateEvent(context.Background(), store.CreateEventParams{
		Title:      "Party",
		Date:       "2026-10-01",
		Capacity:   capacity,
		ShareToken: "tok",
		CreatorID:  creatorID,
	})
	require.NoError(t, err)
	return e
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	m := NewManager(db)

	host := newUser(t, q, "host@example.com")
	event := newEvent(t, q, host.ID, 0)

	_, err := m.SetStatus(context.Background(), event, host.ID, "attending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatus_CreateThenUpdateKeepsOneRecord(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)
	m := NewManager(db)

	host := newUser(t, q, "host@example.com")
	guest := newUser(t, q, "guest@example.com")
	event := newEvent(t, q, host.ID, 0)

	first, err := m.SetStatus(ctx, event, guest.ID, model.StatusMaybe)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMaybe, first.Status)

	second, err := m.SetStatus(ctx, event, guest.ID, model.StatusNo)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNo, second.Status)
	assert.Equal(t, first.ID, second.ID, "the record is updated in place")

	all, err := q.ListRSVPsForEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSetStatus_CapacityEnforced(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)
	m := NewManager(db)

	host := newUser(t, q, "host@example.com")
	event := newEvent(t, q, host.ID, 2)

	a := newUser(t, q, "a@example.com")
	b := newUser(t, q, "b@example.com")
	c := newUser(t, q, "c@example.com")

	_, err := m.SetStatus(ctx, event, a.ID, model.StatusGoing)
	require.NoError(t, err)
	_, err = m.SetStatus(ctx, event, b.ID, model.StatusGoing)
	require.NoError(t, err)

	t.Run("third going is rejected", func(t *testing.T) {
		_, err := m.SetStatus(ctx, event, c.ID, model.StatusGoing)
		assert.ErrorIs(t, err, ErrEventFull)
	})

	t.Run("full event still takes maybe and no", func(t *testing.T) {
		_, err := m.SetStatus(ctx, event, c.ID, model.StatusMaybe)
		assert.NoError(t, err)
	})

	t.Run("re-confirming your own going is never blocked", func(t *testing.T) {
		updated, err := m.SetStatus(ctx, event, a.ID, model.StatusGoing)
		require.NoError(t, err)
		assert.Equal(t, model.StatusGoing, updated.Status)
	})

	t.Run("leaving frees a slot", func(t *testing.T) {
		_, err := m.SetStatus(ctx, event, b.ID, model.StatusNo)
		require.NoError(t, err)
		_, err = m.SetStatus(ctx, event, c.ID, model.StatusGoing)
		assert.NoError(t, err)
	})
}

func TestSetStatus_ZeroCapacityIsUnlimited(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)
	m := NewManager(db)

	host := newUser(t, q, "host@example.com")
	event := newEvent(t, q, host.ID, 0)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		guest := newUser(t, q, email)
		_, err := m.SetStatus(ctx, event, guest.ID, model.StatusGoing)
		require.NoError(t, err)
	}

	counts, err := m.CountsForEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Going)
}

func TestSetStatus_MissingEvent(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	m := NewManager(db)

	guest := newUser(t, q, "guest@example.com")
	ghost := &model.Event{ID: 9999, Capacity: 0}

	_, err := m.SetStatus(context.Background(), ghost, guest.ID, model.StatusGoing)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCountsForEvent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)
	m := NewManager(db)

	host := newUser(t, q, "host@example.com")
	event := newEvent(t, q, host.ID, 0)

	_, err := m.SetStatus(ctx, event, host.ID, model.StatusGoing)
	require.NoError(t, err)
	guest := newUser(t, q, "guest@example.com")
	_, err = m.SetStatus(ctx, event, guest.ID, model.StatusMaybe)
	require.NoError(t, err)

	counts, err := m.CountsForEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, Counts{Going: 1, Maybe: 1, No: 0}, counts)
}
