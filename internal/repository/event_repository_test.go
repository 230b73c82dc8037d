package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/portal-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func eventRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "subtitle", "description", "location", "organizer", "image",
		"start_date", "end_date", "start_time", "end_time", "category", "scope",
		"credit_type", "status", "registration_fees", "registration_url",
		"max_capacity", "registered", "created_at", "updated_at",
	}).
		AddRow("e2", "Blockchain & Web3 Summit", "", "", "Expo Centre", "E-Cell", "",
			now, now, "09:00", "17:00", string(models.CategorySeminar), string(models.ScopeExternal),
			string(models.CreditGroup2), string(models.StatusUpcoming), "Free", "",
			100, 40, now, now).
		AddRow("e1", "AI & Machine Learning Masterclass", "", "", "Lab 2", "Coding Club", "",
			now, now, "10:00", "16:00", string(models.CategoryWorkshop), string(models.ScopeInternal),
			string(models.CreditGroup2), string(models.StatusUpcoming), "Free", "",
			50, 50, now.Add(-time.Hour), now)
}

func TestListEventsNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM events ORDER BY created_at DESC, id DESC")).
		WillReturnRows(eventRows(now))

	events, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEvent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{
		Title:       "UX Design Sprint",
		Organizer:   "Design Club",
		Category:    models.CategoryWorkshop,
		Scope:       models.ScopeInternal,
		Status:      models.StatusUpcoming,
		MaxCapacity: 50,
	}
	err := repo.Create(context.Background(), event)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID, "create must assign an id")
	assert.False(t, event.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterCapacityReached(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	lockRows := sqlmock.NewRows([]string{"id", "max_capacity", "registered", "status"}).
		AddRow("e1", 50, 50, string(models.StatusUpcoming))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, max_capacity, registered, status FROM events WHERE id = $1 FOR UPDATE")).
		WithArgs("e1").
		WillReturnRows(lockRows)
	mock.ExpectRollback()

	_, err := repo.Register(context.Background(), "e1", "s1")
	assert.ErrorIs(t, err, ErrCapacityReached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	lockRows := sqlmock.NewRows([]string{"id", "max_capacity", "registered", "status"}).
		AddRow("e1", 50, 10, string(models.StatusUpcoming))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs("e1").WillReturnRows(lockRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("e1", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Register(context.Background(), "e1", "s1")
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterSuccess(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	lockRows := sqlmock.NewRows([]string{"id", "max_capacity", "registered", "status"}).
		AddRow("e1", 50, 10, string(models.StatusUpcoming))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs("e1").WillReturnRows(lockRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("e1", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO event_registrations").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET registered = registered + 1")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	reg, err := repo.Register(context.Background(), "e1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "e1", reg.EventID)
	assert.Equal(t, "s1", reg.StudentID)
	assert.NotEmpty(t, reg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
