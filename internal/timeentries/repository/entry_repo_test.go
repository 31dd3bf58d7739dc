package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranwip/pm-backend/internal/apperr"
	"github.com/ranwip/pm-backend/internal/dates"
	"github.com/ranwip/pm-backend/internal/timeentries/domain"
)

var entryCols = []string{"id", "task_id", "user_id", "description", "hours", "date", "start_time", "end_time", "billable", "created_at"}

func TestEntryRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start, end := "22:00", "02:00"
	e := &domain.TimeEntry{TaskID: 3, UserID: "u1", Hours: 4, Date: dates.New(2025, 1, 15), StartTime: &start, EndTime: &end, Billable: true}
	created := time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO time_entries`)).
		WithArgs(int64(3), "u1", nil, 4, "2025-01-15", "22:00", "02:00", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))

	require.NoError(t, NewEntryRepository(db).Create(context.Background(), e))
	assert.Equal(t, int64(11), e.ID)
	assert.Equal(t, created, e.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepository_GetScansClockTimes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM time_entries e WHERE e.id = \$1 FOR UPDATE`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(entryCols).AddRow(
			int64(11), int64(3), "u1", "pairing", 8, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			"09:00", "17:00", false, time.Now(),
		))

	e, err := NewEntryRepository(db).GetForUpdate(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", e.Date.String())
	require.NotNil(t, e.StartTime)
	assert.Equal(t, "09:00", *e.StartTime)
	assert.Equal(t, "pairing", *e.Description)
	assert.False(t, e.Billable)
}

func TestEntryRepository_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM time_entries`).WillReturnRows(sqlmock.NewRows(entryCols))

	_, err = NewEntryRepository(db).Get(context.Background(), 5)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestEntryRepository_ListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	project := int64(2)
	from := dates.New(2025, 1, 1)
	billable := true
	mock.ExpectQuery(regexp.QuoteMeta(
		`WHERE t.project_id = $1 AND e.date >= $2 AND e.billable = $3 ORDER BY e.date DESC, e.created_at DESC`)).
		WithArgs(int64(2), "2025-01-01", true).
		WillReturnRows(sqlmock.NewRows(entryCols))

	items, err := NewEntryRepository(db).List(context.Background(), domain.Filter{ProjectID: &project, From: &from, Billable: &billable})
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepository_Totals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	user := "u1"
	mock.ExpectQuery(regexp.QuoteMeta(`FILTER (WHERE e.billable)`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "billable"}).AddRow(20, 12))

	s, err := NewEntryRepository(db).Totals(context.Background(), domain.Filter{UserID: &user})
	require.NoError(t, err)
	assert.Equal(t, domain.HoursSummary{Total: 20, Billable: 12, NonBillable: 8}, s)
}

func TestEntryRepository_SumHoursByTask(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(hours), 0) FROM time_entries WHERE task_id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0))

	total, err := NewEntryRepository(db).SumHoursByTask(context.Background(), 3)
	require.NoError(t, err)
	assert.Zero(t, total)
}
