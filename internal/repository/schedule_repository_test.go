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

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryListFiltersAndCounts(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "section_id", "classroom_id", "day_of_week", "start_time", "end_time",
		"semester", "year", "created_at", "updated_at",
		"course_code", "course_name", "instructor_id", "instructor_name", "building", "room_code",
	}).AddRow(
		"sch-1", "sec-1", "room-1", "Monday", "09:00", "09:50",
		"Fall", 2026, time.Now(), time.Now(),
		"CSE101", "Intro to Programming", "inst-1", "Grace Hopper", "A", "101",
	)
	mock.ExpectQuery("SELECT s.id, .+ FROM schedules s JOIN course_sections cs .+ WHERE 1=1 AND s.semester = \\$1 AND s.year = \\$2 ORDER BY s.day_of_week ASC").
		WithArgs("Fall", 2026).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schedules s`).
		WithArgs("Fall", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.ScheduleFilter{Semester: "Fall", Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "CSE101", list[0].CourseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListRejectsUnknownSort(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	// An unknown sort column falls back to day_of_week instead of reaching
	// the query text.
	mock.ExpectQuery("ORDER BY s.day_of_week ASC").
		WithArgs("Fall", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("Fall", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.ScheduleFilter{
		Semester: "Fall",
		Year:     2026,
		SortBy:   "evil; DROP TABLE schedules",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkCreateWithTx(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	schedules := []models.Schedule{
		{SectionID: "sec-1", ClassroomID: "room-1", DayOfWeek: "Monday", StartTime: "09:00", EndTime: "09:50", Semester: "Fall", Year: 2026},
		{SectionID: "sec-2", ClassroomID: "room-2", DayOfWeek: "Tuesday", StartTime: "10:00", EndTime: "10:50", Semester: "Fall", Year: 2026},
	}
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, schedules))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, schedules[0].ID, "ids are assigned during insert")
	assert.NotEmpty(t, schedules[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkCreateNilTx(t *testing.T) {
	db, _, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	err := repo.BulkCreateWithTx(context.Background(), nil, []models.Schedule{{SectionID: "sec-1"}})
	assert.Error(t, err)
}

func TestScheduleRepositoryDeleteBySemesterWithTx(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules WHERE semester = $1 AND year = $2")).
		WithArgs("Fall", 2026).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	count, err := repo.DeleteBySemesterWithTx(context.Background(), tx, "Fall", 2026)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListBySection(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "section_id", "classroom_id", "day_of_week", "start_time", "end_time", "semester", "year", "created_at", "updated_at"}).
		AddRow("sch-1", "sec-1", "room-1", "Monday", "09:00", "09:50", "Fall", 2026, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .+ FROM schedules WHERE section_id = \\$1 ORDER BY day_of_week ASC, start_time ASC").
		WithArgs("sec-1").
		WillReturnRows(rows)

	list, err := repo.ListBySection(context.Background(), "sec-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Monday", list[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}
