package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
)

func newAttendanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func attendanceRecordRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "session_id", "student_id", "status", "latitude", "longitude",
		"distance_m", "ip_address", "on_campus_ip", "flag_reason", "checked_at",
	})
}

func TestAttendanceRepositoryListRecordsBySessionAndStatus(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	rows := attendanceRecordRows().
		AddRow("rec-1", "sess-1", "stu-1", "FLAGGED", 41.0, 29.0, 130.0, "203.0.113.5", false, "off-campus network", now)
	mock.ExpectQuery(`SELECT .+ FROM attendance_records WHERE 1=1 AND session_id = \$1 AND status = \$2 ORDER BY checked_at ASC`).
		WithArgs("sess-1", "FLAGGED").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attendance_records WHERE 1=1 AND session_id = \$1 AND status = \$2`).
		WithArgs("sess-1", "FLAGGED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	status := models.AttendanceStatusFlagged
	records, total, err := repo.ListRecords(context.Background(), models.AttendanceFilter{
		SessionID: "sess-1",
		Status:    &status,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, records, 1)
	assert.Equal(t, "stu-1", records[0].StudentID)
	assert.Equal(t, models.AttendanceStatusFlagged, records[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListRecordsUnknownSortFallsBack(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM attendance_records WHERE 1=1 AND session_id = \$1 ORDER BY checked_at ASC`).
		WithArgs("sess-1").
		WillReturnRows(attendanceRecordRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attendance_records WHERE 1=1 AND session_id = \$1`).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.ListRecords(context.Background(), models.AttendanceFilter{
		SessionID: "sess-1",
		SortBy:    "ip_address; DROP TABLE attendance_records",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
