package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
)

func newPreferenceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestInstructorPreferenceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newPreferenceRepoMock(t)
	defer cleanup()
	repo := NewInstructorPreferenceRepository(db)

	mock.ExpectExec(`INSERT INTO instructor_preferences .+ ON CONFLICT \(instructor_id\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	pref := &models.InstructorPreference{
		InstructorID:   "inst-1",
		PreferredDays:  pq.StringArray{"Monday", "Wednesday"},
		PreferredTimes: pq.StringArray{"09:00"},
	}
	require.NoError(t, repo.Upsert(context.Background(), pref))
	assert.NotEmpty(t, pref.ID, "upsert assigns an id to new rows")
	assert.False(t, pref.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
