package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/dto"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
	appErrors "github.com/ridvansevik/campus-management-system-backend-part3/pkg/errors"
)

type attendanceStoreStub struct {
	sessions map[string]*models.AttendanceSession
	records  []*models.AttendanceRecord
	last     *models.AttendanceRecord
}

func (s *attendanceStoreStub) CreateSession(ctx context.Context, session *models.AttendanceSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if s.sessions == nil {
		s.sessions = make(map[string]*models.AttendanceSession)
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *attendanceStoreStub) FindSessionByID(ctx context.Context, id string) (*models.AttendanceSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return session, nil
}

func (s *attendanceStoreStub) CreateRecord(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = "record-1"
	}
	s.records = append(s.records, record)
	return nil
}

func (s *attendanceStoreStub) FindRecordBySession(ctx context.Context, sessionID, studentID string) (*models.AttendanceRecord, error) {
	for _, record := range s.records {
		if record.SessionID == sessionID && record.StudentID == studentID {
			return record, nil
		}
	}
	return nil, nil
}

func (s *attendanceStoreStub) LastRecordSince(ctx context.Context, studentID string, cutoff time.Time) (*models.AttendanceRecord, error) {
	if s.last != nil && s.last.CheckedAt.After(cutoff) {
		return s.last, nil
	}
	return nil, nil
}

func (s *attendanceStoreStub) ListRecords(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	var out []models.AttendanceRecord
	for _, record := range s.records {
		if filter.SessionID != "" && record.SessionID != filter.SessionID {
			continue
		}
		if filter.StudentID != "" && record.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != nil && record.Status != *filter.Status {
			continue
		}
		out = append(out, *record)
	}
	return out, len(out), nil
}

type scheduleReaderStub struct {
	missing bool
}

func (s scheduleReaderStub) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	if s.missing {
		return nil, sql.ErrNoRows
	}
	return &models.Schedule{ID: id}, nil
}

// The anchor sits at 41.0, 29.0; one thousandth of a degree of latitude is
// roughly 111 meters.
const (
	anchorLat = 41.0
	anchorLon = 29.0
)

func newAttendanceFixture(store *attendanceStoreStub) *AttendanceService {
	return NewAttendanceService(store, scheduleReaderStub{}, nil, nil, nil, AttendanceConfig{
		CampusCIDRs: []string{"10.0.0.0/8"},
	})
}

func openTestSession(t *testing.T, svc *AttendanceService, store *attendanceStoreStub) *models.AttendanceSession {
	t.Helper()
	session, err := svc.OpenSession(context.Background(), dto.OpenSessionRequest{
		ScheduleID: "123e4567-e89b-12d3-a456-426614174000",
		Latitude:   anchorLat,
		Longitude:  anchorLon,
	})
	require.NoError(t, err)
	return session
}

func TestAttendanceServiceOpenSessionDefaults(t *testing.T) {
	store := &attendanceStoreStub{}
	svc := newAttendanceFixture(store)

	session := openTestSession(t, svc, store)
	assert.Equal(t, 50.0, session.RadiusM)
	assert.Equal(t, 15*time.Minute, session.ClosesAt.Sub(session.OpensAt))
}

func TestAttendanceServiceOpenSessionMissingSchedule(t *testing.T) {
	svc := NewAttendanceService(&attendanceStoreStub{}, scheduleReaderStub{missing: true}, nil, nil, nil, AttendanceConfig{})

	_, err := svc.OpenSession(context.Background(), dto.OpenSessionRequest{
		ScheduleID: "123e4567-e89b-12d3-a456-426614174000",
		Latitude:   anchorLat,
		Longitude:  anchorLon,
	})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceCheckInPresent(t *testing.T) {
	store := &attendanceStoreStub{}
	svc := newAttendanceFixture(store)
	session := openTestSession(t, svc, store)

	resp, err := svc.CheckIn(context.Background(), "10.1.2.3", dto.CheckInRequest{
		StudentID: "stu-1",
		SessionID: session.ID,
		Latitude:  anchorLat + 0.0001,
		Longitude: anchorLon,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.AttendanceStatusPresent), resp.Status)
	assert.True(t, resp.OnCampusIP)
	assert.Empty(t, resp.FlagReason)
	require.Len(t, store.records, 1)
}

func TestAttendanceServiceCheckInRejectedFarAway(t *testing.T) {
	store := &attendanceStoreStub{}
	svc := newAttendanceFixture(store)
	session := openTestSession(t, svc, store)

	// Around 555 meters north, past the hard reject threshold.
	_, err := svc.CheckIn(context.Background(), "10.1.2.3", dto.CheckInRequest{
		StudentID: "stu-1",
		SessionID: session.ID,
		Latitude:  anchorLat + 0.005,
		Longitude: anchorLon,
	})
	assert.Equal(t, appErrors.ErrAttendanceRejected.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.records, "rejected check-ins write no record")
}

func TestAttendanceServiceCheckInFlaggedOutsideGeofence(t *testing.T) {
	store := &attendanceStoreStub{}
	svc := newAttendanceFixture(store)
	session := openTestSession(t, svc, store)

	// Around 133 meters out: beyond radius+tolerance but under the reject
	// threshold.
	resp, err := svc.CheckIn(context.Background(), "10.1.2.3", dto.CheckInRequest{
		StudentID: "stu-1",
		SessionID: session.ID,
		Latitude:  anchorLat + 0.0012,
		Longitude: anchorLon,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.AttendanceStatusFlagged), resp.Status)
	assert.Contains(t, resp.FlagReason, "outside geofence")
}

func TestAttendanceServiceCheckInFlaggedOffCampusIP(t *testing.T) {
	store := &attendanceStoreStub{}
	svc := newAttendanceFixture(store)
	session := openTestSession(t, svc, store)

	resp, err := svc.CheckIn(context.Background(), "203.0.113.5", dto.CheckInRequest{
		StudentID: "stu-1",
		SessionID: session.ID,
		Latitude:  anchorLat,
		Longitude: anchorLon,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.AttendanceStatusFlagged), resp.Status)
	assert.False(t, resp.OnCampusIP)
	assert.Contains(t, resp.FlagReason, "off-campus network")
}

func TestAttendanceServiceCheckInFlaggedImpossibleTravel(t *testing.T) {
	store := &attendanceStoreStub{
		// A sighting about 100 km away half an hour ago implies roughly
		// 200 km/h of travel.
		last: &models.AttendanceRecord{
			StudentID: "stu-1",
			Latitude:  anchorLat - 0.9,
			Longitude: anchorLon,
			CheckedAt: time.Now().UTC().Add(-30 * time.Minute),
		},
	}
	svc := newAttendanceFixture(store)
	session := openTestSession(t, svc, store)

	resp, err := svc.CheckIn(context.Background(), "10.1.2.3", dto.CheckInRequest{
		StudentID: "stu-1",
		SessionID: session.ID,
		Latitude:  anchorLat,
		Longitude: anchorLon,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.AttendanceStatusFlagged), resp.Status)
	assert.Contains(t, resp.FlagReason, "implied travel speed")
}

func TestAttendanceServiceCheckInDuplicate(t *testing.T) {
	store := &attendanceStoreStub{}
	svc := newAttendanceFixture(store)
	session := openTestSession(t, svc, store)

	payload := dto.CheckInRequest{SessionID: session.ID, StudentID: "stu-1", Latitude: anchorLat, Longitude: anchorLon}
	_, err := svc.CheckIn(context.Background(), "10.1.2.3", payload)
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), "10.1.2.3", payload)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceCheckInClosedSession(t *testing.T) {
	store := &attendanceStoreStub{}
	svc := newAttendanceFixture(store)
	session := openTestSession(t, svc, store)
	session.ClosesAt = session.OpensAt.Add(-time.Minute)

	_, err := svc.CheckIn(context.Background(), "10.1.2.3", dto.CheckInRequest{
		StudentID: "stu-1",
		SessionID: session.ID,
		Latitude:  anchorLat,
		Longitude: anchorLon,
	})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceSessionRecords(t *testing.T) {
	store := &attendanceStoreStub{}
	svc := newAttendanceFixture(store)
	session := openTestSession(t, svc, store)

	_, err := svc.CheckIn(context.Background(), "10.1.2.3", dto.CheckInRequest{
		StudentID: "stu-1", SessionID: session.ID, Latitude: anchorLat, Longitude: anchorLon,
	})
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), "203.0.113.5", dto.CheckInRequest{
		StudentID: "stu-2", SessionID: session.ID, Latitude: anchorLat, Longitude: anchorLon,
	})
	require.NoError(t, err)

	records, total, err := svc.SessionRecords(context.Background(), session.ID, dto.SessionRecordsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, records, 2)

	flagged, total, err := svc.SessionRecords(context.Background(), session.ID, dto.SessionRecordsQuery{Status: "flagged"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, flagged, 1)
	assert.Equal(t, "stu-2", flagged[0].StudentID)
}

func TestAttendanceServiceSessionRecordsUnknownStatus(t *testing.T) {
	store := &attendanceStoreStub{}
	svc := newAttendanceFixture(store)
	session := openTestSession(t, svc, store)

	_, _, err := svc.SessionRecords(context.Background(), session.ID, dto.SessionRecordsQuery{Status: "bogus"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceSessionRecordsMissingSession(t *testing.T) {
	svc := newAttendanceFixture(&attendanceStoreStub{})

	_, _, err := svc.SessionRecords(context.Background(), "no-such-session", dto.SessionRecordsQuery{})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
