package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
)

// AttendanceRepository provides persistence for attendance sessions and
// check-in records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const sessionColumns = "id, schedule_id, latitude, longitude, radius_m, opens_at, closes_at, created_at"
const recordColumns = "id, session_id, student_id, status, latitude, longitude, distance_m, ip_address, on_campus_ip, flag_reason, checked_at"

// CreateSession opens a new check-in window.
func (r *AttendanceRepository) CreateSession(ctx context.Context, session *models.AttendanceSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance_sessions (id, schedule_id, latitude, longitude, radius_m, opens_at, closes_at, created_at) VALUES (:id, :schedule_id, :latitude, :longitude, :radius_m, :opens_at, :closes_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create attendance session: %w", err)
	}
	return nil
}

// FindSessionByID loads a session by id.
func (r *AttendanceRepository) FindSessionByID(ctx context.Context, id string) (*models.AttendanceSession, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_sessions WHERE id = $1", sessionColumns)
	var session models.AttendanceSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateRecord stores one student check-in.
func (r *AttendanceRepository) CreateRecord(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CheckedAt.IsZero() {
		record.CheckedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance_records (id, session_id, student_id, status, latitude, longitude, distance_m, ip_address, on_campus_ip, flag_reason, checked_at) VALUES (:id, :session_id, :student_id, :status, :latitude, :longitude, :distance_m, :ip_address, :on_campus_ip, :flag_reason, :checked_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}
	return nil
}

// FindRecordBySession returns the student's record for the session, or nil
// when none exists.
func (r *AttendanceRepository) FindRecordBySession(ctx context.Context, sessionID, studentID string) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records WHERE session_id = $1 AND student_id = $2", recordColumns)
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, sessionID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find attendance record: %w", err)
	}
	return &record, nil
}

// LastRecordSince returns the student's most recent check-in at or after the
// cutoff, or nil when there is none. The velocity check compares it against
// the incoming check-in's position.
func (r *AttendanceRepository) LastRecordSince(ctx context.Context, studentID string, cutoff time.Time) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records WHERE student_id = $1 AND checked_at >= $2 ORDER BY checked_at DESC LIMIT 1", recordColumns)
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, studentID, cutoff.UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find last attendance record: %w", err)
	}
	return &record, nil
}

// ListRecords returns check-in records matching the filter, ordered by
// check-in time.
func (r *AttendanceRepository) ListRecords(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	base := "FROM attendance_records WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SessionID != "" {
		conditions = append(conditions, fmt.Sprintf("session_id = $%d", len(args)+1))
		args = append(args, filter.SessionID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(*filter.Status))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("checked_at >= $%d", len(args)+1))
		args = append(args, filter.DateFrom.UTC())
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("checked_at <= $%d", len(args)+1))
		args = append(args, filter.DateTo.UTC())
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"checked_at": true,
		"status":     true,
		"distance_m": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "checked_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", recordColumns, base, sortBy, order, size, offset)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance records: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance records: %w", err)
	}

	return records, total, nil
}
