package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
)

// ScheduleRepository provides persistence for schedule rows.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = "id, section_id, classroom_id, day_of_week, start_time, end_time, semester, year, created_at, updated_at"

// List returns schedules with optional filtering and pagination.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error) {
	base := `FROM schedules s JOIN course_sections cs ON cs.id = s.section_id JOIN courses c ON c.id = cs.course_id JOIN instructors i ON i.id = cs.instructor_id JOIN classrooms r ON r.id = s.classroom_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("s.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("s.year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.SectionID != "" {
		conditions = append(conditions, fmt.Sprintf("s.section_id = $%d", len(args)+1))
		args = append(args, filter.SectionID)
	}
	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("s.classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("cs.instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("s.day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"day_of_week": true,
		"start_time":  true,
		"created_at":  true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "day_of_week"
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
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.section_id, s.classroom_id, s.day_of_week, s.start_time, s.end_time, s.semester, s.year, s.created_at, s.updated_at, c.code AS course_code, c.name AS course_name, cs.instructor_id, i.full_name AS instructor_name, r.building, r.room_code %s ORDER BY s.%s %s, s.start_time ASC LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)
	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	return schedules, total, nil
}

// ListBySection returns the persisted meetings of one section.
func (r *ScheduleRepository) ListBySection(ctx context.Context, sectionID string) ([]models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE section_id = $1 ORDER BY day_of_week ASC, start_time ASC", scheduleColumns)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, sectionID); err != nil {
		return nil, fmt.Errorf("list schedules by section: %w", err)
	}
	return schedules, nil
}

// BulkCreateWithTx inserts schedule rows using an existing transaction.
func (r *ScheduleRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, schedules []models.Schedule) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	now := time.Now().UTC()
	for i := range schedules {
		payload := schedules[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, tx, `INSERT INTO schedules (id, section_id, classroom_id, day_of_week, start_time, end_time, semester, year, created_at, updated_at) VALUES (:id, :section_id, :classroom_id, :day_of_week, :start_time, :end_time, :semester, :year, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert schedule: %w", err)
		}
		schedules[i] = payload
	}
	return nil
}

// DeleteBySemesterWithTx removes every schedule row of the semester inside
// the caller's transaction and reports how many rows went away.
func (r *ScheduleRepository) DeleteBySemesterWithTx(ctx context.Context, tx *sqlx.Tx, semester string, year int) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("nil transaction provided")
	}
	const query = `DELETE FROM schedules WHERE semester = $1 AND year = $2`
	result, err := tx.ExecContext(ctx, query, semester, year)
	if err != nil {
		return 0, fmt.Errorf("delete schedules by semester: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete schedules rows: %w", err)
	}
	return int(rows), nil
}

// FindByID loads a schedule row by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE id = $1", scheduleColumns)
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}
