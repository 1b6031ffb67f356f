package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
)

// SectionRepository provides persistence for course sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository creates a new section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

const schedulableColumns = `cs.id, cs.course_id, cs.instructor_id, cs.section_number, cs.capacity, cs.enrolled_count, cs.semester, cs.year, cs.schedule_json, cs.created_at, cs.updated_at, c.code AS course_code, c.name AS course_name, c.credits, c.is_required, c.department_id, c.curriculum_year, c.curriculum_term, c.required_features`

// ListSchedulable returns every section of the semester joined with the
// course attributes the timetable engine consumes, in a stable order.
func (r *SectionRepository) ListSchedulable(ctx context.Context, semester string, year int) ([]models.SchedulableSection, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_sections cs JOIN courses c ON c.id = cs.course_id WHERE cs.semester = $1 AND cs.year = $2 ORDER BY c.code ASC, cs.section_number ASC`, schedulableColumns)
	var sections []models.SchedulableSection
	if err := r.db.SelectContext(ctx, &sections, query, semester, year); err != nil {
		return nil, fmt.Errorf("list schedulable sections: %w", err)
	}
	return sections, nil
}

// FindByID loads a section by id.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.CourseSection, error) {
	const query = `SELECT id, course_id, instructor_id, section_number, capacity, enrolled_count, semester, year, schedule_json, created_at, updated_at FROM course_sections WHERE id = $1`
	var section models.CourseSection
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// List returns sections with optional filtering and pagination.
func (r *SectionRepository) List(ctx context.Context, filter models.SectionFilter) ([]models.CourseSection, int, error) {
	base := "FROM course_sections WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"section_number": true,
		"capacity":       true,
		"created_at":     true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "section_number"
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
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, course_id, instructor_id, section_number, capacity, enrolled_count, semester, year, schedule_json, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var sections []models.CourseSection
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sections: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sections: %w", err)
	}

	return sections, total, nil
}

// UpdateScheduleSummaryWithTx stores the denormalised meeting summary on the
// section row inside the caller's transaction.
func (r *SectionRepository) UpdateScheduleSummaryWithTx(ctx context.Context, tx *sqlx.Tx, sectionID string, summary types.JSONText) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE course_sections SET schedule_json = $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, summary, sectionID); err != nil {
		return fmt.Errorf("update section schedule summary: %w", err)
	}
	return nil
}
