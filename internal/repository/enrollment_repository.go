package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
)

// EnrollmentRepository provides persistence for enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListActiveRosters returns (section, student) pairs for every active
// enrollment of the semester, ordered so repeated loads produce identical
// rosters.
func (r *EnrollmentRepository) ListActiveRosters(ctx context.Context, semester string, year int) ([]models.SectionRoster, error) {
	const query = `SELECT e.section_id, e.student_id FROM enrollments e JOIN course_sections cs ON cs.id = e.section_id WHERE e.status = 'ACTIVE' AND cs.semester = $1 AND cs.year = $2 ORDER BY e.section_id ASC, e.student_id ASC`
	var rosters []models.SectionRoster
	if err := r.db.SelectContext(ctx, &rosters, query, semester, year); err != nil {
		return nil, fmt.Errorf("list active rosters: %w", err)
	}
	return rosters, nil
}

// FindByID loads an enrollment by id.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, section_id, status, grade, grade_point, enrolled_at, dropped_at FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpdateGrade records a letter grade and its numeric point on an enrollment
// and marks it completed.
func (r *EnrollmentRepository) UpdateGrade(ctx context.Context, id, grade string, gradePoint float64) error {
	const query = `UPDATE enrollments SET grade = $1, grade_point = $2, status = 'COMPLETED' WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, grade, gradePoint, id)
	if err != nil {
		return fmt.Errorf("update enrollment grade: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update enrollment grade rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("enrollment %s not found", id)
	}
	return nil
}

// ListCompletedCourses returns the graded courses of a student, one row per
// completed enrollment. Retakes appear as multiple rows for the same course.
func (r *EnrollmentRepository) ListCompletedCourses(ctx context.Context, studentID string) ([]models.CompletedCourse, error) {
	const query = `SELECT cs.course_id, c.credits, e.grade_point FROM enrollments e JOIN course_sections cs ON cs.id = e.section_id JOIN courses c ON c.id = cs.course_id WHERE e.student_id = $1 AND e.status = 'COMPLETED' AND e.grade_point IS NOT NULL ORDER BY cs.course_id ASC, e.enrolled_at ASC`
	var courses []models.CompletedCourse
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list completed courses: %w", err)
	}
	return courses, nil
}

// ListActiveSectionsOfStudent returns the section ids a student is actively
// enrolled in during the semester.
func (r *EnrollmentRepository) ListActiveSectionsOfStudent(ctx context.Context, studentID, semester string, year int) ([]string, error) {
	const query = `SELECT e.section_id FROM enrollments e JOIN course_sections cs ON cs.id = e.section_id WHERE e.student_id = $1 AND e.status = 'ACTIVE' AND cs.semester = $2 AND cs.year = $3 ORDER BY e.section_id ASC`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, studentID, semester, year); err != nil {
		return nil, fmt.Errorf("list student sections: %w", err)
	}
	return ids, nil
}

// Drop marks an enrollment as dropped at the given time. Dropping an
// enrollment that is not active reports sql.ErrNoRows.
func (r *EnrollmentRepository) Drop(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE enrollments SET status = 'DROPPED', dropped_at = $1 WHERE id = $2 AND status = 'ACTIVE'`
	result, err := r.db.ExecContext(ctx, query, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("drop enrollment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("drop enrollment rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
