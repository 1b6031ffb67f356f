package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// CourseSection represents one offering of a course in a semester.
type CourseSection struct {
	ID            string         `db:"id" json:"id"`
	CourseID      string         `db:"course_id" json:"course_id"`
	InstructorID  string         `db:"instructor_id" json:"instructor_id"`
	SectionNumber int            `db:"section_number" json:"section_number"`
	Capacity      int            `db:"capacity" json:"capacity"`
	EnrolledCount int            `db:"enrolled_count" json:"enrolled_count"`
	Semester      string         `db:"semester" json:"semester"`
	Year          int            `db:"year" json:"year"`
	ScheduleJSON  types.JSONText `db:"schedule_json" json:"schedule_json,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// SchedulableSection joins a section with the course attributes the
// timetable engine needs. Department, year and term are nullable because
// legacy courses predate curriculum grouping; a section missing any of the
// three carries no cohort key.
type SchedulableSection struct {
	CourseSection
	CourseCode       string         `db:"course_code" json:"course_code"`
	CourseName       string         `db:"course_name" json:"course_name"`
	Credits          int            `db:"credits" json:"credits"`
	IsRequired       bool           `db:"is_required" json:"is_required"`
	DepartmentID     *string        `db:"department_id" json:"department_id,omitempty"`
	CurriculumYear   *int           `db:"curriculum_year" json:"curriculum_year,omitempty"`
	CurriculumTerm   *string        `db:"curriculum_term" json:"curriculum_term,omitempty"`
	RequiredFeatures pq.StringArray `db:"required_features" json:"required_features"`
}

// SectionFilter describes query params for listing sections.
type SectionFilter struct {
	CourseID     string
	InstructorID string
	Semester     string
	Year         int
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
