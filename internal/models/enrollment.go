package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusDropped   EnrollmentStatus = "DROPPED"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
)

// Enrollment captures a student's registration to a course section.
type Enrollment struct {
	ID         string           `db:"id" json:"id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	SectionID  string           `db:"section_id" json:"section_id"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	Grade      *string          `db:"grade" json:"grade,omitempty"`
	GradePoint *float64         `db:"grade_point" json:"grade_point,omitempty"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolled_at"`
	DroppedAt  *time.Time       `db:"dropped_at" json:"dropped_at,omitempty"`
}

// SectionRoster pairs a section with its actively enrolled student ids.
type SectionRoster struct {
	SectionID string `db:"section_id" json:"section_id"`
	StudentID string `db:"student_id" json:"student_id"`
}

// CompletedCourse is one graded course of a student, used for GPA
// recomputation.
type CompletedCourse struct {
	CourseID   string  `db:"course_id" json:"course_id"`
	Credits    int     `db:"credits" json:"credits"`
	GradePoint float64 `db:"grade_point" json:"grade_point"`
}
