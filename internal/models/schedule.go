package models

import "time"

// Schedule is one persisted meeting of a section: a (day, time, classroom)
// booking produced by the timetable engine or entered manually.
type Schedule struct {
	ID          string    `db:"id" json:"id"`
	SectionID   string    `db:"section_id" json:"section_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Semester    string    `db:"semester" json:"semester"`
	Year        int       `db:"year" json:"year"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleDetail enriches a schedule row with course and room info.
type ScheduleDetail struct {
	Schedule
	CourseCode     string `db:"course_code" json:"course_code"`
	CourseName     string `db:"course_name" json:"course_name"`
	InstructorID   string `db:"instructor_id" json:"instructor_id"`
	InstructorName string `db:"instructor_name" json:"instructor_name"`
	Building       string `db:"building" json:"building"`
	RoomCode       string `db:"room_code" json:"room_code"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	Semester     string
	Year         int
	SectionID    string
	ClassroomID  string
	InstructorID string
	DayOfWeek    string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
