package models

import (
	"time"

	"github.com/lib/pq"
)

// InstructorPreference stores the optional teaching-time wishes of an
// instructor, honoured as soft constraints by the timetable engine.
type InstructorPreference struct {
	ID             string         `db:"id" json:"id"`
	InstructorID   string         `db:"instructor_id" json:"instructor_id"`
	PreferredDays  pq.StringArray `db:"preferred_days" json:"preferred_days"`
	PreferredTimes pq.StringArray `db:"preferred_times" json:"preferred_times"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
