package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusLate    AttendanceStatus = "LATE"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
	AttendanceStatusFlagged AttendanceStatus = "FLAGGED"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusLate, AttendanceStatusAbsent, AttendanceStatusFlagged:
		return true
	default:
		return false
	}
}

// AttendanceSession is one check-in window opened by an instructor for a
// scheduled meeting. Latitude and longitude anchor the geofence.
type AttendanceSession struct {
	ID         string    `db:"id" json:"id"`
	ScheduleID string    `db:"schedule_id" json:"schedule_id"`
	Latitude   float64   `db:"latitude" json:"latitude"`
	Longitude  float64   `db:"longitude" json:"longitude"`
	RadiusM    float64   `db:"radius_m" json:"radius_m"`
	OpensAt    time.Time `db:"opens_at" json:"opens_at"`
	ClosesAt   time.Time `db:"closes_at" json:"closes_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AttendanceRecord is a single student check-in against a session, with the
// evidence the fraud checks ran on.
type AttendanceRecord struct {
	ID         string           `db:"id" json:"id"`
	SessionID  string           `db:"session_id" json:"session_id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	Status     AttendanceStatus `db:"status" json:"status"`
	Latitude   float64          `db:"latitude" json:"latitude"`
	Longitude  float64          `db:"longitude" json:"longitude"`
	DistanceM  float64          `db:"distance_m" json:"distance_m"`
	IPAddress  string           `db:"ip_address" json:"ip_address"`
	OnCampusIP bool             `db:"on_campus_ip" json:"on_campus_ip"`
	FlagReason *string          `db:"flag_reason" json:"flag_reason,omitempty"`
	CheckedAt  time.Time        `db:"checked_at" json:"checked_at"`
}

// AttendanceFilter scopes listing queries.
type AttendanceFilter struct {
	SessionID string
	StudentID string
	Status    *AttendanceStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
