package dto

// OpenSessionRequest opens a geofenced check-in window for a scheduled
// meeting.
type OpenSessionRequest struct {
	ScheduleID string  `json:"scheduleId" validate:"required,uuid"`
	Latitude   float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude  float64 `json:"longitude" validate:"required,min=-180,max=180"`
	RadiusM    float64 `json:"radiusM" validate:"omitempty,min=10,max=1000"`
	DurationM  int     `json:"durationMinutes" validate:"omitempty,min=1,max=180"`
}

// CheckInRequest is a student check-in with location evidence. The client IP
// is taken from the connection, not the body.
type CheckInRequest struct {
	SessionID string  `json:"sessionId" validate:"required,uuid"`
	StudentID string  `json:"studentId" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// SessionRecordsQuery scopes a session's record listing.
type SessionRecordsQuery struct {
	Status    string `form:"status"`
	StudentID string `form:"studentId"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// CheckInResponse reports the recorded status and the evidence behind it.
type CheckInResponse struct {
	RecordID   string  `json:"recordId"`
	Status     string  `json:"status"`
	DistanceM  float64 `json:"distanceM"`
	OnCampusIP bool    `json:"onCampusIp"`
	FlagReason string  `json:"flagReason,omitempty"`
}
