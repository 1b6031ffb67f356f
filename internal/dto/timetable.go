package dto

import "github.com/ridvansevik/campus-management-system-backend-part3/internal/timetable"

// GenerateTimetableRequest instructs the engine to build a proposal for the
// semester.
type GenerateTimetableRequest struct {
	Semester      string `json:"semester" validate:"required,oneof=Fall Spring Summer"`
	Year          int    `json:"year" validate:"required,min=2000,max=2100"`
	ClearExisting bool   `json:"clearExisting"`
}

// TimetableStats summarises one generation run.
type TimetableStats struct {
	Sections   int    `json:"sections"`
	Classrooms int    `json:"classrooms"`
	Assigned   int    `json:"assigned"`
	Unassigned int    `json:"unassigned"`
	Elapsed    string `json:"elapsed"`
}

// GenerateTimetableResponse returns the built proposal. On an unsatisfiable
// run Success is false, Schedule is empty and Unassigned lists the affected
// sections; the proposal is not retained.
type GenerateTimetableResponse struct {
	ProposalID string                 `json:"proposalId,omitempty"`
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Schedule   []timetable.Assignment `json:"schedule"`
	Unassigned []string               `json:"unassigned"`
	Stats      TimetableStats         `json:"stats"`
}

// SaveTimetableRequest persists a previously generated proposal.
type SaveTimetableRequest struct {
	ProposalID string `json:"proposalId" validate:"required,uuid"`
}

// SaveTimetableResponse reports how many schedule rows were written.
type SaveTimetableResponse struct {
	ProposalID string `json:"proposalId"`
	Saved      int    `json:"saved"`
	Replaced   int    `json:"replaced"`
}

// TimetableQuery filters persisted schedules.
type TimetableQuery struct {
	Semester     string `form:"semester" json:"semester" validate:"required,oneof=Fall Spring Summer"`
	Year         int    `form:"year" json:"year" validate:"required,min=2000,max=2100"`
	InstructorID string `form:"instructorId" json:"instructorId"`
	ClassroomID  string `form:"classroomId" json:"classroomId"`
}

// SavePreferenceRequest replaces an instructor's scheduling wishes. Days and
// times feed the generator's soft constraints, so they are validated against
// the same vocabulary it accepts.
type SavePreferenceRequest struct {
	PreferredDays  []string `json:"preferredDays" validate:"max=5,dive,required"`
	PreferredTimes []string `json:"preferredTimes" validate:"max=10,dive,required"`
}
