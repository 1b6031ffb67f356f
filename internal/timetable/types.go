package timetable

import (
	"encoding/json"
	"fmt"
)

// Day is a weekday in the Monday-Friday teaching week. The zero value is
// Monday; ordering matters because the soft scoring biases earlier days.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays lists the teaching days in their fixed evaluation order.
var Weekdays = [5]Day{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayNames = [5]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func (d Day) String() string {
	if d < Monday || d > Friday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// MarshalJSON encodes the day by name so persisted assignments keep the
// human-readable day_of_week values.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a weekday name.
func (d *Day) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseDay(name)
	if !ok {
		return fmt.Errorf("unknown weekday %q", name)
	}
	*d = parsed
	return nil
}

// ParseDay resolves a weekday name to its Day value.
func ParseDay(name string) (Day, bool) {
	for i, candidate := range dayNames {
		if candidate == name {
			return Day(i), true
		}
	}
	return 0, false
}

// TimeSlot is one entry of the fixed weekly slot grid, shared by all days.
// Start and End are wall-clock "HH:MM" strings.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CohortKey groups the sections that one student population (same department,
// curriculum year and term) competes for. Sections sharing a cohort key must
// never be scheduled into the same occupancy slot.
type CohortKey struct {
	DepartmentID string
	Year         int
	Term         string
}

func (k CohortKey) String() string {
	return fmt.Sprintf("%s_%d_%s", k.DepartmentID, k.Year, k.Term)
}

// Section is one course offering to place on the grid. Sections are read-only
// during a run; the caller constructs them from persisted offering data.
type Section struct {
	ID           string
	CourseID     string
	InstructorID string
	Capacity     int

	// Cohort is nil when the owning course carries no department/year/term
	// grouping; cohort conflict checking is skipped entirely in that case.
	Cohort *CohortKey

	// Required marks compulsory curriculum courses, which earn a scoring
	// bonus for morning slots.
	Required bool

	// RequiredFeatures lists room features the course benefits from
	// (projector, lab bench). Matching is a soft preference, not a hard
	// constraint.
	RequiredFeatures []string
}

// Classroom is an available room, static for the duration of a run.
type Classroom struct {
	ID       string
	Capacity int
	Features []string
}

// EnrollmentIndex maps a section id to the students actively enrolled in it.
// Sections without enrollments may be omitted. Slice order is preserved as
// given so runs stay reproducible.
type EnrollmentIndex map[string][]string

// InstructorPreference captures the optional day and start-time wishes of a
// single instructor. Either list may be empty.
type InstructorPreference struct {
	PreferredDays  []Day
	PreferredTimes []string
}

// Constraints bundles the soft-preference inputs for a run.
type Constraints struct {
	InstructorPreferences map[string]InstructorPreference
}

// Assignment places one section at a (day, slot, classroom) triple. Exactly
// one is produced per successfully scheduled section.
type Assignment struct {
	SectionID   string `json:"section_id"`
	Day         Day    `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	ClassroomID string `json:"classroom_id"`
}

// Result is the outcome of one generation run. On success Schedule holds one
// assignment per input section, in placement order. On failure Schedule is
// empty and Unassigned names the sections left unplaced when the search gave
// up; that list is diagnostic, not a minimal unsatisfiable subset.
type Result struct {
	Success    bool         `json:"success"`
	Schedule   []Assignment `json:"schedule"`
	Unassigned []string     `json:"unassigned"`
}
