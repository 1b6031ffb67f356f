package timetable

import (
	"strconv"
	"strings"
)

// Rejection reasons reported by CheckHardConstraints. The wording is part of
// the API surface: callers bubble it up to scheduling administrators.
const (
	ReasonInstructorDoubleBooked = "instructor double-booking"
	ReasonClassroomDoubleBooked  = "classroom double-booking"
	ReasonCapacityInsufficient   = "classroom capacity insufficient"
	ReasonCohortConflict         = "student cohort conflict"
	ReasonStudentConflict        = "student schedule conflict"
)

// HardCheck is the outcome of a hard-constraint evaluation. Reason is set
// only when Valid is false and names the first violated constraint.
type HardCheck struct {
	Valid  bool
	Reason string
}

// CheckHardConstraints decides whether placing section at (day, slot, room)
// is admissible against the tracker's current occupancy. Constraints run in
// a fixed order and evaluation stops at the first violation so the reported
// reason is deterministic:
//
//  1. instructor free at the slot
//  2. classroom free at the slot
//  3. room capacity covers the section
//  4. no cohort sibling occupies the slot (skipped without a cohort key)
//  5. no enrolled student occupies the slot through another section
func CheckHardConstraints(section Section, day Day, slot TimeSlot, room Classroom, tracker *Tracker, enrollment EnrollmentIndex) HardCheck {
	if !tracker.IsFree(DimensionInstructor, section.InstructorID, day, slot.Start) {
		return HardCheck{Reason: ReasonInstructorDoubleBooked}
	}
	if !tracker.IsFree(DimensionClassroom, room.ID, day, slot.Start) {
		return HardCheck{Reason: ReasonClassroomDoubleBooked}
	}
	if room.Capacity < section.Capacity {
		return HardCheck{Reason: ReasonCapacityInsufficient}
	}
	if section.Cohort != nil {
		if !tracker.IsFree(DimensionCohort, section.Cohort.String(), day, slot.Start) {
			return HardCheck{Reason: ReasonCohortConflict}
		}
	}
	for _, studentID := range enrollment[section.ID] {
		if !tracker.IsFree(DimensionStudent, studentID, day, slot.Start) {
			return HardCheck{Reason: ReasonStudentConflict}
		}
	}
	return HardCheck{Valid: true}
}

// ScoreSoftConstraints rates a hard-feasible candidate; higher is better.
// The score is a plain sum of independent terms, each contributing zero when
// its input is absent. Scores only order candidates for the same section and
// are never compared across sections.
func ScoreSoftConstraints(section Section, day Day, slot TimeSlot, room Classroom, constraints Constraints) int {
	score := 0

	if pref, ok := constraints.InstructorPreferences[section.InstructorID]; ok {
		for _, preferred := range pref.PreferredDays {
			if preferred == day {
				score += 10
				break
			}
		}
		for _, preferred := range pref.PreferredTimes {
			if preferred == slot.Start {
				score += 10
				break
			}
		}
	}

	if section.Required {
		if hour, ok := slotStartHour(slot); ok && hour >= 9 && hour < 12 {
			score += 15
		}
	}

	// Early-week bias: Monday weighs 10, Friday 2.
	score += (5 - int(day)) * 2

	for _, required := range section.RequiredFeatures {
		for _, provided := range room.Features {
			if required == provided {
				score += 5
				break
			}
		}
	}

	return score
}

func slotStartHour(slot TimeSlot) (int, bool) {
	raw, _, found := strings.Cut(slot.Start, ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return hour, true
}
