package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckHardConstraintsReportsFirstViolation(t *testing.T) {
	section := Section{
		ID:           "sec-1",
		InstructorID: "inst-1",
		Capacity:     60,
		Cohort:       &CohortKey{DepartmentID: "dept-cse", Year: 1, Term: "Fall"},
	}
	slot := TimeSlot{Start: "09:00", End: "10:40"}
	room := Classroom{ID: "room-1", Capacity: 50}
	enrollment := EnrollmentIndex{"sec-1": {"stu-1"}}

	// Every constraint is violated at once; the instructor check wins
	// because evaluation order is fixed.
	tracker := NewTracker()
	tracker.Occupy(DimensionInstructor, "inst-1", Monday, "09:00")
	tracker.Occupy(DimensionClassroom, "room-1", Monday, "09:00")
	tracker.Occupy(DimensionCohort, section.Cohort.String(), Monday, "09:00")
	tracker.Occupy(DimensionStudent, "stu-1", Monday, "09:00")

	check := CheckHardConstraints(section, Monday, slot, room, tracker, enrollment)
	assert.False(t, check.Valid)
	assert.Equal(t, ReasonInstructorDoubleBooked, check.Reason)

	tracker.Release(DimensionInstructor, "inst-1", Monday, "09:00")
	check = CheckHardConstraints(section, Monday, slot, room, tracker, enrollment)
	assert.Equal(t, ReasonClassroomDoubleBooked, check.Reason)

	tracker.Release(DimensionClassroom, "room-1", Monday, "09:00")
	check = CheckHardConstraints(section, Monday, slot, room, tracker, enrollment)
	assert.Equal(t, ReasonCapacityInsufficient, check.Reason)

	section.Capacity = 40
	check = CheckHardConstraints(section, Monday, slot, room, tracker, enrollment)
	assert.Equal(t, ReasonCohortConflict, check.Reason)

	tracker.Release(DimensionCohort, section.Cohort.String(), Monday, "09:00")
	check = CheckHardConstraints(section, Monday, slot, room, tracker, enrollment)
	assert.Equal(t, ReasonStudentConflict, check.Reason)

	tracker.Release(DimensionStudent, "stu-1", Monday, "09:00")
	check = CheckHardConstraints(section, Monday, slot, room, tracker, enrollment)
	assert.True(t, check.Valid)
	assert.Empty(t, check.Reason)
}

func TestCheckHardConstraintsSkipsCohortWithoutKey(t *testing.T) {
	section := Section{ID: "sec-1", InstructorID: "inst-1", Capacity: 30}
	slot := TimeSlot{Start: "09:00", End: "10:40"}
	room := Classroom{ID: "room-1", Capacity: 40}

	tracker := NewTracker()
	// Cohort ledger noise must not affect a section without a cohort key.
	tracker.Occupy(DimensionCohort, "dept-cse_1_Fall", Monday, "09:00")

	check := CheckHardConstraints(section, Monday, slot, room, tracker, nil)
	assert.True(t, check.Valid)
}

func TestScoreSoftConstraintsTerms(t *testing.T) {
	slot := TimeSlot{Start: "09:00", End: "10:40"}
	room := Classroom{ID: "room-1", Capacity: 40}

	base := Section{ID: "sec-1", InstructorID: "inst-1", Capacity: 30}
	baseline := ScoreSoftConstraints(base, Friday, TimeSlot{Start: "13:00", End: "14:40"}, room, Constraints{})
	assert.Equal(t, 2, baseline, "Friday afternoon with no bonuses scores the day bias only")

	constraints := Constraints{
		InstructorPreferences: map[string]InstructorPreference{
			"inst-1": {PreferredDays: []Day{Monday}, PreferredTimes: []string{"09:00"}},
		},
	}
	score := ScoreSoftConstraints(base, Monday, slot, room, constraints)
	// 10 preferred day + 10 preferred time + 10 Monday bias.
	assert.Equal(t, 30, score)

	required := base
	required.Required = true
	score = ScoreSoftConstraints(required, Monday, slot, room, Constraints{})
	// 15 morning bonus + 10 Monday bias.
	assert.Equal(t, 25, score)

	noon := TimeSlot{Start: "12:00", End: "13:40"}
	score = ScoreSoftConstraints(required, Monday, noon, room, Constraints{})
	assert.Equal(t, 10, score, "12:00 is past the morning window")

	featured := base
	featured.RequiredFeatures = []string{"projector", "lab_bench"}
	equipped := Classroom{ID: "room-2", Capacity: 40, Features: []string{"lab_bench", "projector", "whiteboard"}}
	score = ScoreSoftConstraints(featured, Monday, slot, room, Constraints{})
	assert.Equal(t, 10, score, "no feature overlap, day bias only")
	score = ScoreSoftConstraints(featured, Monday, slot, equipped, Constraints{})
	assert.Equal(t, 20, score, "both features matched at 5 each")
}

func TestScoreSoftConstraintsDayBias(t *testing.T) {
	section := Section{ID: "sec-1", InstructorID: "inst-1", Capacity: 30}
	slot := TimeSlot{Start: "13:00", End: "14:40"}
	room := Classroom{ID: "room-1", Capacity: 40}

	previous := ScoreSoftConstraints(section, Monday, slot, room, Constraints{})
	for _, day := range []Day{Tuesday, Wednesday, Thursday, Friday} {
		score := ScoreSoftConstraints(section, day, slot, room, Constraints{})
		assert.Less(t, score, previous, "day bias must decrease toward %s", day)
		previous = score
	}
}
