package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveSlotGrid() []TimeSlot {
	return []TimeSlot{
		{Start: "09:00", End: "10:40"},
		{Start: "11:00", End: "12:40"},
		{Start: "13:00", End: "14:40"},
		{Start: "15:00", End: "16:40"},
		{Start: "17:00", End: "18:40"},
	}
}

func occupancyKeys(schedule []Assignment) map[string]int {
	keys := make(map[string]int)
	for _, a := range schedule {
		keys[a.Day.String()+"_"+a.StartTime]++
	}
	return keys
}

func TestGenerateRejectsEmptyInputs(t *testing.T) {
	rooms := []Classroom{{ID: "room-1", Capacity: 40}}
	sections := []Section{{ID: "sec-1", InstructorID: "inst-1", Capacity: 30}}

	_, err := Generate(nil, rooms, fiveSlotGrid(), Constraints{}, nil)
	assert.ErrorIs(t, err, ErrNoSections)

	_, err = Generate(sections, nil, fiveSlotGrid(), Constraints{}, nil)
	assert.ErrorIs(t, err, ErrNoClassrooms)
}

func TestGenerateRejectsMalformedPreferences(t *testing.T) {
	sections := []Section{{ID: "sec-1", InstructorID: "inst-1", Capacity: 30}}
	rooms := []Classroom{{ID: "room-1", Capacity: 40}}

	_, err := Generate(sections, rooms, fiveSlotGrid(), Constraints{
		InstructorPreferences: map[string]InstructorPreference{
			"inst-1": {PreferredDays: []Day{Day(9)}},
		},
	}, nil)
	assert.ErrorIs(t, err, ErrInvalidPreferences)

	_, err = Generate(sections, rooms, fiveSlotGrid(), Constraints{
		InstructorPreferences: map[string]InstructorPreference{
			"inst-1": {PreferredTimes: []string{"morning"}},
		},
	}, nil)
	assert.ErrorIs(t, err, ErrInvalidPreferences)
}

func TestGenerateSeparatesSharedInstructor(t *testing.T) {
	sections := []Section{
		{ID: "sec-1", InstructorID: "inst-1", Capacity: 30},
		{ID: "sec-2", InstructorID: "inst-1", Capacity: 30},
	}
	rooms := []Classroom{{ID: "room-1", Capacity: 40}}

	result, err := Generate(sections, rooms, fiveSlotGrid(), Constraints{}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Schedule, 2)

	for key, count := range occupancyKeys(result.Schedule) {
		assert.Equal(t, 1, count, "occupancy key %s reused", key)
	}
}

func TestGenerateFailsOnExhaustedStudentSlots(t *testing.T) {
	// Student stu-1 attends six sections but a one-slot grid only offers
	// five weekly occupancy keys. Two rooms keep the classroom dimension
	// from being the limiting factor.
	grid := []TimeSlot{{Start: "09:00", End: "10:40"}}
	rooms := []Classroom{
		{ID: "room-1", Capacity: 40},
		{ID: "room-2", Capacity: 40},
	}
	var sections []Section
	enrollment := EnrollmentIndex{}
	for _, id := range []string{"sec-1", "sec-2", "sec-3", "sec-4", "sec-5", "sec-6"} {
		sections = append(sections, Section{ID: id, InstructorID: "inst-" + id, Capacity: 30})
		enrollment[id] = []string{"stu-1"}
	}

	result, err := Generate(sections, rooms, grid, Constraints{}, enrollment)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Schedule)
	assert.Len(t, result.Unassigned, len(sections))
	assert.Contains(t, result.Unassigned, "sec-6")
}

func TestGenerateFailsOnInsufficientCapacity(t *testing.T) {
	sections := []Section{{ID: "sec-1", InstructorID: "inst-1", Capacity: 60}}
	rooms := []Classroom{{ID: "room-1", Capacity: 50}}

	result, err := Generate(sections, rooms, fiveSlotGrid(), Constraints{}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Schedule)
	assert.Equal(t, []string{"sec-1"}, result.Unassigned)

	check := CheckHardConstraints(sections[0], Monday, fiveSlotGrid()[0], rooms[0], NewTracker(), nil)
	assert.False(t, check.Valid)
	assert.Equal(t, ReasonCapacityInsufficient, check.Reason)
}

func TestGenerateSeparatesCohortSiblings(t *testing.T) {
	cohort := &CohortKey{DepartmentID: "dept-cse", Year: 1, Term: "Fall"}
	sections := []Section{
		{ID: "sec-1", InstructorID: "inst-1", Capacity: 30, Cohort: cohort},
		{ID: "sec-2", InstructorID: "inst-2", Capacity: 30, Cohort: cohort},
	}
	rooms := []Classroom{
		{ID: "room-1", Capacity: 40},
		{ID: "room-2", Capacity: 40},
	}

	result, err := Generate(sections, rooms, fiveSlotGrid(), Constraints{}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Schedule, 2)

	first, second := result.Schedule[0], result.Schedule[1]
	assert.False(t, first.Day == second.Day && first.StartTime == second.StartTime,
		"cohort siblings must not share an occupancy key")
}

func TestGeneratePrefersMorningForRequiredCourses(t *testing.T) {
	section := Section{ID: "sec-1", InstructorID: "inst-1", Capacity: 30, Required: true}
	room := Classroom{ID: "room-1", Capacity: 40}
	morning := TimeSlot{Start: "09:00", End: "10:40"}
	afternoon := TimeSlot{Start: "13:00", End: "14:40"}

	morningScore := ScoreSoftConstraints(section, Monday, morning, room, Constraints{})
	afternoonScore := ScoreSoftConstraints(section, Monday, afternoon, room, Constraints{})
	assert.Greater(t, morningScore, afternoonScore)

	result, err := Generate([]Section{section}, []Classroom{room}, []TimeSlot{afternoon, morning}, Constraints{}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "09:00", result.Schedule[0].StartTime)
}

func TestGenerateHonoursInstructorPreferences(t *testing.T) {
	sections := []Section{{ID: "sec-1", InstructorID: "inst-1", Capacity: 30}}
	rooms := []Classroom{{ID: "room-1", Capacity: 40}}
	constraints := Constraints{
		InstructorPreferences: map[string]InstructorPreference{
			"inst-1": {PreferredDays: []Day{Wednesday}, PreferredTimes: []string{"15:00"}},
		},
	}

	result, err := Generate(sections, rooms, fiveSlotGrid(), constraints, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	// +20 preference bonus outweighs the Monday early-week edge.
	assert.Equal(t, Wednesday, result.Schedule[0].Day)
	assert.Equal(t, "15:00", result.Schedule[0].StartTime)
}

func TestGenerateMatchesRoomFeatures(t *testing.T) {
	sections := []Section{{
		ID:               "sec-1",
		InstructorID:     "inst-1",
		Capacity:         30,
		RequiredFeatures: []string{"lab_bench", "projector"},
	}}
	rooms := []Classroom{
		{ID: "room-plain", Capacity: 40},
		{ID: "room-lab", Capacity: 40, Features: []string{"projector", "lab_bench", "whiteboard"}},
	}

	result, err := Generate(sections, rooms, fiveSlotGrid(), Constraints{}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "room-lab", result.Schedule[0].ClassroomID)
}

func TestGenerateCompletenessOnSuccess(t *testing.T) {
	cohortA := &CohortKey{DepartmentID: "dept-cse", Year: 1, Term: "Fall"}
	cohortB := &CohortKey{DepartmentID: "dept-ee", Year: 2, Term: "Fall"}
	sections := []Section{
		{ID: "sec-1", InstructorID: "inst-1", Capacity: 30, Cohort: cohortA, Required: true},
		{ID: "sec-2", InstructorID: "inst-1", Capacity: 45, Cohort: cohortA},
		{ID: "sec-3", InstructorID: "inst-2", Capacity: 25, Cohort: cohortB},
		{ID: "sec-4", InstructorID: "inst-2", Capacity: 60, RequiredFeatures: []string{"projector"}},
		{ID: "sec-5", InstructorID: "inst-3", Capacity: 30, Cohort: cohortB, Required: true},
	}
	rooms := []Classroom{
		{ID: "room-1", Capacity: 48, Features: []string{"projector"}},
		{ID: "room-2", Capacity: 70},
	}
	enrollment := EnrollmentIndex{
		"sec-1": {"stu-1", "stu-2"},
		"sec-2": {"stu-1", "stu-3"},
		"sec-4": {"stu-2"},
	}

	result, err := Generate(sections, rooms, fiveSlotGrid(), Constraints{}, enrollment)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Schedule, len(sections))

	seen := make(map[string]int)
	for _, a := range result.Schedule {
		seen[a.SectionID]++
	}
	for _, section := range sections {
		assert.Equal(t, 1, seen[section.ID], "section %s placed once", section.ID)
	}
}

func TestGenerateDeterminism(t *testing.T) {
	build := func() ([]Section, []Classroom, EnrollmentIndex) {
		cohort := &CohortKey{DepartmentID: "dept-cse", Year: 2, Term: "Spring"}
		sections := []Section{
			{ID: "sec-1", InstructorID: "inst-1", Capacity: 30, Cohort: cohort},
			{ID: "sec-2", InstructorID: "inst-2", Capacity: 30, Cohort: cohort, Required: true},
			{ID: "sec-3", InstructorID: "inst-1", Capacity: 55},
			{ID: "sec-4", InstructorID: "inst-3", Capacity: 20, RequiredFeatures: []string{"lab_bench"}},
		}
		rooms := []Classroom{
			{ID: "room-1", Capacity: 60},
			{ID: "room-2", Capacity: 35, Features: []string{"lab_bench"}},
		}
		enrollment := EnrollmentIndex{
			"sec-1": {"stu-1", "stu-2"},
			"sec-3": {"stu-2", "stu-3"},
			"sec-4": {"stu-3"},
		}
		return sections, rooms, enrollment
	}

	sections, rooms, enrollment := build()
	first, err := Generate(sections, rooms, fiveSlotGrid(), Constraints{}, enrollment)
	require.NoError(t, err)

	sections, rooms, enrollment = build()
	second, err := Generate(sections, rooms, fiveSlotGrid(), Constraints{}, enrollment)
	require.NoError(t, err)

	assert.Equal(t, first.Schedule, second.Schedule)
	assert.Equal(t, first.Unassigned, second.Unassigned)
}

func TestGenerateLeavesNoOccupancyBehind(t *testing.T) {
	// Replaying the returned assignments against a fresh tracker must
	// succeed for each of them: the run leaked no occupancy state.
	cohort := &CohortKey{DepartmentID: "dept-cse", Year: 1, Term: "Fall"}
	sections := []Section{
		{ID: "sec-1", InstructorID: "inst-1", Capacity: 30, Cohort: cohort},
		{ID: "sec-2", InstructorID: "inst-1", Capacity: 30, Cohort: cohort},
		{ID: "sec-3", InstructorID: "inst-2", Capacity: 30},
	}
	rooms := []Classroom{{ID: "room-1", Capacity: 40}}
	enrollment := EnrollmentIndex{
		"sec-1": {"stu-1"},
		"sec-3": {"stu-1"},
	}

	result, err := Generate(sections, rooms, fiveSlotGrid(), Constraints{}, enrollment)
	require.NoError(t, err)
	require.True(t, result.Success)

	bySection := make(map[string]Section, len(sections))
	for _, section := range sections {
		bySection[section.ID] = section
	}

	replay := NewTracker()
	for _, a := range result.Schedule {
		section := bySection[a.SectionID]
		slot := TimeSlot{Start: a.StartTime, End: a.EndTime}
		room := Classroom{ID: a.ClassroomID, Capacity: 40}

		check := CheckHardConstraints(section, a.Day, slot, room, replay, enrollment)
		require.True(t, check.Valid, "replay of %s rejected: %s", a.SectionID, check.Reason)

		replay.Occupy(DimensionInstructor, section.InstructorID, a.Day, a.StartTime)
		replay.Occupy(DimensionClassroom, a.ClassroomID, a.Day, a.StartTime)
		if section.Cohort != nil {
			replay.Occupy(DimensionCohort, section.Cohort.String(), a.Day, a.StartTime)
		}
		replay.OccupyStudents(enrollment[a.SectionID], a.Day, a.StartTime)
	}
}

func TestGenerateBacktracksThroughEarlierPlacements(t *testing.T) {
	// Five feature-hungry sections greedily claim room-big on every day of
	// the one-slot grid. The last section fits nowhere but room-big, so the
	// search must revise an earlier placement instead of giving up.
	grid := []TimeSlot{{Start: "09:00", End: "10:40"}}
	sections := []Section{
		{ID: "sec-1", InstructorID: "inst-1", Capacity: 30, RequiredFeatures: []string{"projector"}},
		{ID: "sec-2", InstructorID: "inst-1", Capacity: 30, RequiredFeatures: []string{"projector"}},
		{ID: "sec-3", InstructorID: "inst-1", Capacity: 30, RequiredFeatures: []string{"projector"}},
		{ID: "sec-4", InstructorID: "inst-1", Capacity: 30, RequiredFeatures: []string{"projector"}},
		{ID: "sec-5", InstructorID: "inst-1", Capacity: 30, RequiredFeatures: []string{"projector"}},
		{ID: "sec-6", InstructorID: "inst-2", Capacity: 80},
	}
	rooms := []Classroom{
		{ID: "room-small", Capacity: 40},
		{ID: "room-big", Capacity: 100, Features: []string{"projector"}},
	}

	result, err := Generate(sections, rooms, grid, Constraints{}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	placements := make(map[string]Assignment)
	for _, a := range result.Schedule {
		placements[a.SectionID] = a
	}
	assert.Equal(t, "room-big", placements["sec-6"].ClassroomID)
	assert.Equal(t, "room-small", placements["sec-5"].ClassroomID)
}
