package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerDimensionsAreIndependent(t *testing.T) {
	tracker := NewTracker()
	tracker.Occupy(DimensionInstructor, "key-1", Monday, "09:00")

	assert.False(t, tracker.IsFree(DimensionInstructor, "key-1", Monday, "09:00"))
	assert.True(t, tracker.IsFree(DimensionClassroom, "key-1", Monday, "09:00"))
	assert.True(t, tracker.IsFree(DimensionCohort, "key-1", Monday, "09:00"))
	assert.True(t, tracker.IsFree(DimensionStudent, "key-1", Monday, "09:00"))
}

func TestTrackerKeysBySlotStart(t *testing.T) {
	tracker := NewTracker()
	tracker.Occupy(DimensionClassroom, "room-1", Tuesday, "09:00")

	assert.False(t, tracker.IsFree(DimensionClassroom, "room-1", Tuesday, "09:00"))
	assert.True(t, tracker.IsFree(DimensionClassroom, "room-1", Tuesday, "11:00"))
	assert.True(t, tracker.IsFree(DimensionClassroom, "room-1", Wednesday, "09:00"))
	assert.True(t, tracker.IsFree(DimensionClassroom, "room-2", Tuesday, "09:00"))
}

func TestTrackerReleaseRestoresAvailability(t *testing.T) {
	tracker := NewTracker()
	tracker.Occupy(DimensionInstructor, "inst-1", Friday, "13:00")
	tracker.Release(DimensionInstructor, "inst-1", Friday, "13:00")

	assert.True(t, tracker.IsFree(DimensionInstructor, "inst-1", Friday, "13:00"))
}

func TestTrackerStudentBatch(t *testing.T) {
	tracker := NewTracker()
	students := []string{"stu-1", "stu-2", "stu-3"}

	tracker.OccupyStudents(students, Monday, "11:00")
	for _, id := range students {
		assert.False(t, tracker.IsFree(DimensionStudent, id, Monday, "11:00"))
	}

	tracker.ReleaseStudents(students, Monday, "11:00")
	for _, id := range students {
		assert.True(t, tracker.IsFree(DimensionStudent, id, Monday, "11:00"))
	}
}
