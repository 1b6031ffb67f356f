package timetable

// Dimension selects one of the independent occupancy ledgers.
type Dimension int

const (
	DimensionInstructor Dimension = iota
	DimensionClassroom
	DimensionCohort
	DimensionStudent

	dimensionCount
)

// occupation is one (resource, day, slot-start) booking inside a ledger.
type occupation struct {
	key   string
	day   Day
	start string
}

// Tracker records current occupancy along four independent dimensions, keyed
// by (day, slot start). One Tracker belongs to exactly one scheduling run;
// the search mutates it strictly in lock-step with its push/pop so the
// ledgers always mirror the assignments currently on the stack.
//
// Occupy performs no validation and Release expects the exact arguments of a
// prior Occupy. That discipline belongs to the caller; guarding here would
// only hide broken backtracking symmetry.
type Tracker struct {
	ledgers [dimensionCount]map[occupation]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	t := &Tracker{}
	for i := range t.ledgers {
		t.ledgers[i] = make(map[occupation]struct{})
	}
	return t
}

// IsFree reports whether the keyed resource is unoccupied at the slot.
func (t *Tracker) IsFree(dim Dimension, key string, day Day, start string) bool {
	_, taken := t.ledgers[dim][occupation{key: key, day: day, start: start}]
	return !taken
}

// Occupy marks the keyed resource as taken at the slot.
func (t *Tracker) Occupy(dim Dimension, key string, day Day, start string) {
	t.ledgers[dim][occupation{key: key, day: day, start: start}] = struct{}{}
}

// Release undoes a prior Occupy with identical arguments.
func (t *Tracker) Release(dim Dimension, key string, day Day, start string) {
	delete(t.ledgers[dim], occupation{key: key, day: day, start: start})
}

// OccupyStudents books the slot for every listed student. The batch pairs
// with ReleaseStudents over the same list so backtracking undoes all of them
// together.
func (t *Tracker) OccupyStudents(studentIDs []string, day Day, start string) {
	for _, id := range studentIDs {
		t.Occupy(DimensionStudent, id, day, start)
	}
}

// ReleaseStudents undoes OccupyStudents for the same list.
func (t *Tracker) ReleaseStudents(studentIDs []string, day Day, start string) {
	for _, id := range studentIDs {
		t.Release(DimensionStudent, id, day, start)
	}
}
