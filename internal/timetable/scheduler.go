package timetable

import (
	"errors"
	"fmt"
	"sort"
)

// Input validation failures, surfaced before any search state is built.
var (
	ErrNoSections         = errors.New("no sections to schedule")
	ErrNoClassrooms       = errors.New("no classrooms available")
	ErrInvalidPreferences = errors.New("malformed instructor preferences")
)

// Generate runs the backtracking search and either places every section or
// reports the run as unsatisfiable. The computation is synchronous, purely
// in-memory and single-threaded; all inputs must be fully loaded before the
// call. Callers needing bounded latency run it on a dedicated goroutine and
// impose their own deadline.
//
// Given identical inputs in identical order the returned schedule is
// identical between runs: candidate enumeration follows input order and the
// score sort is stable.
func Generate(sections []Section, classrooms []Classroom, timeSlots []TimeSlot, constraints Constraints, enrollment EnrollmentIndex) (Result, error) {
	if len(sections) == 0 {
		return Result{}, ErrNoSections
	}
	if len(classrooms) == 0 {
		return Result{}, ErrNoClassrooms
	}
	if err := validatePreferences(constraints); err != nil {
		return Result{}, err
	}

	r := &run{
		sections:    sections,
		classrooms:  classrooms,
		timeSlots:   timeSlots,
		constraints: constraints,
		enrollment:  enrollment,
		tracker:     NewTracker(),
		schedule:    make([]Assignment, 0, len(sections)),
	}

	if r.solve(0) {
		return Result{Success: true, Schedule: r.schedule, Unassigned: []string{}}, nil
	}

	// A failed search unwinds completely, so everything from the first
	// unplaced section onward is reported. Diagnostic only.
	unassigned := make([]string, 0, len(sections)-len(r.schedule))
	for _, section := range sections[len(r.schedule):] {
		unassigned = append(unassigned, section.ID)
	}
	return Result{Success: false, Schedule: []Assignment{}, Unassigned: unassigned}, nil
}

// run owns the mutable state of one generation: the conflict tracker and the
// assignment stack. Nothing escapes it, so concurrent runs never share state.
type run struct {
	sections    []Section
	classrooms  []Classroom
	timeSlots   []TimeSlot
	constraints Constraints
	enrollment  EnrollmentIndex
	tracker     *Tracker
	schedule    []Assignment
}

type candidate struct {
	day   Day
	slot  TimeSlot
	room  Classroom
	score int
}

// solve places sections[index:] by recursive backtracking. The first fully
// successful branch wins; no further candidates are explored after that.
func (r *run) solve(index int) bool {
	if index == len(r.sections) {
		return true
	}

	section := r.sections[index]
	for _, cand := range r.candidates(section) {
		undo := r.place(section, cand)
		if r.solve(index + 1) {
			return true
		}
		undo()
	}
	return false
}

// candidates enumerates every hard-feasible (day, slot, room) triple for the
// section, ordered best-score-first. Ties keep enumeration order (day, then
// slot, then room) so results are reproducible.
func (r *run) candidates(section Section) []candidate {
	var out []candidate
	for _, day := range Weekdays {
		for _, slot := range r.timeSlots {
			for _, room := range r.classrooms {
				check := CheckHardConstraints(section, day, slot, room, r.tracker, r.enrollment)
				if !check.Valid {
					continue
				}
				out = append(out, candidate{
					day:   day,
					slot:  slot,
					room:  room,
					score: ScoreSoftConstraints(section, day, slot, room, r.constraints),
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}

// place books the candidate across every dimension and records the
// assignment, returning the exact inverse operation. Every path out of the
// recursion either keeps the booking (success) or calls the returned undo,
// which restores the tracker and the assignment stack to their prior state.
func (r *run) place(section Section, cand candidate) func() {
	r.tracker.Occupy(DimensionInstructor, section.InstructorID, cand.day, cand.slot.Start)
	r.tracker.Occupy(DimensionClassroom, cand.room.ID, cand.day, cand.slot.Start)

	cohortKey := ""
	if section.Cohort != nil {
		cohortKey = section.Cohort.String()
		r.tracker.Occupy(DimensionCohort, cohortKey, cand.day, cand.slot.Start)
	}

	students := r.enrollment[section.ID]
	r.tracker.OccupyStudents(students, cand.day, cand.slot.Start)

	r.schedule = append(r.schedule, Assignment{
		SectionID:   section.ID,
		Day:         cand.day,
		StartTime:   cand.slot.Start,
		EndTime:     cand.slot.End,
		ClassroomID: cand.room.ID,
	})

	return func() {
		r.schedule = r.schedule[:len(r.schedule)-1]
		r.tracker.ReleaseStudents(students, cand.day, cand.slot.Start)
		if cohortKey != "" {
			r.tracker.Release(DimensionCohort, cohortKey, cand.day, cand.slot.Start)
		}
		r.tracker.Release(DimensionClassroom, cand.room.ID, cand.day, cand.slot.Start)
		r.tracker.Release(DimensionInstructor, section.InstructorID, cand.day, cand.slot.Start)
	}
}

func validatePreferences(constraints Constraints) error {
	for instructorID, pref := range constraints.InstructorPreferences {
		for _, day := range pref.PreferredDays {
			if day < Monday || day > Friday {
				return fmt.Errorf("%w: instructor %s prefers unknown day %d", ErrInvalidPreferences, instructorID, int(day))
			}
		}
		for _, start := range pref.PreferredTimes {
			if _, ok := slotStartHour(TimeSlot{Start: start}); !ok {
				return fmt.Errorf("%w: instructor %s prefers unparseable time %q", ErrInvalidPreferences, instructorID, start)
			}
		}
	}
	return nil
}
