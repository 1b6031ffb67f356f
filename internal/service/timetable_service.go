package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/dto"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/timetable"
	appErrors "github.com/ridvansevik/campus-management-system-backend-part3/pkg/errors"
	"github.com/ridvansevik/campus-management-system-backend-part3/pkg/export"
)

// weeklySlots is the fixed teaching grid shared by every weekday.
var weeklySlots = []timetable.TimeSlot{
	{Start: "09:00", End: "10:40"},
	{Start: "11:00", End: "12:40"},
	{Start: "13:00", End: "14:40"},
	{Start: "15:00", End: "16:40"},
	{Start: "17:00", End: "18:40"},
}

type sectionCatalog interface {
	ListSchedulable(ctx context.Context, semester string, year int) ([]models.SchedulableSection, error)
}

type classroomCatalog interface {
	ListActive(ctx context.Context) ([]models.Classroom, error)
}

type rosterFetcher interface {
	ListActiveRosters(ctx context.Context, semester string, year int) ([]models.SectionRoster, error)
}

type preferenceStore interface {
	ListAll(ctx context.Context) ([]models.InstructorPreference, error)
	Upsert(ctx context.Context, pref *models.InstructorPreference) error
}

type scheduleStore interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error)
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, schedules []models.Schedule) error
	DeleteBySemesterWithTx(ctx context.Context, tx *sqlx.Tx, semester string, year int) (int, error)
}

type sectionSummaryWriter interface {
	UpdateScheduleSummaryWithTx(ctx context.Context, tx *sqlx.Tx, sectionID string, summary types.JSONText) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// TimetableService orchestrates timetable generation, proposal retention and
// persistence.
type TimetableService struct {
	sections  sectionCatalog
	rooms     classroomCatalog
	rosters   rosterFetcher
	prefs     preferenceStore
	schedules scheduleStore
	summaries sectionSummaryWriter
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	store     *proposalStore
	deadline  time.Duration
	cacheTTL  time.Duration
}

// TimetableConfig governs generator behaviour.
type TimetableConfig struct {
	Deadline    time.Duration
	ProposalTTL time.Duration
	CacheTTL    time.Duration
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(
	sections sectionCatalog,
	rooms classroomCatalog,
	rosters rosterFetcher,
	prefs preferenceStore,
	schedules scheduleStore,
	summaries sectionSummaryWriter,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = 30 * time.Second
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	return &TimetableService{
		sections:  sections,
		rooms:     rooms,
		rosters:   rosters,
		prefs:     prefs,
		schedules: schedules,
		summaries: summaries,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		store:     newProposalStore(cfg.ProposalTTL),
		deadline:  cfg.Deadline,
		cacheTTL:  cfg.CacheTTL,
	}
}

// Generate loads the semester's sections, classrooms, rosters and instructor
// preferences, runs the engine under a deadline and retains a successful
// result as a proposal for a later Save.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}

	sections, err := s.sections.ListSchedulable(ctx, req.Semester, req.Year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	rosters, err := s.rosters.ListActiveRosters(ctx, req.Semester, req.Year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	prefRows, err := s.prefs.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor preferences")
	}

	constraints, err := buildConstraints(prefRows)
	if err != nil {
		return nil, err
	}
	engineSections := buildEngineSections(sections)
	enrollment := buildEnrollmentIndex(rosters)

	start := time.Now()
	result, err := s.runWithDeadline(ctx, engineSections, buildEngineClassrooms(rooms), constraints, enrollment)
	elapsed := time.Since(start)
	if err != nil {
		switch {
		case errors.Is(err, timetable.ErrNoSections):
			s.recordRun("error", elapsed)
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no sections to schedule for %s %d", req.Semester, req.Year))
		case errors.Is(err, timetable.ErrNoClassrooms):
			s.recordRun("error", elapsed)
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no active classrooms available")
		case errors.Is(err, timetable.ErrInvalidPreferences):
			s.recordRun("error", elapsed)
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "instructor preferences are malformed")
		default:
			s.recordRun("timeout", elapsed)
			return nil, err
		}
	}

	stats := dto.TimetableStats{
		Sections:   len(engineSections),
		Classrooms: len(rooms),
		Assigned:   len(result.Schedule),
		Unassigned: len(result.Unassigned),
		Elapsed:    elapsed.Round(time.Millisecond).String(),
	}

	if !result.Success {
		s.recordRun("unsatisfiable", elapsed)
		s.logger.Warn("timetable unsatisfiable",
			zap.String("semester", req.Semester),
			zap.Int("year", req.Year),
			zap.Int("unassigned", len(result.Unassigned)),
		)
		return &dto.GenerateTimetableResponse{
			Success:    false,
			Message:    fmt.Sprintf("could not place %d of %d sections; add classrooms, raise capacities or spread cohort sections and retry", len(result.Unassigned), len(engineSections)),
			Schedule:   []timetable.Assignment{},
			Unassigned: result.Unassigned,
			Stats:      stats,
		}, nil
	}

	proposal := timetableProposal{
		ProposalID:    uuid.NewString(),
		Semester:      req.Semester,
		Year:          req.Year,
		ClearExisting: req.ClearExisting,
		Schedule:      result.Schedule,
		Stats:         stats,
		RequestedAt:   time.Now().UTC(),
	}
	s.store.Save(proposal)
	s.recordRun("success", elapsed)
	s.logger.Info("timetable generated",
		zap.String("semester", req.Semester),
		zap.Int("year", req.Year),
		zap.String("proposal_id", proposal.ProposalID),
		zap.Int("assigned", len(result.Schedule)),
		zap.Duration("elapsed", elapsed),
	)

	return &dto.GenerateTimetableResponse{
		ProposalID: proposal.ProposalID,
		Success:    true,
		Message:    "timetable generated",
		Schedule:   result.Schedule,
		Unassigned: []string{},
		Stats:      stats,
	}, nil
}

// runWithDeadline executes the engine on its own goroutine so a runaway
// search cannot pin the request. A deadline hit reports ErrScheduleTimeout,
// which is distinct from the engine proving the inputs unsatisfiable.
func (s *TimetableService) runWithDeadline(ctx context.Context, sections []timetable.Section, rooms []timetable.Classroom, constraints timetable.Constraints, enrollment timetable.EnrollmentIndex) (timetable.Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	type outcome struct {
		result timetable.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := timetable.Generate(sections, rooms, weeklySlots, constraints, enrollment)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-runCtx.Done():
		// The engine has no cancellation hook; the goroutine is abandoned
		// and finishes into the buffered channel, its result discarded.
		return timetable.Result{}, appErrors.Clone(appErrors.ErrScheduleTimeout, fmt.Sprintf("generation did not finish within %s", s.deadline))
	case out := <-done:
		return out.result, out.err
	}
}

// Save persists a retained proposal inside one transaction: schedule rows
// plus the denormalised per-section meeting summary. The proposal is dropped
// only after a successful commit.
func (s *TimetableService) Save(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save timetable payload")
	}
	proposal, ok := s.store.Get(req.ProposalID)
	if !ok {
		return nil, appErrors.ErrProposalExpired
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	replaced := 0
	if proposal.ClearExisting {
		replaced, err = s.schedules.DeleteBySemesterWithTx(ctx, tx, proposal.Semester, proposal.Year)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear existing schedules")
		}
	}

	rows := make([]models.Schedule, 0, len(proposal.Schedule))
	for _, a := range proposal.Schedule {
		rows = append(rows, models.Schedule{
			SectionID:   a.SectionID,
			ClassroomID: a.ClassroomID,
			DayOfWeek:   a.Day.String(),
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			Semester:    proposal.Semester,
			Year:        proposal.Year,
		})
	}
	if err = s.schedules.BulkCreateWithTx(ctx, tx, rows); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedules")
		return nil, err
	}

	if err = s.writeSectionSummaries(ctx, tx, proposal.Schedule); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable")
		return nil, err
	}

	s.store.Delete(req.ProposalID)
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, listCachePattern(proposal.Semester, proposal.Year))
	}
	s.logger.Info("timetable saved",
		zap.String("proposal_id", req.ProposalID),
		zap.String("semester", proposal.Semester),
		zap.Int("year", proposal.Year),
		zap.Int("saved", len(rows)),
		zap.Int("replaced", replaced),
	)

	return &dto.SaveTimetableResponse{ProposalID: req.ProposalID, Saved: len(rows), Replaced: replaced}, nil
}

// sectionMeeting is the denormalised summary entry stored on the section row.
type sectionMeeting struct {
	Day  string `json:"day"`
	Time string `json:"time"`
	Room string `json:"room"`
}

func (s *TimetableService) writeSectionSummaries(ctx context.Context, tx *sqlx.Tx, schedule []timetable.Assignment) error {
	meetings := make(map[string][]sectionMeeting)
	order := make([]string, 0)
	for _, a := range schedule {
		if _, seen := meetings[a.SectionID]; !seen {
			order = append(order, a.SectionID)
		}
		meetings[a.SectionID] = append(meetings[a.SectionID], sectionMeeting{
			Day:  a.Day.String(),
			Time: a.StartTime + "-" + a.EndTime,
			Room: a.ClassroomID,
		})
	}
	for _, sectionID := range order {
		payload, err := json.Marshal(meetings[sectionID])
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode section summary")
		}
		if err := s.summaries.UpdateScheduleSummaryWithTx(ctx, tx, sectionID, types.JSONText(payload)); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update section summary")
		}
	}
	return nil
}

// List returns the persisted timetable for a semester, read through the
// cache when one is configured.
func (s *TimetableService) List(ctx context.Context, query dto.TimetableQuery) ([]models.ScheduleDetail, int, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable query")
	}

	type cached struct {
		Schedules []models.ScheduleDetail `json:"schedules"`
		Total     int                     `json:"total"`
	}
	key := listCacheKey(query)
	if s.cache != nil {
		var hit cached
		if ok, _ := s.cache.Get(ctx, key, &hit); ok {
			return hit.Schedules, hit.Total, nil
		}
	}

	filter := models.ScheduleFilter{
		Semester:     query.Semester,
		Year:         query.Year,
		InstructorID: query.InstructorID,
		ClassroomID:  query.ClassroomID,
		PageSize:     200,
	}
	schedules, total, err := s.schedules.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, cached{Schedules: schedules, Total: total}, s.cacheTTL)
	}
	return schedules, total, nil
}

// ExportCSV renders the semester timetable as CSV for administrative use.
func (s *TimetableService) ExportCSV(ctx context.Context, query dto.TimetableQuery) ([]byte, error) {
	schedules, _, err := s.List(ctx, query)
	if err != nil {
		return nil, err
	}

	columns := []string{"course_code", "course_name", "section_id", "instructor", "day", "start", "end", "building", "room"}
	rows := make([][]string, 0, len(schedules))
	for _, item := range schedules {
		rows = append(rows, []string{
			item.CourseCode,
			item.CourseName,
			item.SectionID,
			item.InstructorName,
			item.DayOfWeek,
			item.StartTime,
			item.EndTime,
			item.Building,
			item.RoomCode,
		})
	}

	exporter := export.NewCSVExporter()
	payload, err := exporter.Render(export.Table{Columns: columns, Rows: rows})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
	}
	return payload, nil
}

// SavePreference replaces an instructor's preferred days and times. Entries
// are checked against the generator's vocabulary before they are stored, so
// a later run never trips over malformed rows.
func (s *TimetableService) SavePreference(ctx context.Context, instructorID string, req dto.SavePreferenceRequest) (*models.InstructorPreference, error) {
	if instructorID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instructor id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}
	days := make([]string, 0, len(req.PreferredDays))
	for _, name := range req.PreferredDays {
		day, ok := timetable.ParseDay(name)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown preferred day %q", name))
		}
		days = append(days, day.String())
	}
	for _, slot := range req.PreferredTimes {
		if _, err := time.Parse("15:04", slot); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("preferred time %q is not HH:MM", slot))
		}
	}

	pref := &models.InstructorPreference{
		InstructorID:   instructorID,
		PreferredDays:  pq.StringArray(days),
		PreferredTimes: pq.StringArray(req.PreferredTimes),
	}
	if err := s.prefs.Upsert(ctx, pref); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save instructor preferences")
	}
	s.logger.Info("instructor preferences saved",
		zap.String("instructor_id", instructorID),
		zap.Strings("days", days),
	)
	return pref, nil
}

func (s *TimetableService) recordRun(outcome string, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordScheduleRun(outcome, duration)
	}
}

func listCacheKey(query dto.TimetableQuery) string {
	return fmt.Sprintf("timetable:%s:%d:%s:%s", query.Semester, query.Year, query.InstructorID, query.ClassroomID)
}

func listCachePattern(semester string, year int) string {
	return fmt.Sprintf("timetable:%s:%d:*", semester, year)
}

// buildEngineSections converts persisted section rows into engine inputs,
// preserving repository order. A cohort key exists only when the owning
// course carries all three of department, curriculum year and term.
func buildEngineSections(rows []models.SchedulableSection) []timetable.Section {
	sections := make([]timetable.Section, 0, len(rows))
	for _, row := range rows {
		section := timetable.Section{
			ID:               row.ID,
			CourseID:         row.CourseID,
			InstructorID:     row.InstructorID,
			Capacity:         row.Capacity,
			Required:         row.IsRequired,
			RequiredFeatures: []string(row.RequiredFeatures),
		}
		if row.DepartmentID != nil && row.CurriculumYear != nil && row.CurriculumTerm != nil {
			section.Cohort = &timetable.CohortKey{
				DepartmentID: *row.DepartmentID,
				Year:         *row.CurriculumYear,
				Term:         *row.CurriculumTerm,
			}
		}
		sections = append(sections, section)
	}
	return sections
}

func buildEngineClassrooms(rows []models.Classroom) []timetable.Classroom {
	rooms := make([]timetable.Classroom, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, timetable.Classroom{
			ID:       row.ID,
			Capacity: row.Capacity,
			Features: []string(row.Features),
		})
	}
	return rooms
}

// buildEnrollmentIndex groups roster rows per section, dropping duplicate
// student entries so the conflict ledgers book each student once per slot.
func buildEnrollmentIndex(rosters []models.SectionRoster) timetable.EnrollmentIndex {
	index := make(timetable.EnrollmentIndex)
	seen := make(map[models.SectionRoster]struct{}, len(rosters))
	for _, row := range rosters {
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		index[row.SectionID] = append(index[row.SectionID], row.StudentID)
	}
	for _, students := range index {
		sort.Strings(students)
	}
	return index
}

func buildConstraints(rows []models.InstructorPreference) (timetable.Constraints, error) {
	if len(rows) == 0 {
		return timetable.Constraints{}, nil
	}
	prefs := make(map[string]timetable.InstructorPreference, len(rows))
	for _, row := range rows {
		var pref timetable.InstructorPreference
		for _, name := range row.PreferredDays {
			day, ok := timetable.ParseDay(name)
			if !ok {
				return timetable.Constraints{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("instructor %s has unknown preferred day %q", row.InstructorID, name))
			}
			pref.PreferredDays = append(pref.PreferredDays, day)
		}
		pref.PreferredTimes = append(pref.PreferredTimes, []string(row.PreferredTimes)...)
		prefs[row.InstructorID] = pref
	}
	return timetable.Constraints{InstructorPreferences: prefs}, nil
}

// --- Proposal cache ---

type timetableProposal struct {
	ProposalID    string
	Semester      string
	Year          int
	ClearExisting bool
	Schedule      []timetable.Assignment
	Stats         dto.TimetableStats
	RequestedAt   time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]timetableProposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]timetableProposal),
	}
}

func (s *proposalStore) Save(proposal timetableProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *proposalStore) Get(id string) (timetableProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return timetableProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return timetableProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
