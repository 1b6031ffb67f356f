package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/dto"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
	appErrors "github.com/ridvansevik/campus-management-system-backend-part3/pkg/errors"
)

type sectionBrowser interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.CourseSection, int, error)
	FindByID(ctx context.Context, id string) (*models.CourseSection, error)
}

type classroomBrowser interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type studentDirectory interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type sectionMeetingReader interface {
	ListBySection(ctx context.Context, sectionID string) ([]models.Schedule, error)
}

// CatalogService serves read-only browsing of sections, classrooms and
// students for the administrative UI.
type CatalogService struct {
	sections  sectionBrowser
	rooms     classroomBrowser
	students  studentDirectory
	meetings  sectionMeetingReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService wires catalog dependencies.
func NewCatalogService(sections sectionBrowser, rooms classroomBrowser, students studentDirectory, meetings sectionMeetingReader, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		sections:  sections,
		rooms:     rooms,
		students:  students,
		meetings:  meetings,
		validator: validate,
		logger:    logger,
	}
}

// ListSections returns course sections matching the query.
func (s *CatalogService) ListSections(ctx context.Context, query dto.SectionQuery) ([]models.CourseSection, int, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section query")
	}
	sections, total, err := s.sections.List(ctx, models.SectionFilter{
		CourseID:     query.CourseID,
		InstructorID: query.InstructorID,
		Semester:     query.Semester,
		Year:         query.Year,
		Page:         query.Page,
		PageSize:     query.PageSize,
		SortBy:       query.SortBy,
		SortOrder:    query.SortOrder,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	return sections, total, nil
}

// GetSection loads one section by id.
func (s *CatalogService) GetSection(ctx context.Context, id string) (*models.CourseSection, error) {
	section, err := s.sections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return section, nil
}

// SectionSchedule returns the persisted meetings of one section.
func (s *CatalogService) SectionSchedule(ctx context.Context, id string) ([]models.Schedule, error) {
	if _, err := s.GetSection(ctx, id); err != nil {
		return nil, err
	}
	meetings, err := s.meetings.ListBySection(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section schedule")
	}
	return meetings, nil
}

// ListClassrooms returns classrooms matching the query.
func (s *CatalogService) ListClassrooms(ctx context.Context, query dto.ClassroomQuery) ([]models.Classroom, int, error) {
	rooms, total, err := s.rooms.List(ctx, models.ClassroomFilter{
		Building:    query.Building,
		MinCapacity: query.MinCapacity,
		Feature:     query.Feature,
		Active:      query.Active,
		Page:        query.Page,
		PageSize:    query.PageSize,
		SortBy:      query.SortBy,
		SortOrder:   query.SortOrder,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	return rooms, total, nil
}

// GetClassroom loads one classroom by id.
func (s *CatalogService) GetClassroom(ctx context.Context, id string) (*models.Classroom, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	return room, nil
}

// ListStudents returns students matching the query.
func (s *CatalogService) ListStudents(ctx context.Context, query dto.StudentQuery) ([]models.Student, int, error) {
	students, total, err := s.students.List(ctx, models.StudentFilter{
		Search:       query.Search,
		DepartmentID: query.DepartmentID,
		Year:         query.Year,
		Active:       query.Active,
		Page:         query.Page,
		PageSize:     query.PageSize,
		SortBy:       query.SortBy,
		SortOrder:    query.SortOrder,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, total, nil
}

// GetStudent loads one student by id.
func (s *CatalogService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}
